package scraper

import (
	"fmt"
	"regexp"
	"strings"
	"wagescraper/internal/utils"
	"wagescraper/models"

	"github.com/PuerkitoBio/goquery"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

func cellText(s *goquery.Selection) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s.Text()), " ")
}

// ExtractResult holds the records found in the page and the data rows
// that were flagged instead.
type ExtractResult struct {
	Records  []models.RawWageRecord
	Rejected []models.RejectedRow
}

// Extractor reads wage rows out of the page by cell position.
type Extractor struct {
	container string
	columns   utils.Columns
}

func NewExtractor(container string, columns utils.Columns) *Extractor {
	return &Extractor{container: container, columns: columns}
}

// Extract scans every container matching the selector. Rows without <td>
// cells are headers and are skipped. Rows with fewer cells than the column
// layout needs are returned in Rejected. A page without the container
// yields an empty result.
func (e *Extractor) Extract(html string) (*ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("scraper: parsing html: %w", err)
	}

	result := &ExtractResult{
		Records:  []models.RawWageRecord{},
		Rejected: []models.RejectedRow{},
	}
	minCells := e.columns.MinCells()
	row := 0

	doc.Find(e.container).Each(func(_ int, container *goquery.Selection) {
		container.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			n := cells.Length()
			if n == 0 {
				return
			}
			defer func() { row++ }()

			if n < minCells {
				result.Rejected = append(result.Rejected, models.RejectedRow{
					Row:    row,
					Cells:  n,
					Reason: fmt.Sprintf("expected at least %d cells, got %d", minCells, n),
				})
				return
			}

			country := cellText(tr.Find("a").First())
			if country == "" {
				country = cellText(cells.Eq(0))
			}
			if country == "" {
				result.Rejected = append(result.Rejected, models.RejectedRow{
					Row:    row,
					Cells:  n,
					Reason: "missing country name",
				})
				return
			}

			result.Records = append(result.Records, models.RawWageRecord{
				Row:      row,
				Country:  country,
				OldWage:  cellText(cells.Eq(e.columns.OldWage)),
				NewWage:  cellText(cells.Eq(e.columns.NewWage)),
				Period:   cellText(cells.Eq(e.columns.Period)),
				Currency: cellText(cells.Eq(e.columns.Currency)),
			})
		})
	})

	return result, nil
}
