package export

import (
	"context"
	"errors"
	"wagescraper/internal/chart"
	"wagescraper/internal/utils"
	"wagescraper/models"
)

// Batch writes the artifacts of one table into an output directory.
type Batch struct {
	dir    string
	logger *utils.Logger
}

func NewBatch(dir string, logger *utils.Logger) *Batch {
	return &Batch{dir: dir, logger: logger}
}

func (b *Batch) save(a *Artifact) (string, error) {
	path, err := a.Save(b.dir)
	if err != nil {
		b.logger.Error("Error saving %s: %v", a.Filename, err)
		return "", err
	}
	b.logger.Info("Saved %s (%d bytes)", path, a.Len())
	return path, nil
}

// WriteTable writes the CSV, the XLSX and the general chart, plus the PDF
// when pdf is non-nil, and returns the paths written. An empty table skips
// the chart.
func (b *Batch) WriteTable(ctx context.Context, t *models.WageTable, pdf *PDFRenderer) ([]string, error) {
	var paths []string
	write := func(a *Artifact, err error) error {
		if err != nil {
			return err
		}
		path, err := b.save(a)
		if err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	}

	if err := write(CSV(t)); err != nil {
		return paths, err
	}
	if err := write(XLSX(t)); err != nil {
		return paths, err
	}

	err := write(PNG(chart.General(t), GeneralChartName))
	switch {
	case errors.Is(err, chart.ErrEmptyFigure):
		b.logger.Info("Table is empty, skipping the general chart")
	case err != nil:
		return paths, err
	}

	if pdf != nil {
		if err := write(pdf.PDF(ctx, t)); err != nil {
			return paths, err
		}
	}
	return paths, nil
}

// processCountry writes the two-bar chart for one country.
func (b *Batch) processCountry(t *models.WageTable, country string) (string, error) {
	b.logger.Info("Processing country: %s", country)

	fig, err := chart.Country(t, country)
	if err != nil {
		return "", err
	}
	rec, _ := t.Find(country)
	a, err := PNG(fig, rec.Country)
	if err != nil {
		return "", err
	}
	return b.save(a)
}

// WriteCountryCharts writes one chart per country and returns the paths
// written and the countries skipped. Unknown countries are logged and
// skipped.
func (b *Batch) WriteCountryCharts(t *models.WageTable, countries []string) (written, skipped []string) {
	total := len(countries)
	if total == 0 {
		return nil, nil
	}
	b.logger.Info("Starting to process %d countries", total)

	for i, country := range countries {
		b.logger.Debug("Country %d/%d", i+1, total)
		path, err := b.processCountry(t, country)
		if err != nil {
			skipped = append(skipped, country)
			if errors.Is(err, chart.ErrCountryNotFound) {
				b.logger.Error("País não encontrado: %s", country)
				continue
			}
			b.logger.Error("Failed to process country %s: %v", country, err)
			continue
		}
		written = append(written, path)
	}

	b.logger.Info("Completed processing %d countries (%d skipped)", total, len(skipped))
	return written, skipped
}
