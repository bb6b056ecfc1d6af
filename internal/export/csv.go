package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"wagescraper/models"
)

// CSV serializes the table with a header row and no index column.
func CSV(t *models.WageTable) (*Artifact, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(models.Headers()); err != nil {
		return nil, fmt.Errorf("failed to write headers: %v", err)
	}
	for _, record := range t.Rows() {
		if err := writer.Write(record.Values()); err != nil {
			return nil, fmt.Errorf("failed to write record: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return &Artifact{Filename: CSVFilename, ContentType: CSVContentType, Data: buf.Bytes()}, nil
}

// ParseCSV reads a file written by CSV back into raw records.
func ParseCSV(r io.Reader) ([]string, []models.RawWageRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(models.Headers())

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("export: reading csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("export: csv has no header row")
	}

	records := make([]models.RawWageRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		records = append(records, models.RawWageRecord{
			Row:      i,
			Country:  row[0],
			OldWage:  row[1],
			NewWage:  row[2],
			Currency: row[3],
			Period:   row[4],
		})
	}
	return rows[0], records, nil
}
