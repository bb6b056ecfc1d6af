package export

import (
	"fmt"
	"wagescraper/models"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Salarios"

// XLSX writes the table to a single-sheet workbook with numeric wage cells.
func XLSX(t *models.WageTable) (*Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("export: naming sheet: %w", err)
	}

	headers := models.Headers()
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("export: writing header: %w", err)
	}

	for i, r := range t.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{r.Country, r.OldWage, r.NewWage, r.Currency, r.Period}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("export: writing row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: encoding workbook: %w", err)
	}
	return &Artifact{Filename: XLSXFilename, ContentType: XLSXContentType, Data: buf.Bytes()}, nil
}
