package scraper

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"wagescraper/models"
)

// ParseWage strips thousands separators and parses the rest as a float.
// Empty and non-finite values are rejected.
func ParseWage(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty value", ErrNotNumeric)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotNumeric, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrNotNumeric, s)
	}
	return v, nil
}

// Clean trims every string cell and converts both wage columns. The first
// cell that fails conversion aborts the pass.
func Clean(records []models.RawWageRecord) (*models.WageTable, error) {
	out := make([]models.WageRecord, 0, len(records))
	for _, raw := range records {
		oldWage, err := ParseWage(raw.OldWage)
		if err != nil {
			return nil, &ConversionError{Row: raw.Row, Column: models.ColumnOldWage, Value: raw.OldWage, Err: err}
		}
		newWage, err := ParseWage(raw.NewWage)
		if err != nil {
			return nil, &ConversionError{Row: raw.Row, Column: models.ColumnNewWage, Value: raw.NewWage, Err: err}
		}
		out = append(out, models.WageRecord{
			Country:  strings.TrimSpace(raw.Country),
			OldWage:  oldWage,
			NewWage:  newWage,
			Currency: strings.TrimSpace(raw.Currency),
			Period:   strings.TrimSpace(raw.Period),
		})
	}
	return models.NewWageTable(out), nil
}
