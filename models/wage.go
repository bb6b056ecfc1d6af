// Package models defines the data structures used in the application.
package models

import (
	"strconv"
	"strings"
	"time"
)

// Column headers shared by every tabular export.
const (
	ColumnCountry  = "País"
	ColumnOldWage  = "Salário Antigo"
	ColumnNewWage  = "Salário Atual"
	ColumnCurrency = "Moeda"
	ColumnPeriod   = "Período"
)

// Headers returns the table headers in export order.
func Headers() []string {
	return []string{ColumnCountry, ColumnOldWage, ColumnNewWage, ColumnCurrency, ColumnPeriod}
}

// RawWageRecord is one data row as scraped, before any type coercion.
type RawWageRecord struct {
	Row      int // row position inside the scraped container
	Country  string
	OldWage  string
	NewWage  string
	Period   string
	Currency string
}

// RejectedRow is a data row that did not carry enough cells to build a record.
type RejectedRow struct {
	Row    int
	Cells  int
	Reason string
}

// WageRecord represents one country's minimum wage pair.
type WageRecord struct {
	Country  string
	OldWage  float64
	NewWage  float64
	Currency string
	Period   string
}

// Values returns the record as strings in export order.
func (r WageRecord) Values() []string {
	return []string{
		r.Country,
		FormatWage(r.OldWage),
		FormatWage(r.NewWage),
		r.Currency,
		r.Period,
	}
}

// FormatWage renders a wage without thousands separators and without
// trailing zeros.
func FormatWage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WageTable is an ordered collection of records. Duplicate countries are
// allowed; lookups return the first match.
//
// A table is read-only once built. Cached tables are shared between
// dashboard requests.
type WageTable struct {
	Records []WageRecord
}

// NewWageTable wraps records in a table.
func NewWageTable(records []WageRecord) *WageTable {
	if records == nil {
		records = []WageRecord{}
	}
	return &WageTable{Records: records}
}

func (t *WageTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Find returns the first record whose country matches name, ignoring case
// and surrounding whitespace.
func (t *WageTable) Find(name string) (WageRecord, bool) {
	name = strings.TrimSpace(name)
	if t == nil || name == "" {
		return WageRecord{}, false
	}
	for _, r := range t.Records {
		if strings.EqualFold(r.Country, name) {
			return r, true
		}
	}
	return WageRecord{}, false
}

// Rows returns the records in table order; nil for a nil table.
func (t *WageTable) Rows() []WageRecord {
	if t == nil {
		return nil
	}
	return t.Records
}

func (t *WageTable) Contains(name string) bool {
	_, ok := t.Find(name)
	return ok
}

// Countries lists country names in table order.
func (t *WageTable) Countries() []string {
	out := make([]string, 0, t.Len())
	for _, r := range t.Rows() {
		out = append(out, r.Country)
	}
	return out
}

// Columns is the column-oriented view of a table.
type Columns struct {
	Country  []string
	OldWage  []float64
	NewWage  []float64
	Currency []string
	Period   []string
}

// Columns splits the table into five parallel slices of equal length.
func (t *WageTable) Columns() Columns {
	n := t.Len()
	c := Columns{
		Country:  make([]string, 0, n),
		OldWage:  make([]float64, 0, n),
		NewWage:  make([]float64, 0, n),
		Currency: make([]string, 0, n),
		Period:   make([]string, 0, n),
	}
	for _, r := range t.Rows() {
		c.Country = append(c.Country, r.Country)
		c.OldWage = append(c.OldWage, r.OldWage)
		c.NewWage = append(c.NewWage, r.NewWage)
		c.Currency = append(c.Currency, r.Currency)
		c.Period = append(c.Period, r.Period)
	}
	return c
}

// Raw converts the table back to unparsed records.
func (t *WageTable) Raw() []RawWageRecord {
	out := make([]RawWageRecord, 0, t.Len())
	for i, r := range t.Rows() {
		out = append(out, RawWageRecord{
			Row:      i,
			Country:  r.Country,
			OldWage:  FormatWage(r.OldWage),
			NewWage:  FormatWage(r.NewWage),
			Period:   r.Period,
			Currency: r.Currency,
		})
	}
	return out
}

// Snapshot is one run of the scrape pipeline.
type Snapshot struct {
	Source    string
	FetchedAt time.Time
	Table     *WageTable
	Rejected  []RejectedRow
}
