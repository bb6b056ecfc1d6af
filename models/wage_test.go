package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *WageTable {
	return NewWageTable([]WageRecord{
		{Country: "Spain", OldWage: 1260, NewWage: 1323, Currency: "EUR/Month", Period: "Dec 2024"},
		{Country: "France", OldWage: 1766.92, NewWage: 1801.8, Currency: "EUR/Month", Period: "Nov 2024"},
		{Country: "Spain", OldWage: 1, NewWage: 2, Currency: "EUR/Month", Period: "dup"},
	})
}

func TestWageTable_FindFirstMatch(t *testing.T) {
	table := sampleTable()

	r, ok := table.Find("spain ")
	require.True(t, ok)
	assert.Equal(t, 1260.0, r.OldWage)
	assert.Equal(t, "Dec 2024", r.Period)

	_, ok = table.Find("Germany")
	assert.False(t, ok)
	assert.False(t, table.Contains(""))
}

func TestWageTable_ColumnsEqualLength(t *testing.T) {
	c := sampleTable().Columns()
	n := len(c.Country)
	assert.Equal(t, 3, n)
	assert.Len(t, c.OldWage, n)
	assert.Len(t, c.NewWage, n)
	assert.Len(t, c.Currency, n)
	assert.Len(t, c.Period, n)
}

func TestWageTable_NilSafe(t *testing.T) {
	var table *WageTable
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Countries())
	assert.False(t, table.Contains("Spain"))
	assert.Nil(t, table.Rows())
	assert.Empty(t, table.Raw())

	c := table.Columns()
	assert.Empty(t, c.Country)
	assert.Empty(t, c.OldWage)
	assert.Empty(t, c.NewWage)
	assert.Empty(t, c.Currency)
	assert.Empty(t, c.Period)
}

func TestWageRecord_Values(t *testing.T) {
	r := WageRecord{Country: "Portugal", OldWage: 820, NewWage: 870.5, Currency: "EUR/Month", Period: "Jan 2025"}
	assert.Equal(t, []string{"Portugal", "820", "870.5", "EUR/Month", "Jan 2025"}, r.Values())
	assert.Len(t, Headers(), len(r.Values()))
}
