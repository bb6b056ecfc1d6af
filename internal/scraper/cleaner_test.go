package scraper

import (
	"errors"
	"testing"
	"wagescraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWage(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1,234", 1234.0, false},
		{" 820 ", 820, false},
		{"1,234,567.89", 1234567.89, false},
		{"11.44", 11.44, false},
		{"not-a-number", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWage(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNotNumeric))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClean_TrimsAndConverts(t *testing.T) {
	table, err := Clean([]models.RawWageRecord{
		{Row: 0, Country: " Spain ", OldWage: "1,134", NewWage: "1,184", Period: " Dec/24", Currency: "EUR/Month  "},
	})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	r := table.Records[0]
	assert.Equal(t, "Spain", r.Country)
	assert.Equal(t, 1134.0, r.OldWage)
	assert.Equal(t, 1184.0, r.NewWage)
	assert.Equal(t, "Dec/24", r.Period)
	assert.Equal(t, "EUR/Month", r.Currency)
}

func TestClean_ConversionError(t *testing.T) {
	result, err := defaultExtractor().Extract(readFixture(t, "bad_number.html"))
	require.NoError(t, err)

	_, err = Clean(result.Records)
	require.Error(t, err)

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, 0, convErr.Row)
	assert.Equal(t, models.ColumnOldWage, convErr.Column)
	assert.Equal(t, "n/a", convErr.Value)
	assert.True(t, errors.Is(err, ErrNotNumeric))
}

func TestClean_Idempotent(t *testing.T) {
	result, err := defaultExtractor().Extract(readFixture(t, "minimum_wages.html"))
	require.NoError(t, err)

	once, err := Clean(result.Records)
	require.NoError(t, err)
	twice, err := Clean(once.Raw())
	require.NoError(t, err)

	assert.Equal(t, once.Records, twice.Records)
}
