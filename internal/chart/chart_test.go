package chart

import (
	"bytes"
	"image/png"
	"testing"
	"wagescraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gochart "github.com/wcharczuk/go-chart/v2"
)

func sampleTable() *models.WageTable {
	return models.NewWageTable([]models.WageRecord{
		{Country: "Portugal", OldWage: 500, NewWage: 600, Currency: "EUR/Month", Period: "Jan/25"},
		{Country: "Spain", OldWage: 1134, NewWage: 1184, Currency: "EUR/Month", Period: "Dec/24"},
		{Country: "United Kingdom", OldWage: 11.44, NewWage: 12.21, Currency: "GBP/Hour", Period: "Apr/25"},
	})
}

func TestCountry_TwoBarsInOrder(t *testing.T) {
	fig, err := Country(sampleTable(), "Portugal")
	require.NoError(t, err)

	assert.Equal(t, Bars, fig.Kind)
	assert.Equal(t, []string{"Salário Antigo", "Salário Atual"}, fig.Labels)
	require.Len(t, fig.Series, 1)
	assert.Equal(t, []float64{500.0, 600.0}, fig.Series[0].Values)
	assert.Equal(t, "Salário (EUR/Month)", fig.YLabel)
	assert.Equal(t, "Comparação de Salários Antigo e Atual - Portugal", fig.Title)
}

func TestCountry_NotFound(t *testing.T) {
	table := models.NewWageTable([]models.WageRecord{
		{Country: "Spain", OldWage: 1, NewWage: 2},
		{Country: "France", OldWage: 3, NewWage: 4},
	})

	fig, err := Country(table, "Germany")
	assert.ErrorIs(t, err, ErrCountryNotFound)
	assert.Nil(t, fig)
}

func TestCountry_FirstDuplicateWins(t *testing.T) {
	table := models.NewWageTable([]models.WageRecord{
		{Country: "Malta", OldWage: 1, NewWage: 2, Currency: "EUR"},
		{Country: "Malta", OldWage: 9, NewWage: 9, Currency: "USD"},
	})

	fig, err := Country(table, "malta")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, fig.Series[0].Values)
	assert.Equal(t, "Salário (EUR)", fig.YLabel)
}

func TestGeneral_StacksInTableOrder(t *testing.T) {
	fig := General(sampleTable())

	assert.Equal(t, Stacked, fig.Kind)
	assert.Equal(t, "Salário", fig.YLabel)
	assert.Equal(t, []string{"Portugal", "Spain", "United Kingdom"}, fig.Labels)
	require.Len(t, fig.Series, 2)
	assert.Equal(t, "Salário Antigo", fig.Series[0].Name)
	assert.Equal(t, []float64{500, 1134, 11.44}, fig.Series[0].Values)
	assert.Equal(t, "Salário Atual", fig.Series[1].Name)
	assert.Equal(t, []float64{600, 1184, 12.21}, fig.Series[1].Values)
	assert.NotZero(t, fig.LabelRotation)
}

func TestRenderPNG(t *testing.T) {
	general := General(sampleTable())
	country, err := Country(sampleTable(), "Spain")
	require.NoError(t, err)

	for name, fig := range map[string]*Figure{"general": general, "country": country} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderPNG(fig, &buf))
			img, err := png.Decode(&buf)
			require.NoError(t, err)
			assert.Greater(t, img.Bounds().Dx(), 0)
		})
	}
}

func TestRenderPNG_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPNG(General(models.NewWageTable(nil)), &buf)
	assert.ErrorIs(t, err, ErrEmptyFigure)
	assert.Zero(t, buf.Len())
}

func TestStack_LayersUseWageValues(t *testing.T) {
	layers, max := stack(General(sampleTable()))

	require.Len(t, layers, 2)
	assert.Equal(t, "Salário Antigo", layers[0].Name)
	assert.Equal(t, []float64{0, 0, 0}, layers[0].Base)
	assert.Equal(t, []float64{500, 1134, 11.44}, layers[0].Values)

	// The current wage sits on top of the old one, so the tallest stack is
	// Spain's 1134 + 1184.
	assert.Equal(t, []float64{500, 1134, 11.44}, layers[1].Base)
	assert.Equal(t, []float64{600, 1184, 12.21}, layers[1].Values)
	assert.Equal(t, 2318.0, max)
}

func TestYAxis_StartsAtZeroWithGrid(t *testing.T) {
	axis := yAxis("Salário", 1000)
	r, ok := axis.Range.(*gochart.ContinuousRange)
	require.True(t, ok)
	assert.Equal(t, 0.0, r.Min)
	assert.InDelta(t, 1100.0, r.Max, 1e-9)
	assert.Equal(t, "Salário", axis.Name)
	assert.False(t, axis.GridMajorStyle.Hidden)
	assert.Equal(t, gridColor, axis.GridMajorStyle.StrokeColor)

	zero := yAxis("", 0)
	assert.Equal(t, 1.1, zero.Range.GetMax())
}
