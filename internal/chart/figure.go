// Package chart builds the wage comparison figures and renders them to PNG.
package chart

import (
	"errors"
	"fmt"
	"wagescraper/models"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrCountryNotFound is returned when no row matches the requested country.
	ErrCountryNotFound = errors.New("chart: country not found")
	// ErrEmptyFigure is returned when a figure has nothing to draw.
	ErrEmptyFigure = errors.New("chart: figure has no data")
)

type Kind int

const (
	// Stacked draws one stack per label, series on top of each other.
	Stacked Kind = iota
	// Bars draws one bar per label from a single series.
	Bars
)

const (
	generalTitle = "Comparação de Salários Antigo e Atual por País"
	countryTitle = "Comparação de Salários Antigo e Atual - %s"
	wageLabel    = "Salário"
)

var (
	ColorOld = drawing.ColorFromHex("87CEEB") // skyblue
	ColorNew = drawing.ColorFromHex("FFA500") // orange
)

// Series is one named row of values, aligned with Figure.Labels.
type Series struct {
	Name   string
	Values []float64
	Color  drawing.Color
}

// Figure describes what to draw independently of how it is rasterized.
type Figure struct {
	Kind   Kind
	Title  string
	YLabel string
	Labels []string
	Series []Series
	// LabelRotation is the x-axis label angle in degrees.
	LabelRotation float64
}

// Empty reports whether the figure has no bars.
func (f *Figure) Empty() bool {
	return f == nil || len(f.Labels) == 0 || len(f.Series) == 0
}

// General stacks the new wage on top of the old wage for every country, in
// table order.
func General(t *models.WageTable) *Figure {
	cols := t.Columns()
	return &Figure{
		Kind:   Stacked,
		Title:  generalTitle,
		YLabel: wageLabel,
		Labels: cols.Country,
		Series: []Series{
			{Name: models.ColumnOldWage, Values: cols.OldWage, Color: ColorOld},
			{Name: models.ColumnNewWage, Values: cols.NewWage, Color: ColorNew},
		},
		LabelRotation: 60,
	}
}

// Country draws the old and new wage of the first row matching name side
// by side.
func Country(t *models.WageTable, name string) (*Figure, error) {
	r, ok := t.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCountryNotFound, name)
	}
	return &Figure{
		Kind:   Bars,
		Title:  fmt.Sprintf(countryTitle, r.Country),
		YLabel: fmt.Sprintf("%s (%s)", wageLabel, r.Currency),
		Labels: []string{models.ColumnOldWage, models.ColumnNewWage},
		Series: []Series{
			{Name: r.Country, Values: []float64{r.OldWage, r.NewWage}},
		},
	}, nil
}
