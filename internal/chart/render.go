package chart

import (
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	slotWidth   = 38
	minWidth    = 1400
	chartHeight = 800
	barWidth    = 140
	barFill     = 0.7
)

var gridColor = drawing.Color{R: 0, G: 0, B: 0, A: 40}

// RenderPNG rasterizes fig as a PNG image.
func RenderPNG(fig *Figure, w io.Writer) error {
	if fig.Empty() {
		return ErrEmptyFigure
	}
	switch fig.Kind {
	case Bars:
		return renderBars(fig, w)
	default:
		return renderStacked(fig, w)
	}
}

func solid(c drawing.Color) gochart.Style {
	return gochart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

// yAxis returns a value axis from 0 to 10% above max with horizontal grid
// lines behind the bars.
func yAxis(name string, max float64) gochart.YAxis {
	if max <= 0 {
		max = 1
	}
	grid := gochart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	return gochart.YAxis{
		Name:           name,
		Range:          &gochart.ContinuousRange{Min: 0, Max: max * 1.1},
		GridMajorStyle: grid,
		GridMinorStyle: grid,
	}
}

// stackedSeries draws one layer of a stacked bar chart: bar i spans
// Base[i] to Base[i]+Values[i] in data units.
type stackedSeries struct {
	Name   string
	Style  gochart.Style
	Values []float64
	Base   []float64
}

func (s stackedSeries) GetName() string             { return s.Name }
func (s stackedSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (s stackedSeries) GetStyle() gochart.Style     { return s.Style }

func (s stackedSeries) Validate() error {
	return nil
}

func (s stackedSeries) Render(r gochart.Renderer, canvas gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	style := s.Style.InheritFrom(defaults)
	half := int(float64(xrange.Translate(1)-xrange.Translate(0)) * barFill / 2)
	if half < 1 {
		half = 1
	}
	for i, v := range s.Values {
		x := canvas.Left + xrange.Translate(float64(i))
		bottom := canvas.Bottom - yrange.Translate(s.Base[i])
		top := canvas.Bottom - yrange.Translate(s.Base[i]+v)
		gochart.Draw.Box(r, gochart.Box{Top: top, Left: x - half, Right: x + half, Bottom: bottom}, style)
	}
}

// stack turns the figure's series into layers, each resting on the sum of
// the ones before it. It also returns the tallest stack.
func stack(fig *Figure) ([]stackedSeries, float64) {
	base := make([]float64, len(fig.Labels))
	layers := make([]stackedSeries, 0, len(fig.Series))
	for _, s := range fig.Series {
		layer := stackedSeries{
			Name:   s.Name,
			Style:  gochart.Style{FillColor: s.Color, StrokeColor: s.Color, StrokeWidth: 4},
			Values: s.Values,
			Base:   append([]float64(nil), base...),
		}
		for i, v := range s.Values {
			base[i] += v
		}
		layers = append(layers, layer)
	}

	max := 0.0
	for _, v := range base {
		if v > max {
			max = v
		}
	}
	return layers, max
}

func renderStacked(fig *Figure, w io.Writer) error {
	layers, max := stack(fig)

	n := len(fig.Labels)
	// The outer ticks only widen the x range so the edge bars fit.
	ticks := make([]gochart.Tick, 0, n+2)
	ticks = append(ticks, gochart.Tick{Value: -0.5})
	for i, label := range fig.Labels {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: label})
	}
	ticks = append(ticks, gochart.Tick{Value: float64(n) - 0.5})

	width := n*slotWidth + 200
	if width < minWidth {
		width = minWidth
	}

	series := make([]gochart.Series, 0, len(layers))
	for _, l := range layers {
		series = append(series, l)
	}

	c := gochart.Chart{
		Title:      fig.Title,
		Width:      width,
		Height:     chartHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 70, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			Ticks:          ticks,
			TickStyle:      gochart.Style{FontSize: 9, TextRotationDegrees: fig.LabelRotation},
			GridMajorStyle: gochart.Style{Hidden: true},
			GridMinorStyle: gochart.Style{Hidden: true},
		},
		YAxis:  yAxis(fig.YLabel, max),
		Series: series,
	}
	c.Elements = []gochart.Renderable{gochart.Legend(&c)}
	return c.Render(gochart.PNG, w)
}

func renderBars(fig *Figure, w io.Writer) error {
	palette := []drawing.Color{ColorOld, ColorNew}
	values := fig.Series[0].Values
	max := 0.0
	bars := make([]gochart.Value, 0, len(values))
	for i, v := range values {
		if v > max {
			max = v
		}
		bars = append(bars, gochart.Value{
			Label: fig.Labels[i],
			Value: v,
			Style: solid(palette[i%len(palette)]),
		})
	}

	bc := gochart.BarChart{
		Title:      fig.Title,
		Width:      1000,
		Height:     600,
		BarWidth:   barWidth,
		Background: gochart.Style{Padding: gochart.Box{Top: 70, Left: 20, Right: 20, Bottom: 20}},
		YAxis:      yAxis(fig.YLabel, max),
		Bars:       bars,
	}
	return bc.Render(gochart.PNG, w)
}
