package export

import (
	"bytes"
	"wagescraper/internal/chart"
)

// PNG rasterizes fig and names it after name ("geral" for the general
// chart, the country otherwise).
func PNG(fig *chart.Figure, name string) (*Artifact, error) {
	var buf bytes.Buffer
	if err := chart.RenderPNG(fig, &buf); err != nil {
		return nil, err
	}
	return &Artifact{Filename: ChartFilename(name), ContentType: PNGContentType, Data: buf.Bytes()}, nil
}
