// Package export serializes wage tables and charts into downloadable files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	CSVFilename  = "salarios.csv"
	XLSXFilename = "salarios.xlsx"
	PDFFilename  = "salarios.pdf"

	CSVContentType  = "text/csv"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	PDFContentType  = "application/pdf"
	PNGContentType  = "image/png"

	// GeneralChartName is the file suffix used for the all-countries chart.
	GeneralChartName = "geral"
)

// Artifact is an exported payload with the filename and MIME type it is
// offered under.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (a *Artifact) Len() int {
	return len(a.Data)
}

// Save writes the artifact into dir, creating it if needed, and returns
// the path written.
func (a *Artifact) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %v", path, err)
	}
	return path, nil
}

// ChartFilename returns grafico_<name>.png with path separators removed.
func ChartFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("/", "_", "\\", "_", "\x00", "").Replace(name)
	if name == "" || name == "." || name == ".." {
		name = GeneralChartName
	}
	return fmt.Sprintf("grafico_%s.png", name)
}
