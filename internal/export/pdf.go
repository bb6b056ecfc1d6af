package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"wagescraper/internal/browser"
	"wagescraper/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ErrRendererUnavailable is returned when the PDF engine cannot be started.
var ErrRendererUnavailable = errors.New("export: pdf renderer unavailable")

const pdfDocument = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Salários</title>
<style>
  body { font-family: sans-serif; font-size: 11px; }
  table { border-collapse: collapse; }
  th, td { border: 1px solid #999; padding: 2px 6px; }
</style>
</head>
<body>
%s
</body>
</html>`

// NewTableWriter loads the table into a go-pretty writer with the export
// headers. It backs both the HTML export and the CLI output.
func NewTableWriter(t *models.WageTable) table.Writer {
	tw := table.NewWriter()
	header := table.Row{}
	for _, h := range models.Headers() {
		header = append(header, h)
	}
	tw.AppendHeader(header)
	for _, r := range t.Rows() {
		row := table.Row{}
		for _, v := range r.Values() {
			row = append(row, v)
		}
		tw.AppendRow(row)
	}
	return tw
}

// HTMLTable renders the table as a basic HTML document.
func HTMLTable(t *models.WageTable) string {
	tw := NewTableWriter(t)
	opts := table.DefaultHTMLOptions
	opts.CSSClass = "salarios"
	tw.Style().HTML = opts
	return fmt.Sprintf(pdfDocument, tw.RenderHTML())
}

// PDFRenderer prints the HTML table to PDF in headless Chrome.
type PDFRenderer struct {
	browser *browser.Browser
	timeout time.Duration
}

func NewPDFRenderer(b *browser.Browser, timeout time.Duration) *PDFRenderer {
	return &PDFRenderer{browser: b, timeout: timeout}
}

// PDF renders the full table as salarios.pdf.
func (p *PDFRenderer) PDF(ctx context.Context, t *models.WageTable) (*Artifact, error) {
	if p == nil || p.browser == nil {
		return nil, ErrRendererUnavailable
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	f, err := os.CreateTemp("", "salarios-*.html")
	if err != nil {
		return nil, fmt.Errorf("export: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(HTMLTable(t)); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("export: closing temp file: %w", err)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("export: resolving path: %w", err)
	}

	tabCtx, closeTab, err := p.browser.NewTab(ctx)
	if err != nil {
		if errors.Is(err, browser.ErrUnavailable) || errors.Is(err, browser.ErrClosed) {
			return nil, fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
		}
		return nil, err
	}
	defer closeTab()

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate("file://"+abs),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return err
		}),
	); err != nil {
		return nil, fmt.Errorf("export: pdf conversion failed: %w", err)
	}

	return &Artifact{Filename: PDFFilename, ContentType: PDFContentType, Data: buf}, nil
}
