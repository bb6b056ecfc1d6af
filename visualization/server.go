// Package visualization serves the wage dashboard: the table, summary,
// charts and file downloads.
package visualization

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"
	"wagescraper/internal/analysis"
	"wagescraper/internal/chart"
	"wagescraper/internal/export"
	"wagescraper/internal/utils"
	"wagescraper/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*
var embeddedFiles embed.FS

const (
	pageTitle       = "Salário Mínimo por País"
	countryNotFound = "País não encontrado."
)

// Server is the dashboard HTTP server.
type Server struct {
	router    *chi.Mux
	logger    *utils.Logger
	addr      string
	cache     *snapshotCache
	pdf       *export.PDFRenderer
	templates *template.Template
}

// NewServer builds the router. pdf may be nil, which disables the PDF
// download.
func NewServer(logger *utils.Logger, config *utils.Config, source Source, pdf *export.PDFRenderer) (*Server, error) {
	funcMap := template.FuncMap{
		"wage": models.FormatWage,
		"pct": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 2, 64)
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	if !config.Export.PDF.Enabled {
		pdf = nil
	}

	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger,
		addr:      config.Server.Addr,
		cache:     newSnapshotCache(source, config.CacheTTL()),
		pdf:       pdf,
		templates: templates,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/refresh", s.handleRefresh)

	s.router.Route("/chart", func(r chi.Router) {
		r.Get("/general.png", s.handleGeneralChart)
		r.Get("/country.png", s.handleCountryChart)
	})

	s.router.Route("/export", func(r chi.Router) {
		r.Get("/"+export.CSVFilename, s.handleCSV)
		r.Get("/"+export.XLSXFilename, s.handleXLSX)
		r.Get("/"+export.PDFFilename, s.handlePDF)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting dashboard on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type indexData struct {
	Title      string
	Snapshot   *models.Snapshot
	Summary    analysis.Summary
	Query      string
	Country    *models.WageRecord
	NotFound   string
	PDFEnabled bool
}

type errorData struct {
	Title string
	Error string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	data := indexData{
		Title:      pageTitle,
		Snapshot:   snap,
		Summary:    analysis.Summarize(snap.Table),
		Query:      strings.TrimSpace(r.URL.Query().Get("country")),
		PDFEnabled: s.pdf != nil,
	}
	if data.Query != "" {
		if rec, found := snap.Table.Find(data.Query); found {
			data.Country = &rec
		} else {
			data.NotFound = countryNotFound
		}
	}
	s.renderTemplate(w, http.StatusOK, "index.html", data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("Cache purged on request")
	s.cache.Purge()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGeneralChart(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	artifact, err := export.PNG(chart.General(snap.Table), export.GeneralChartName)
	if err != nil {
		s.renderChartError(w, err)
		return
	}
	s.writeArtifact(w, r, artifact)
}

func (s *Server) handleCountryChart(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	name := r.URL.Query().Get("country")
	fig, err := chart.Country(snap.Table, name)
	if err != nil {
		s.renderChartError(w, err)
		return
	}
	rec, _ := snap.Table.Find(name)
	artifact, err := export.PNG(fig, rec.Country)
	if err != nil {
		s.renderChartError(w, err)
		return
	}
	s.writeArtifact(w, r, artifact)
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, func(ctx context.Context, t *models.WageTable) (*export.Artifact, error) {
		return export.CSV(t)
	})
}

func (s *Server) handleXLSX(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, func(ctx context.Context, t *models.WageTable) (*export.Artifact, error) {
		return export.XLSX(t)
	})
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	if s.pdf == nil {
		http.NotFound(w, r)
		return
	}
	s.serveExport(w, r, s.pdf.PDF)
}

func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, build func(context.Context, *models.WageTable) (*export.Artifact, error)) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	artifact, err := build(r.Context(), snap.Table)
	if err != nil {
		s.logger.Error("Export failed: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, export.ErrRendererUnavailable) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Disposition", attachment(artifact.Filename))
	s.writeArtifact(w, r, artifact)
}

// snapshot loads the cached table, rendering the error page on failure.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*models.Snapshot, bool) {
	snap, err := s.cache.Get(r.Context())
	if err != nil {
		s.logger.Error("Pipeline failed: %v", err)
		s.renderTemplate(w, http.StatusBadGateway, "error.html", errorData{
			Title: pageTitle,
			Error: err.Error(),
		})
		return nil, false
	}
	return snap, true
}

func (s *Server) renderChartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chart.ErrCountryNotFound):
		http.Error(w, countryNotFound, http.StatusNotFound)
	case errors.Is(err, chart.ErrEmptyFigure):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error("Chart rendering failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, a *export.Artifact) {
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", attachment(a.Filename))
	}
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(a.Len()))
	w.Write(a.Data)
}

func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

func (s *Server) renderTemplate(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(buf.String()))
}
