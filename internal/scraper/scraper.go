package scraper

import (
	"context"
	"fmt"
	"os"
	"time"
	"wagescraper/internal/browser"
	"wagescraper/internal/utils"
	"wagescraper/models"
)

type Scraper struct {
	logger      *utils.Logger
	config      *utils.Config
	fetcher     Fetcher
	extractor   *Extractor
	browser     *browser.Browser
	perfTracker *utils.PerformanceTracker
}

// NewScraper wires the fetcher chosen by the config. b may be nil unless
// the config selects the browser mode.
func NewScraper(logger *utils.Logger, config *utils.Config, b *browser.Browser) *Scraper {
	var fetcher Fetcher
	if config.Scraper.Mode == utils.ModeBrowser && b != nil {
		fetcher = NewBrowserFetcher(b, config.FetchTimeout())
	} else {
		fetcher = NewHTTPFetcher(config.FetchTimeout(), config.Scraper.InsecureSkipVerify)
	}
	return NewScraperWithFetcher(logger, config, fetcher, b)
}

func NewScraperWithFetcher(logger *utils.Logger, config *utils.Config, fetcher Fetcher, b *browser.Browser) *Scraper {
	return &Scraper{
		logger:      logger,
		config:      config,
		fetcher:     fetcher,
		extractor:   NewExtractor(config.Scraper.Container, config.Scraper.Columns),
		browser:     b,
		perfTracker: utils.NewPerformanceTracker(),
	}
}

// GetWageTable runs fetch, extract and clean once.
func (s *Scraper) GetWageTable(ctx context.Context) (*models.Snapshot, error) {
	url := s.config.Scraper.URL
	s.logger.Info("Fetching wage table from %s", url)

	s.perfTracker.StartStep("pipeline")
	defer s.perfTracker.EndStep()

	var html string
	err := s.perfTracker.Track("fetch", func() error {
		var err error
		html, err = s.fetcher.Fetch(ctx, url, s.config.Scraper.Headers)
		return err
	})
	if err != nil {
		s.logger.Error("Fetch failed: %v", err)
		return nil, err
	}
	s.logger.Debug("Fetched %d bytes", len(html))

	var extracted *ExtractResult
	err = s.perfTracker.Track("extract", func() error {
		var err error
		extracted, err = s.extractor.Extract(html)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(extracted.Records) == 0 {
		s.logger.Info("No wage rows found under %q", s.config.Scraper.Container)
	}
	for _, r := range extracted.Rejected {
		s.logger.Debug("Rejected row %d: %s", r.Row, r.Reason)
	}

	var table *models.WageTable
	err = s.perfTracker.Track("clean", func() error {
		var err error
		table, err = Clean(extracted.Records)
		return err
	})
	if err != nil {
		s.logger.Error("Cleaning failed: %v", err)
		return nil, err
	}

	s.logger.Info("Extracted %d countries (%d rows rejected)", table.Len(), len(extracted.Rejected))
	return &models.Snapshot{
		Source:    url,
		FetchedAt: time.Now(),
		Table:     table,
		Rejected:  extracted.Rejected,
	}, nil
}

func (s *Scraper) GetPerformanceTracker() *utils.PerformanceTracker {
	return s.perfTracker
}

type preflightCheck struct {
	name  string
	check func(context.Context) error
}

// PreflightCheck verifies configuration, directories, the network and,
// when it will be needed, the browser.
func (s *Scraper) PreflightCheck(ctx context.Context) error {
	checks := []preflightCheck{
		{"Config Validation", s.validateConfig},
		{"Directory Structure", s.checkDirectories},
		{"Network Settings", s.testNetworkSettings},
	}
	if s.browser != nil && (s.config.Scraper.Mode == utils.ModeBrowser || s.config.Export.PDF.Enabled) {
		checks = append(checks, preflightCheck{"Browser Launch", s.browser.Ping})
	}

	for _, c := range checks {
		s.logger.Debug("Running preflight check: %s", c.name)
		if err := c.check(ctx); err != nil {
			return fmt.Errorf("%s check failed: %w", c.name, err)
		}
		s.logger.Debug("%s check passed", c.name)
	}

	return nil
}

func (s *Scraper) validateConfig(context.Context) error {
	return s.config.Validate()
}

func (s *Scraper) checkDirectories(context.Context) error {
	dirs := []string{
		s.config.Output.Dir,
		s.config.Logging.Dir,
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s directory: %v", dir, err)
		}
	}
	return nil
}

func (s *Scraper) testNetworkSettings(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout())
	defer cancel()

	html, err := s.fetcher.Fetch(ctx, s.config.Scraper.URL, s.config.Scraper.Headers)
	if err != nil {
		return err
	}
	extracted, err := s.extractor.Extract(html)
	if err != nil {
		return err
	}
	if len(extracted.Records) == 0 {
		return fmt.Errorf("page has no rows under %q", s.config.Scraper.Container)
	}
	return nil
}
