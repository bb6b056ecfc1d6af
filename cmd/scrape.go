package main

import (
	"context"
	"fmt"
	"os"
	"wagescraper/internal/analysis"
	"wagescraper/internal/browser"
	"wagescraper/internal/export"
	"wagescraper/internal/scraper"
	"wagescraper/internal/utils"
	"wagescraper/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeCountries     *[]string
	scrapeCountriesFile *string
	scrapePDF           *bool
	scrapeFromCSV       *string
)

func init() {
	scrapeCountries = scrapeCmd.Flags().StringArray("country", nil, "Country to chart separately (repeatable).")
	scrapeCountriesFile = scrapeCmd.Flags().String("countries", "", "CSV file whose first column lists countries to chart.")
	scrapePDF = scrapeCmd.Flags().Bool("pdf", false, "Also write salarios.pdf (needs Chrome).")
	scrapeFromCSV = scrapeCmd.Flags().String("from-csv", "", "Rebuild the exports from a previously written salarios.csv instead of scraping.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--country <name>...] [--countries <file.csv>] [--pdf] [--from-csv <salarios.csv>]",
	Short: "Scrapes the wage table once and writes the exports to output.dir.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Validate(); err != nil {
			return err
		}

		countries := append([]string{}, *scrapeCountries...)
		if *scrapeCountriesFile != "" {
			fromFile, err := utils.ReadCountriesFromCSV(*scrapeCountriesFile)
			if err != nil {
				return fmt.Errorf("error reading CSV file %s: %w", *scrapeCountriesFile, err)
			}
			logger.Info("Found %d countries in %s", len(fromFile), *scrapeCountriesFile)
			countries = append(countries, fromFile...)
		}

		b := newBrowser()
		if b == nil && *scrapePDF {
			b = browser.New(browser.OptionsFromConfig(config), logger)
		}
		if b != nil {
			defer b.Close()
		}
		s := scraper.NewScraper(logger, config, b)

		t, err := loadTable(cmd.Context(), s)
		if err != nil {
			return err
		}
		printTable(t)

		logSummary(analysis.Summarize(t))

		var pdf *export.PDFRenderer
		if *scrapePDF {
			pdf = export.NewPDFRenderer(b, config.PDFTimeout())
		}
		batch := export.NewBatch(config.Output.Dir, logger)
		if _, err := batch.WriteTable(cmd.Context(), t, pdf); err != nil {
			return err
		}
		batch.WriteCountryCharts(t, countries)

		if *scrapeFromCSV == "" {
			logger.Info("Performance Report:\n%s", s.GetPerformanceTracker().GenerateReport())
		}
		logger.Info("Scraping completed successfully!")
		return nil
	},
}

func loadTable(ctx context.Context, s *scraper.Scraper) (*models.WageTable, error) {
	if *scrapeFromCSV == "" {
		snap, err := s.GetWageTable(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range snap.Rejected {
			logger.Debug("Skipped row %d: %s", r.Row, r.Reason)
		}
		return snap.Table, nil
	}

	f, err := os.Open(*scrapeFromCSV)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, records, err := export.ParseCSV(f)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded %d rows from %s", len(records), *scrapeFromCSV)
	return scraper.Clean(records)
}

func printTable(t *models.WageTable) {
	tw := export.NewTableWriter(t)
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.Render()
}

func logSummary(s analysis.Summary) {
	logger.Info("Summary: %d countries, mean increase %.2f%%", s.Countries, s.MeanIncreasePct)
	for _, u := range s.ByUnit {
		logger.Info("  %s: %d countries, mean old %.2f, mean current %.2f, median current %.2f, highest %s (%s)",
			u.Unit, u.Countries, u.MeanOld, u.MeanNew, u.MedianNew, models.FormatWage(u.MaxNew), u.MaxCountry)
	}
}
