package main

import (
	"wagescraper/internal/export"
	"wagescraper/internal/scraper"
	"wagescraper/visualization"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the dashboard on server.addr.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Validate(); err != nil {
			return err
		}

		b := newBrowser()
		if b != nil {
			defer b.Close()
		}

		s := scraper.NewScraper(logger, config, b)
		var pdf *export.PDFRenderer
		if config.Export.PDF.Enabled {
			pdf = export.NewPDFRenderer(b, config.PDFTimeout())
		}

		server, err := visualization.NewServer(logger, config, s, pdf)
		if err != nil {
			return err
		}
		return server.Start(cmd.Context())
	},
}
