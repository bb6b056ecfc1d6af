package main

import (
	"wagescraper/internal/scraper"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Runs the preflight checks and exits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := newBrowser()
		if b != nil {
			defer b.Close()
		}

		s := scraper.NewScraper(logger, config, b)
		if err := s.PreflightCheck(cmd.Context()); err != nil {
			return err
		}
		logger.Info("All preflight checks passed")
		return nil
	},
}
