// Package main is the wagescraper command line: it scrapes the minimum
// wage table, writes the exports and serves the dashboard.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	"wagescraper/internal/browser"
	"wagescraper/internal/utils"

	"github.com/spf13/cobra"
)

var (
	logger    *utils.Logger
	config    *utils.Config
	startTime time.Time
)

var rootCmd = &cobra.Command{
	Use:           "wagescraper",
	Short:         "wagescraper scrapes minimum wages per country and charts them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		startTime = time.Now()

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "configs/config.yaml"
		}

		var err error
		config, err = utils.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err = utils.NewLogger(config.Logging.Dir, utils.ParseLevel(config.Logging.Level))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("Loaded configuration from %s", configPath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Total execution time: %v", time.Since(startTime).Round(time.Millisecond))
		logger.Close()
	},
}

// newBrowser returns a lazily started Chrome when the config can use one,
// nil otherwise.
func newBrowser() *browser.Browser {
	if config.Scraper.Mode != utils.ModeBrowser && !config.Export.PDF.Enabled {
		return nil
	}
	return browser.New(browser.OptionsFromConfig(config), logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Fatal("%v", err)
		}
		log.Fatal(err)
	}
}
