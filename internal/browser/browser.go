// Package browser manages the headless Chrome instance shared by the
// browser fetch mode and the PDF exporter.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"wagescraper/internal/utils"

	"github.com/chromedp/chromedp"
)

var (
	// ErrUnavailable is returned when Chrome cannot be started.
	ErrUnavailable = errors.New("browser: chrome is not available")
	// ErrClosed is returned when a closed Browser is used.
	ErrClosed = errors.New("browser: closed")
)

// Options configures the Chrome process.
type Options struct {
	Headless         bool
	Debug            bool
	NoSandbox        bool
	ExecPath         string
	IgnoreCertErrors bool
}

// OptionsFromConfig builds Options from the scraper section of the config.
func OptionsFromConfig(config *utils.Config) Options {
	b := config.Scraper.Browser
	return Options{
		Headless:         b.Headless,
		Debug:            b.Debug,
		NoSandbox:        b.NoSandbox,
		ExecPath:         b.ExecPath,
		IgnoreCertErrors: config.Scraper.InsecureSkipVerify,
	}
}

// Browser starts Chrome on first use and hands out tabs. It is safe for
// concurrent use.
type Browser struct {
	opts   Options
	logger *utils.Logger

	mu          sync.Mutex
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
}

func New(opts Options, logger *utils.Logger) *Browser {
	return &Browser{opts: opts, logger: logger}
}

func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", b.opts.Headless),
		chromedp.Flag("enable-logging", b.opts.Debug),
	)
	if b.opts.NoSandbox {
		opts = append(opts,
			chromedp.NoSandbox,
			chromedp.Flag("disable-setuid-sandbox", true),
		)
	}
	if b.opts.IgnoreCertErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	if b.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.opts.ExecPath))
	}
	return opts
}

// start launches Chrome. b.mu must be held.
func (b *Browser) start() error {
	if b.closed {
		return ErrClosed
	}
	if b.ctx != nil {
		return nil
	}

	b.logger.Debug("Starting headless Chrome")
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), b.allocatorOptions()...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(b.logger.Debug))

	if err := chromedp.Run(ctx, chromedp.Navigate("about:blank")); err != nil {
		cancel()
		allocCancel()
		b.logger.Error("Failed to launch browser: %v", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	b.allocCancel = allocCancel
	b.ctx = ctx
	b.cancel = cancel
	return nil
}

// NewTab opens a tab bound to ctx: the tab is closed when ctx is done or
// when the returned cancel func is called.
func (b *Browser) NewTab(ctx context.Context) (context.Context, context.CancelFunc, error) {
	b.mu.Lock()
	err := b.start()
	parent := b.ctx
	b.mu.Unlock()
	if err != nil {
		return nil, nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(parent)
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		tabCtx, cancelDeadline = context.WithDeadline(tabCtx, deadline)
		inner := tabCancel
		tabCancel = func() {
			cancelDeadline()
			inner()
		}
	}
	stop := context.AfterFunc(ctx, tabCancel)
	return tabCtx, func() {
		stop()
		tabCancel()
	}, nil
}

// Ping checks that Chrome can be started and can load a blank page.
func (b *Browser) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tabCtx, closeTab, err := b.NewTab(ctx)
	if err != nil {
		return err
	}
	defer closeTab()
	return chromedp.Run(tabCtx, chromedp.Navigate("about:blank"))
}

// Close stops Chrome. Close is idempotent.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if b.ctx == nil {
		return nil
	}

	b.logger.Debug("Closing browser")
	if err := chromedp.Cancel(b.ctx); err != nil {
		b.logger.Debug("Error during graceful shutdown: %v", err)
	}
	b.cancel()
	b.allocCancel()
	return nil
}
