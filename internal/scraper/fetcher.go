package scraper

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"wagescraper/internal/browser"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// Fetcher downloads the page that lists the wages.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (string, error)
}

// HTTPFetcher issues a plain GET. Certificates are verified unless
// insecureSkipVerify is set.
type HTTPFetcher struct {
	client *resty.Client
}

func NewHTTPFetcher(timeout time.Duration, insecureSkipVerify bool) *HTTPFetcher {
	client := resty.New().SetTimeout(timeout)
	if insecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("scraper: GET %s: %w", url, err)
	}
	if res.IsError() || res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		return "", &StatusError{URL: url, Code: res.StatusCode(), Status: res.Status()}
	}

	contentType := res.Header().Get("Content-Type")
	if !isTextContent(contentType) {
		return "", fmt.Errorf("%w: content type %q", ErrNotHTML, contentType)
	}
	return decodeBody(res.Body(), contentType)
}

func isTextContent(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/") ||
		mediaType == "application/xhtml+xml" ||
		mediaType == "application/xml"
}

// decodeBody converts the body to UTF-8 using the declared or sniffed charset.
func decodeBody(body []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", fmt.Errorf("scraper: decoding body: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("scraper: decoding body: %w", err)
	}
	return string(decoded), nil
}

// BrowserFetcher loads the page in headless Chrome and returns the rendered
// document.
type BrowserFetcher struct {
	browser *browser.Browser
	timeout time.Duration
}

func NewBrowserFetcher(b *browser.Browser, timeout time.Duration) *BrowserFetcher {
	return &BrowserFetcher{browser: b, timeout: timeout}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	tabCtx, closeTab, err := f.browser.NewTab(ctx)
	if err != nil {
		return "", err
	}
	defer closeTab()

	extra := network.Headers{}
	var userAgent string
	for k, v := range headers {
		if strings.EqualFold(k, "User-Agent") {
			userAgent = v
			continue
		}
		extra[k] = v
	}

	actions := []chromedp.Action{network.Enable()}
	if len(extra) > 0 {
		actions = append(actions, network.SetExtraHTTPHeaders(extra))
	}
	if userAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(userAgent))
	}

	var html string
	actions = append(actions,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", fmt.Errorf("scraper: failed to navigate to %s: %w", url, err)
	}
	return html, nil
}
