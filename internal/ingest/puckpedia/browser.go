package puckpedia

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// BrowserFetcher renders pages in headless Chrome. It is used when plain
// HTTP fetches are blocked.
type BrowserFetcher struct {
	baseURL string
	timeout time.Duration
	log     zerolog.Logger

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowserFetcher starts a headless browser allocator.
func NewBrowserFetcher(baseURL string, log zerolog.Logger) *BrowserFetcher {
	if baseURL == "" {
		baseURL = BaseURL
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserFetcher{
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  30 * time.Second,
		log:      log.With().Str("component", "puckpedia-browser").Logger(),
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Close releases the browser.
func (b *BrowserFetcher) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// FetchPage navigates to path and returns the rendered document.
func (b *BrowserFetcher) FetchPage(ctx context.Context, path string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.timeout)
	defer cancel()

	// Tie the browser run to the caller's cancellation.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	url := b.baseURL + path
	b.log.Debug().Str("url", url).Msg("rendering")

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}

	if htmlContent == "" {
		return "", errors.New("empty HTML content returned")
	}

	return htmlContent, nil
}
