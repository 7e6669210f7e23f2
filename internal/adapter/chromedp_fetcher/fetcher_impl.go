package chromedp_fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/user/collection-service/internal/repository"
)

// ChromedpFetcher fetches a page's rendered HTML with a headless browser.
// Used by capturectl for server-driven captures of pages the in-page agent
// cannot reach (e.g. scripted storefronts the user wants captured on demand).
type ChromedpFetcher struct {
	allocatorPool *sync.Pool
	timeout       time.Duration
}

// NewChromedpFetcher creates a new fetcher implementation using chromedp.
func NewChromedpFetcher(maxConcurrency int, pageLoadTimeout time.Duration) (repository.PageFetcher, error) {
	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(`Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36`),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}

	// Pre-warm the pool
	for i := 0; i < maxConcurrency; i++ {
		allocCtx := pool.Get().(context.Context)
		pool.Put(allocCtx)
	}

	return &ChromedpFetcher{
		allocatorPool: pool,
		timeout:       pageLoadTimeout,
	}, nil
}

// FetchHTML navigates to url and returns the rendered document HTML.
func (f *ChromedpFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	allocCtx := f.allocatorPool.Get().(context.Context)
	defer f.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, f.timeout)
	defer cancel()

	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
