package repository

import "context"

// PageFetcher defines the contract for fetching a page's rendered HTML.
// Used by the capturectl tool for server-driven captures; the in-page agent
// path never goes through this.
type PageFetcher interface {
	// FetchHTML navigates to url and returns the rendered document HTML.
	FetchHTML(ctx context.Context, url string) (string, error)
}
