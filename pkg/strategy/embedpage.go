package strategy

import (
	"context"
	"fmt"
	"time"

	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/httpclient"
)

// EmbedPageStrategy applies the watch-page scraping flow to the /embed/
// player page. The embed page sometimes still carries the caption
// manifest when the watch page is blocked or served without it.
type EmbedPageStrategy struct {
	baseURL string
	browser *httpclient.HTTPClient
	api     *httpclient.HTTPClient
}

// NewEmbedPageStrategy creates the embed-page scraping strategy.
func NewEmbedPageStrategy(timeout time.Duration) *EmbedPageStrategy {
	return &EmbedPageStrategy{
		baseURL: "https://www.youtube.com",
		browser: httpclient.NewClient(httpclient.BrowserClient, timeout),
		api:     httpclient.NewClient(httpclient.APIClient, timeout),
	}
}

// SetBaseURL overrides the page host. Used by tests.
func (s *EmbedPageStrategy) SetBaseURL(baseURL string) {
	s.baseURL = baseURL
}

func (s *EmbedPageStrategy) Name() string { return "embed-page" }

func (s *EmbedPageStrategy) Extract(ctx context.Context, videoID string, opts domain.ExtractOptions) (*domain.TranscriptResult, error) {
	pageURL := fmt.Sprintf("%s/embed/%s", s.baseURL, videoID)
	return scrapePage(ctx, s.Name(), pageURL, videoID, opts, s.browser, s.api)
}
