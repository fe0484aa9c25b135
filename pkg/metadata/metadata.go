// Package metadata fetches best-effort video metadata: the public oEmbed
// endpoint first, with a watch-page scrape as fallback.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"yt-transcripts/pkg/httpclient"
)

var (
	ErrNoMetadata = errors.New("no metadata available for video")
)

// VideoMetadata is the lightweight metadata recoverable without any API key.
type VideoMetadata struct {
	Title       string
	Author      string
	Description string
}

// Client looks up video metadata over public, unauthenticated endpoints.
type Client struct {
	oembedBaseURL string
	watchBaseURL  string
	api           *httpclient.HTTPClient
	browser       *httpclient.HTTPClient
}

// NewClient creates a metadata client against the public endpoints.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		oembedBaseURL: "https://www.youtube.com/oembed",
		watchBaseURL:  "https://www.youtube.com",
		api:           httpclient.NewClient(httpclient.APIClient, timeout),
		browser:       httpclient.NewClient(httpclient.BrowserClient, timeout),
	}
}

// SetBaseURLs overrides the endpoint roots. Used by tests.
func (c *Client) SetBaseURLs(oembedBaseURL, watchBaseURL string) {
	c.oembedBaseURL = oembedBaseURL
	c.watchBaseURL = watchBaseURL
}

// Fetch returns metadata for a video: oEmbed first, then a watch-page
// scrape. Returns ErrNoMetadata when both fail.
func (c *Client) Fetch(ctx context.Context, videoID string) (*VideoMetadata, error) {
	if meta, err := c.FetchOEmbed(ctx, videoID); err == nil {
		return meta, nil
	}

	meta, err := c.FetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, ErrNoMetadata
	}
	return meta, nil
}

type oembedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// FetchOEmbed queries the public oEmbed endpoint for title and author.
func (c *Client) FetchOEmbed(ctx context.Context, videoID string) (*VideoMetadata, error) {
	url := fmt.Sprintf("%s?url=https://www.youtube.com/watch?v=%s&format=json", c.oembedBaseURL, videoID)

	body, _, err := c.api.FetchBytes(ctx, url, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch oembed: %w", err)
	}

	var decoded oembedResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode oembed: %w", err)
	}

	if strings.TrimSpace(decoded.Title) == "" {
		return nil, ErrNoMetadata
	}

	return &VideoMetadata{
		Title:  strings.TrimSpace(decoded.Title),
		Author: strings.TrimSpace(decoded.AuthorName),
	}, nil
}

// FetchWatchPage scrapes the watch page for title, channel name and
// description. Heavier than oEmbed but works when oEmbed is blocked.
func (c *Client) FetchWatchPage(ctx context.Context, videoID string) (*VideoMetadata, error) {
	url := fmt.Sprintf("%s/watch?v=%s", c.watchBaseURL, videoID)

	body, _, err := c.browser.FetchBytes(ctx, url, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	meta := ParsePage(string(body))
	if meta.Title == "" {
		return nil, ErrNoMetadata
	}
	return meta, nil
}

// ParsePage extracts title/author/description from watch-page HTML.
// Readability handles title and body text; goquery covers the og: meta
// tags readability misses on player pages.
func ParsePage(html string) *VideoMetadata {
	meta := &VideoMetadata{}

	if article, err := readability.FromReader(strings.NewReader(html), nil); err == nil {
		meta.Title = strings.TrimSpace(article.Title)
		meta.Author = strings.TrimSpace(article.Byline)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return meta
	}

	if meta.Title == "" {
		if title, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
			meta.Title = strings.TrimSpace(title)
		}
	}
	if meta.Title == "" {
		meta.Title = cleanPageTitle(doc.Find("title").First().Text())
	}

	if meta.Author == "" {
		if author, ok := doc.Find("link[itemprop='name']").Attr("content"); ok {
			meta.Author = strings.TrimSpace(author)
		}
	}
	if meta.Author == "" {
		if author, ok := doc.Find("meta[name='author']").Attr("content"); ok {
			meta.Author = strings.TrimSpace(author)
		}
	}

	if description, ok := doc.Find("meta[property='og:description']").Attr("content"); ok {
		meta.Description = strings.TrimSpace(description)
	} else if description, ok := doc.Find("meta[name='description']").Attr("content"); ok {
		meta.Description = strings.TrimSpace(description)
	}

	return meta
}

func cleanPageTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.TrimSuffix(title, " - YouTube")
	return strings.TrimSpace(title)
}
