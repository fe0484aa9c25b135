package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"yt-transcripts/pkg/captions"
	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/httpclient"
	"yt-transcripts/pkg/metadata"
)

// captionTrack is one entry of the caption-track manifest embedded in
// watch/embed page HTML.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" marks auto-generated tracks
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

// manifestPatterns locate the captionTracks array in page HTML. The
// exact JSON embedding shifts over time, so several shapes are tried
// in order.
var manifestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"captionTracks":(\[.*?\])(?:,"|\])`),
	regexp.MustCompile(`"captionTracks":\s*(\[.*?\}\])`),
	regexp.MustCompile(`\\"captionTracks\\":(\[.*?\])`),
}

// extractCaptionTracks pulls the caption-track manifest out of page HTML.
// Returns nil when no pattern matches or the manifest fails to decode.
func extractCaptionTracks(html string) []captionTrack {
	for _, pattern := range manifestPatterns {
		match := pattern.FindStringSubmatch(html)
		if match == nil {
			continue
		}

		raw := match[1]
		if strings.Contains(raw, `\"`) {
			// Manifest embedded inside a JSON string; unescape first.
			raw = strings.ReplaceAll(raw, `\"`, `"`)
			raw = strings.ReplaceAll(raw, `\\u0026`, "&")
			raw = strings.ReplaceAll(raw, `\\`, `\`)
		}
		raw = strings.ReplaceAll(raw, "&amp;", "&")

		var tracks []captionTrack
		if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
			continue
		}
		if len(tracks) > 0 {
			return tracks
		}
	}
	return nil
}

// selectTrack picks the best caption track: manual track in the requested
// language, then auto-generated in the requested language, then manual
// English, then auto English, then any manual track, then any track.
func selectTrack(tracks []captionTrack, requestedLang string) *captionTrack {
	if len(tracks) == 0 {
		return nil
	}

	matchers := []func(t captionTrack) bool{
		func(t captionTrack) bool { return t.Kind != "asr" && langMatches(t.LanguageCode, requestedLang) },
		func(t captionTrack) bool { return t.Kind == "asr" && langMatches(t.LanguageCode, requestedLang) },
		func(t captionTrack) bool { return t.Kind != "asr" && langMatches(t.LanguageCode, "en") },
		func(t captionTrack) bool { return t.Kind == "asr" && langMatches(t.LanguageCode, "en") },
		func(t captionTrack) bool { return t.Kind != "asr" },
		func(t captionTrack) bool { return true },
	}

	for _, matches := range matchers {
		for i := range tracks {
			if matches(tracks[i]) {
				return &tracks[i]
			}
		}
	}
	return nil
}

// langMatches treats regional variants ("en-US") as matching their base
// language ("en").
func langMatches(trackLang, wanted string) bool {
	if wanted == "" {
		return true
	}
	return trackLang == wanted || strings.HasPrefix(trackLang, wanted+"-")
}

// WatchPageStrategy scrapes the canonical watch page for the embedded
// caption-track manifest, then downloads and parses the best track.
type WatchPageStrategy struct {
	baseURL string
	browser *httpclient.HTTPClient
	api     *httpclient.HTTPClient
}

// NewWatchPageStrategy creates the watch-page scraping strategy.
func NewWatchPageStrategy(timeout time.Duration) *WatchPageStrategy {
	return &WatchPageStrategy{
		baseURL: "https://www.youtube.com",
		browser: httpclient.NewClient(httpclient.BrowserClient, timeout),
		api:     httpclient.NewClient(httpclient.APIClient, timeout),
	}
}

// SetBaseURL overrides the page host. Used by tests.
func (s *WatchPageStrategy) SetBaseURL(baseURL string) {
	s.baseURL = baseURL
}

func (s *WatchPageStrategy) Name() string { return "watch-page" }

func (s *WatchPageStrategy) Extract(ctx context.Context, videoID string, opts domain.ExtractOptions) (*domain.TranscriptResult, error) {
	pageURL := fmt.Sprintf("%s/watch?v=%s", s.baseURL, videoID)
	return scrapePage(ctx, s.Name(), pageURL, videoID, opts, s.browser, s.api)
}

// scrapePage is the shared watch/embed scraping flow: fetch HTML, locate
// the manifest, select a track, download and parse it.
func scrapePage(ctx context.Context, name, pageURL, videoID string, opts domain.ExtractOptions, browser, api *httpclient.HTTPClient) (*domain.TranscriptResult, error) {
	body, _, err := browser.FetchBytes(ctx, pageURL, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	html := string(body)

	tracks := extractCaptionTracks(html)
	if len(tracks) == 0 {
		log.Printf("%s: no caption manifest for %s", name, videoID)
		return nil, nil
	}

	track := selectTrack(tracks, opts.Language)
	if track == nil || track.BaseURL == "" {
		return nil, nil
	}

	trackBody, _, err := api.FetchBytes(ctx, track.BaseURL, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch caption track: %w", err)
	}

	segments := captions.Parse(string(trackBody))
	if len(segments) == 0 {
		return nil, nil
	}

	quality := "high"
	if track.Kind == "asr" {
		quality = "medium"
	}

	result := &domain.TranscriptResult{
		Segments: segments,
		Language: track.LanguageCode,
		Quality:  quality,
	}
	if pageMeta := metadata.ParsePage(html); pageMeta != nil {
		result.Title = pageMeta.Title
		result.Author = pageMeta.Author
	}

	log.Printf("%s: got %d segments for %s (lang=%s, kind=%s)",
		name, len(segments), videoID, track.LanguageCode, track.Kind)
	return result, nil
}
