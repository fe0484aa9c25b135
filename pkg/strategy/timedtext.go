package strategy

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"yt-transcripts/pkg/captions"
	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/httpclient"
)

// TimedTextStrategy queries the official timedtext caption endpoint
// directly. It is the cheapest method: a handful of small GET requests,
// no HTML parsing. Works only for videos with public caption tracks.
type TimedTextStrategy struct {
	baseURL string
	client  *httpclient.HTTPClient

	// rateLimitBackoff is the pause after a 429 before the next attempt
	// template is tried. Retries stay internal to this strategy.
	rateLimitBackoff time.Duration
}

// NewTimedTextStrategy creates the timedtext strategy with the given
// per-request timeout.
func NewTimedTextStrategy(timeout time.Duration) *TimedTextStrategy {
	return &TimedTextStrategy{
		baseURL:          "https://www.youtube.com/api/timedtext",
		client:           httpclient.NewClient(httpclient.APIClient, timeout),
		rateLimitBackoff: time.Second,
	}
}

// SetBaseURL overrides the timedtext endpoint. Used by tests.
func (s *TimedTextStrategy) SetBaseURL(baseURL string) {
	s.baseURL = baseURL
}

func (s *TimedTextStrategy) Name() string { return "timedtext-api" }

// attemptTemplate is one URL permutation to try against the endpoint.
type attemptTemplate struct {
	lang   string
	format string // "vtt", "json3" or "" for the default XML payload
}

// attemptTemplates builds the ordered permutations: each candidate
// language crossed with the formats we can parse, requested language
// first. The final candidate omits the language parameter entirely, so
// a video whose only track is in some other language still resolves.
// The list replaces the duplicated inline URL variants the endpoint
// historically required.
func attemptTemplates(requested string) []attemptTemplate {
	var templates []attemptTemplate
	for _, lang := range preferredLanguages(requested) {
		for _, format := range []string{"vtt", "json3", ""} {
			templates = append(templates, attemptTemplate{lang: lang, format: format})
		}
	}
	return templates
}

// Extract tries each attempt template in order and returns the first
// response that parses into usable segments.
func (s *TimedTextStrategy) Extract(ctx context.Context, videoID string, opts domain.ExtractOptions) (*domain.TranscriptResult, error) {
	for _, template := range attemptTemplates(opts.Language) {
		body, _, err := s.client.FetchBytes(ctx, s.attemptURL(videoID, template), 0)
		if err != nil {
			if httpclient.IsRateLimited(err) {
				log.Printf("TimedText: rate limited for %s, backing off %s", videoID, s.rateLimitBackoff)
				select {
				case <-time.After(s.rateLimitBackoff):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			continue
		}

		// Only accept recognizable caption markup; the endpoint answers
		// 200 with an empty or junk body for missing tracks.
		content := string(body)
		if captions.DetectFormat(content) == captions.FormatPlainText {
			continue
		}

		segments := captions.Parse(content)
		if len(segments) == 0 {
			continue
		}

		log.Printf("TimedText: got %d segments for %s (lang=%s, fmt=%s)",
			len(segments), videoID, template.lang, template.format)
		return &domain.TranscriptResult{
			Segments: segments,
			Language: template.lang,
			Quality:  "high",
		}, nil
	}

	return nil, nil
}

func (s *TimedTextStrategy) attemptURL(videoID string, template attemptTemplate) string {
	query := url.Values{}
	query.Set("v", videoID)
	if template.lang != "" {
		query.Set("lang", template.lang)
	}
	if template.format != "" {
		query.Set("fmt", template.format)
	}
	return fmt.Sprintf("%s?%s", s.baseURL, query.Encode())
}
