package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"yt-transcripts/pkg/captions"
	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/httpclient"
)

// ThirdPartyStrategy calls external transcript aggregation services as
// best-effort alternates. Response shapes vary wildly between services
// (and between versions of the same service), so decoding is tolerant:
// a segment array, a {transcript} wrapper and a {text} wrapper are all
// accepted.
type ThirdPartyStrategy struct {
	endpoints []string // URL templates with a %s slot for the video ID
	apiKey    string
	client    *httpclient.HTTPClient
}

// NewThirdPartyStrategy creates the third-party strategy over the given
// endpoint templates. An empty template list disables the strategy.
func NewThirdPartyStrategy(endpoints []string, apiKey string, timeout time.Duration) *ThirdPartyStrategy {
	return &ThirdPartyStrategy{
		endpoints: endpoints,
		apiKey:    apiKey,
		client:    httpclient.NewClient(httpclient.APIClient, timeout),
	}
}

func (s *ThirdPartyStrategy) Name() string { return "third-party-api" }

func (s *ThirdPartyStrategy) Extract(ctx context.Context, videoID string, opts domain.ExtractOptions) (*domain.TranscriptResult, error) {
	for _, endpoint := range s.endpoints {
		url := fmt.Sprintf(endpoint, videoID)
		if s.apiKey != "" {
			separator := "?"
			if strings.Contains(url, "?") {
				separator = "&"
			}
			url += separator + "api_key=" + s.apiKey
		}

		body, _, err := s.client.FetchBytes(ctx, url, 0)
		if err != nil {
			log.Printf("ThirdParty: %s failed for %s: %v", endpoint, videoID, err)
			continue
		}

		result := decodeThirdPartyResponse(body, opts.Language)
		if result == nil {
			continue
		}

		log.Printf("ThirdParty: got transcript for %s from %s", videoID, endpoint)
		return result, nil
	}

	return nil, nil
}

// thirdPartySegment is the common segment shape aggregation services use.
type thirdPartySegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// decodeThirdPartyResponse tries the known response shapes in order.
// Returns nil when nothing usable decodes.
func decodeThirdPartyResponse(body []byte, language string) *domain.TranscriptResult {
	// Shape 1: bare array of segments.
	var rawSegments []thirdPartySegment
	if err := json.Unmarshal(body, &rawSegments); err == nil && len(rawSegments) > 0 {
		if segments := convertThirdPartySegments(rawSegments); len(segments) > 0 {
			return &domain.TranscriptResult{Segments: segments, Language: language, Quality: "medium"}
		}
	}

	// Shape 2: object wrapper, possibly with a nested segment array.
	var wrapper struct {
		Transcript json.RawMessage `json:"transcript"`
		Text       string          `json:"text"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil
	}

	if len(wrapper.Transcript) > 0 {
		if err := json.Unmarshal(wrapper.Transcript, &rawSegments); err == nil {
			if segments := convertThirdPartySegments(rawSegments); len(segments) > 0 {
				return &domain.TranscriptResult{Segments: segments, Language: language, Quality: "medium"}
			}
		}
		var transcript string
		if err := json.Unmarshal(wrapper.Transcript, &transcript); err == nil && strings.TrimSpace(transcript) != "" {
			return &domain.TranscriptResult{
				Transcript: captions.NormalizeText(transcript),
				Language:   language,
				Quality:    "medium",
			}
		}
	}

	if strings.TrimSpace(wrapper.Text) != "" {
		return &domain.TranscriptResult{
			Transcript: captions.NormalizeText(wrapper.Text),
			Language:   language,
			Quality:    "medium",
		}
	}

	return nil
}

func convertThirdPartySegments(raw []thirdPartySegment) []domain.TranscriptSegment {
	segments := make([]domain.TranscriptSegment, 0, len(raw))
	for _, segment := range raw {
		text := captions.NormalizeText(segment.Text)
		if text == "" {
			continue
		}
		duration := segment.Duration
		if duration <= 0 {
			duration = 3
		}
		segments = append(segments, domain.TranscriptSegment{
			Start:    segment.Start,
			Duration: duration,
			Text:     text,
		})
	}
	return segments
}
