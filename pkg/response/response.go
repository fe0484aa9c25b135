// Package response converts extraction outcomes into the canonical
// wire-level response shape. It is the only package that knows what the
// caller sees; everything upstream deals in segments and results.
package response

import (
	"encoding/json"
	"fmt"
	"strings"

	"yt-transcripts/pkg/captions"
	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/orchestrator"
)

// TranscriptResponse is the wire shape returned to callers. It is built
// fresh per request and never mutated after construction.
type TranscriptResponse struct {
	Success    bool                       `json:"success"`
	Transcript string                     `json:"transcript,omitempty"`
	Segments   []domain.TranscriptSegment `json:"segments,omitempty"`
	Metadata   *domain.Metadata           `json:"metadata,omitempty"`
	Error      string                     `json:"error,omitempty"`
}

// Build wraps an extraction outcome into the response shape, rendering
// the transcript per the requested format and computing the derived
// metadata fields.
func Build(videoID string, outcome *orchestrator.Outcome, opts domain.ExtractOptions) *TranscriptResponse {
	result := outcome.Result

	duration := result.Duration
	if duration == 0 {
		duration = captions.TotalDuration(result.Segments)
	}

	resp := &TranscriptResponse{
		Success:    true,
		Transcript: renderTranscript(result, opts),
		Metadata: &domain.Metadata{
			VideoID:          videoID,
			Title:            result.Title,
			Author:           result.Author,
			Language:         result.Language,
			Duration:         duration,
			SegmentCount:     len(result.Segments),
			ExtractionMethod: outcome.Method,
			Quality:          result.Quality,
		},
	}

	if opts.Format == "json" {
		resp.Segments = result.Segments
	}
	return resp
}

// InputError reports a client input problem (unresolvable video
// reference, bad options). These never enter the strategy chain. The
// transcript field carries explanatory text so the caller's note flow
// still has content to show.
func InputError(message string) *TranscriptResponse {
	return &TranscriptResponse{
		Success:    false,
		Transcript: "No transcript could be produced: " + message + ". Provide a video URL or an 11-character video ID.",
		Error:      message,
	}
}

// InternalError reports an unexpected server fault with a generic
// message; the detail stays in the server logs.
func InternalError() *TranscriptResponse {
	return &TranscriptResponse{Success: false, Error: "internal error"}
}

// renderTranscript produces the transcript text for the response:
// SRT when requested, timestamped lines when asked for, flat prose
// otherwise. Results without segments pass their text through as-is.
func renderTranscript(result *domain.TranscriptResult, opts domain.ExtractOptions) string {
	if len(result.Segments) == 0 {
		return result.Transcript
	}

	switch opts.Format {
	case "srt":
		return RenderSRT(result.Segments)
	default:
		if opts.IncludeTimestamps {
			return captions.TimestampedText(result.Segments)
		}
		return captions.FlatText(result.Segments)
	}
}

// RenderSRT renders segments as a SubRip document: 1-based cue index,
// comma-millisecond timing line, text, blank separator.
func RenderSRT(segments []domain.TranscriptSegment) string {
	var b strings.Builder
	for i, segment := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, srtTimestamp(segment.Start), srtTimestamp(segment.End()),
			captions.NormalizeText(segment.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}

func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(seconds*1000 + 0.5)
	h := millis / 3600000
	m := (millis % 3600000) / 60000
	s := (millis % 60000) / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// Marshal serializes the response as JSON.
func (r *TranscriptResponse) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
