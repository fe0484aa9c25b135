package domain

import "time"

// TranscriptSegment is one timed unit of transcript text.
type TranscriptSegment struct {
	// Start is the offset from the beginning of the video, in seconds.
	Start float64 `json:"start"`

	// Duration is how long the segment is on screen, in seconds.
	// Sources that omit it get a 3-second default during parsing.
	Duration float64 `json:"duration"`

	// Text is decoded, trimmed spoken-word text. Never empty after parsing;
	// it may contain bracketed non-speech markers such as "[Music]".
	Text string `json:"text"`
}

// End returns the end offset of the segment in seconds.
func (s TranscriptSegment) End() float64 {
	return s.Start + s.Duration
}

// ExtractOptions are the caller-facing knobs for a single extraction request.
type ExtractOptions struct {
	// Language is the preferred caption language code (default "en").
	Language string

	// IncludeTimestamps prefixes each segment with a [start - end] range
	// in the flattened transcript.
	IncludeTimestamps bool

	// Format selects the transcript rendering: "text", "json" or "srt".
	Format string
}

// TranscriptResult is what a single extraction strategy hands back on success.
type TranscriptResult struct {
	// Segments are the timed segments, ordered by start ascending.
	// May be empty for sources that only produce flat text.
	Segments []TranscriptSegment

	// Transcript is pre-flattened text for sources without timing
	// information. When Segments is non-empty this is ignored.
	Transcript string

	Title    string
	Author   string
	Language string

	// Duration is the known video duration in seconds, for sources that
	// report it directly. When zero, the duration is computed from the
	// last segment's end time.
	Duration float64

	// Quality is a coarse grade of the source: "high" for manual captions,
	// "medium" for auto-generated or aggregated ones, "basic" otherwise.
	Quality string
}

// Metadata describes the extraction outcome alongside the transcript.
type Metadata struct {
	VideoID          string  `json:"videoId"`
	Title            string  `json:"title,omitempty"`
	Author           string  `json:"author,omitempty"`
	Language         string  `json:"language,omitempty"`
	Duration         float64 `json:"duration"`
	SegmentCount     int     `json:"segmentCount"`
	ExtractionMethod string  `json:"extractionMethod"`
	Quality          string  `json:"quality,omitempty"`
}

// VideoNote is a transcript persisted as note content.
//
// This is intentionally separate from the wire-level response shape so
// storage backends can evolve independently of the HTTP contract.
type VideoNote struct {
	// VideoID is the canonical 11-character video identifier.
	VideoID string `bson:"video_id" json:"video_id"`

	// Title is the video title, when available.
	Title string `bson:"title,omitempty" json:"title,omitempty"`

	// Author is the channel name, when available.
	Author string `bson:"author,omitempty" json:"author,omitempty"`

	// Transcript is the flattened transcript text, or the structured
	// fallback document when no caption content was recovered.
	Transcript string `bson:"transcript" json:"transcript"`

	// ExtractionMethod names the strategy that produced the transcript
	// (or "structured-fallback").
	ExtractionMethod string `bson:"extraction_method" json:"extraction_method"`

	// CreatedAt is when the note content was produced.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
