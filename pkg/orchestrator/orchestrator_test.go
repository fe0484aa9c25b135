package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/metadata"
	"yt-transcripts/pkg/strategy"
)

// fakeStrategy is a scripted strategy for chain tests.
type fakeStrategy struct {
	name   string
	result *domain.TranscriptResult
	err    error
	calls  int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Extract(ctx context.Context, videoID string, opts domain.ExtractOptions) (*domain.TranscriptResult, error) {
	f.calls++
	return f.result, f.err
}

// fakeMetadata returns fixed metadata, or an error when meta is nil.
type fakeMetadata struct {
	meta  *metadata.VideoMetadata
	calls int
}

func (f *fakeMetadata) Fetch(ctx context.Context, videoID string) (*metadata.VideoMetadata, error) {
	f.calls++
	if f.meta == nil {
		return nil, metadata.ErrNoMetadata
	}
	return f.meta, nil
}

func longResult(text string) *domain.TranscriptResult {
	return &domain.TranscriptResult{
		Transcript: text + strings.Repeat(" and more words to clear the minimum threshold", 2),
		Title:      "Known Title",
		Author:     "Known Channel",
		Quality:    "high",
	}
}

func TestExtract_StopsAtFirstSuccess(t *testing.T) {
	first := &fakeStrategy{name: "first"}
	second := &fakeStrategy{name: "second", err: errors.New("network down")}
	third := &fakeStrategy{name: "third", result: longResult("The winning transcript.")}
	fourth := &fakeStrategy{name: "fourth", result: longResult("Should never be reached.")}

	o := NewWithStrategies([]strategy.Strategy{first, second, third, fourth}, &fakeMetadata{}, time.Second)

	outcome, err := o.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if outcome.Method != "third" {
		t.Errorf("Method = %q, want third", outcome.Method)
	}
	if outcome.Fallback {
		t.Error("Fallback = true for a successful extraction")
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 1 {
		t.Errorf("Call counts = %d/%d/%d, want 1/1/1", first.calls, second.calls, third.calls)
	}
	if fourth.calls != 0 {
		t.Errorf("Strategy after the winner was invoked %d times", fourth.calls)
	}
	if len(outcome.FailureReasons) != 2 {
		t.Errorf("FailureReasons = %v, want 2 entries", outcome.FailureReasons)
	}
}

func TestExtract_SkipsBelowThresholdResults(t *testing.T) {
	tooShort := &fakeStrategy{name: "short", result: &domain.TranscriptResult{Transcript: "tiny"}}
	winner := &fakeStrategy{name: "winner", result: longResult("Real content here.")}

	o := NewWithStrategies([]strategy.Strategy{tooShort, winner}, nil, time.Second)

	outcome, err := o.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if outcome.Method != "winner" {
		t.Errorf("Method = %q, want winner", outcome.Method)
	}
	if len(outcome.FailureReasons) != 1 || !strings.Contains(outcome.FailureReasons[0], "minimum length") {
		t.Errorf("FailureReasons = %v", outcome.FailureReasons)
	}
}

func TestExtract_AllExhausted_SynthesizesFallback(t *testing.T) {
	strategies := []strategy.Strategy{
		&fakeStrategy{name: "a"},
		&fakeStrategy{name: "b", err: errors.New("blocked")},
		&fakeStrategy{name: "c"},
	}
	meta := &fakeMetadata{meta: &metadata.VideoMetadata{Title: "A Video", Author: "A Channel"}}

	o := NewWithStrategies(strategies, meta, time.Second)

	outcome, err := o.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !outcome.Fallback {
		t.Fatal("Fallback = false after total exhaustion")
	}
	if outcome.Method != FallbackMethod {
		t.Errorf("Method = %q, want %q", outcome.Method, FallbackMethod)
	}
	if outcome.Result == nil || outcome.Result.Transcript == "" {
		t.Fatal("Fallback result has no transcript content")
	}
	if !strings.Contains(outcome.Result.Transcript, "A Video") {
		t.Error("Fallback document missing the fetched title")
	}
	if !strings.Contains(outcome.Result.Transcript, "dQw4w9WgXcQ") {
		t.Error("Fallback document missing the video identification")
	}
	if !strings.Contains(outcome.Result.Transcript, "b: blocked") {
		t.Errorf("Fallback document missing failure reasons:\n%s", outcome.Result.Transcript)
	}
	if outcome.Result.Title != "A Video" || outcome.Result.Author != "A Channel" {
		t.Errorf("Fallback result metadata = %q/%q", outcome.Result.Title, outcome.Result.Author)
	}
}

func TestExtract_FallbackWithoutMetadata(t *testing.T) {
	o := NewWithStrategies([]strategy.Strategy{&fakeStrategy{name: "only"}}, &fakeMetadata{}, time.Second)

	outcome, err := o.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !outcome.Fallback {
		t.Fatal("Expected fallback outcome")
	}
	if !strings.Contains(outcome.Result.Transcript, "Unknown title") {
		t.Error("Fallback document should carry a placeholder title when metadata is unavailable")
	}
	if !strings.Contains(outcome.Result.Transcript, "Key points") {
		t.Error("Fallback document missing the note-taking scaffold")
	}
}

func TestExtract_EnrichesMissingMetadata(t *testing.T) {
	winner := &fakeStrategy{name: "winner", result: &domain.TranscriptResult{
		Transcript: strings.Repeat("spoken words ", 10),
	}}
	meta := &fakeMetadata{meta: &metadata.VideoMetadata{Title: "Filled Title", Author: "Filled Author"}}

	o := NewWithStrategies([]strategy.Strategy{winner}, meta, time.Second)

	outcome, err := o.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if outcome.Result.Title != "Filled Title" || outcome.Result.Author != "Filled Author" {
		t.Errorf("Enriched metadata = %q/%q", outcome.Result.Title, outcome.Result.Author)
	}
	if meta.calls != 1 {
		t.Errorf("Metadata fetches = %d, want 1", meta.calls)
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewWithStrategies([]strategy.Strategy{&fakeStrategy{name: "never"}}, nil, time.Second)

	if _, err := o.Extract(ctx, "dQw4w9WgXcQ", domain.ExtractOptions{}); err == nil {
		t.Fatal("Expected a context error")
	}
}

func TestTranscriptLength(t *testing.T) {
	withSegments := &domain.TranscriptResult{
		Segments: []domain.TranscriptSegment{
			{Text: "Hello"},
			{Text: "world"},
		},
	}
	if got := transcriptLength(withSegments); got != 10 {
		t.Errorf("transcriptLength(segments) = %d, want 10", got)
	}

	flat := &domain.TranscriptResult{Transcript: "  trimmed text  "}
	if got := transcriptLength(flat); got != len("trimmed text") {
		t.Errorf("transcriptLength(flat) = %d", got)
	}
}
