// Package strategy implements the independent caption-retrieval methods
// the orchestrator chains together. Every strategy is best-effort: it
// returns (nil, nil) when the source has nothing usable, and an error
// only as a diagnostic. The caller records it and moves on; no strategy
// failure ever aborts the chain.
package strategy

import (
	"context"

	"yt-transcripts/pkg/domain"
)

// Strategy is one self-contained method for retrieving transcript content
// from an external source.
type Strategy interface {
	// Name identifies the strategy in logs and response metadata.
	Name() string

	// Extract attempts to retrieve a transcript for the video.
	// (nil, nil) means "nothing usable here"; errors are soft failures.
	Extract(ctx context.Context, videoID string, opts domain.ExtractOptions) (*domain.TranscriptResult, error)
}

// preferredLanguages returns the ordered language codes a strategy should
// try: the requested language first, then English variants, then "any".
// The empty string means "no language constraint".
func preferredLanguages(requested string) []string {
	langs := []string{}
	seen := map[string]bool{}
	for _, lang := range []string{requested, "en", "en-US", ""} {
		if seen[lang] {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}
	return langs
}
