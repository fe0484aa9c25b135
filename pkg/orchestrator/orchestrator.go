// Package orchestrator chains the extraction strategies in a fixed
// priority order: cheapest and most reliable first, audio transcription
// last. The first strategy returning enough transcript content wins; if
// every strategy comes up empty, a structured fallback note is
// synthesized so the caller always gets usable note content.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/metadata"
	"yt-transcripts/pkg/strategy"
)

// minTranscriptChars guards against strategies that "succeed" with
// garbage: anything shorter is treated as no result.
const minTranscriptChars = 50

// FallbackMethod is the extraction method reported when no strategy
// produced transcript content.
const FallbackMethod = "structured-fallback"

// MetadataFetcher recovers best-effort video metadata for the fallback
// document and for enriching successful results that lack title/author.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) (*metadata.VideoMetadata, error)
}

// Config carries the process-wide extraction settings. Strategies whose
// credentials are missing are skipped entirely rather than constructed
// in a broken state.
type Config struct {
	// HTTPTimeout bounds each individual network call inside a strategy.
	HTTPTimeout time.Duration

	// StrategyTimeout bounds one full strategy attempt (all of its
	// internal requests together).
	StrategyTimeout time.Duration

	// ThirdPartyEndpoints are URL templates (with a %s slot for the video
	// ID) of transcript aggregation services. Empty disables the strategy.
	ThirdPartyEndpoints []string
	ThirdPartyAPIKey    string

	// DataAPIKey enables the official Data API strategy.
	DataAPIKey string

	// TranscribeURL and TranscribeAPIKey enable the audio transcription
	// strategy. Both are required.
	TranscribeURL    string
	TranscribeAPIKey string
}

// Outcome is the orchestrator's answer for one extraction request.
type Outcome struct {
	// Result holds the winning strategy's transcript, or the synthesized
	// fallback content when Fallback is true.
	Result *domain.TranscriptResult

	// Method is the name of the strategy that produced the result, or
	// FallbackMethod.
	Method string

	// Fallback reports whether the transcript is the structured scaffold
	// rather than recovered caption text.
	Fallback bool

	// FailureReasons records, per attempted strategy, why it produced
	// nothing. Populated even on success for the strategies tried before
	// the winner.
	FailureReasons []string
}

// Orchestrator runs the strategy chain. It is stateless across requests;
// the strategy list is fixed at construction.
type Orchestrator struct {
	strategies      []strategy.Strategy
	meta            MetadataFetcher
	strategyTimeout time.Duration
}

// New builds the orchestrator with the standard strategy order:
// timedtext, watch page, embed page, third-party services, Data API,
// audio transcription.
func New(cfg Config) *Orchestrator {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}
	if cfg.StrategyTimeout <= 0 {
		cfg.StrategyTimeout = 45 * time.Second
	}

	strategies := []strategy.Strategy{
		strategy.NewTimedTextStrategy(cfg.HTTPTimeout),
		strategy.NewWatchPageStrategy(cfg.HTTPTimeout),
		strategy.NewEmbedPageStrategy(cfg.HTTPTimeout),
	}
	if len(cfg.ThirdPartyEndpoints) > 0 {
		strategies = append(strategies, strategy.NewThirdPartyStrategy(cfg.ThirdPartyEndpoints, cfg.ThirdPartyAPIKey, cfg.HTTPTimeout))
	}
	if cfg.DataAPIKey != "" {
		strategies = append(strategies, strategy.NewDataAPIStrategy(cfg.DataAPIKey))
	}
	if cfg.TranscribeURL != "" && cfg.TranscribeAPIKey != "" {
		strategies = append(strategies, strategy.NewAudioTranscriptionStrategy(cfg.TranscribeURL, cfg.TranscribeAPIKey, cfg.HTTPTimeout))
	}

	log.Printf("Orchestrator: configured %d strategies", len(strategies))
	return &Orchestrator{
		strategies:      strategies,
		meta:            metadata.NewClient(cfg.HTTPTimeout),
		strategyTimeout: cfg.StrategyTimeout,
	}
}

// NewWithStrategies builds an orchestrator over an explicit strategy
// list and metadata fetcher. Used by tests and custom wiring.
func NewWithStrategies(strategies []strategy.Strategy, meta MetadataFetcher, strategyTimeout time.Duration) *Orchestrator {
	if strategyTimeout <= 0 {
		strategyTimeout = 45 * time.Second
	}
	return &Orchestrator{
		strategies:      strategies,
		meta:            meta,
		strategyTimeout: strategyTimeout,
	}
}

// Extract runs the chain for one video. It only returns an error when
// the caller's context is cancelled; every strategy failure is absorbed
// into the outcome's failure reasons.
func (o *Orchestrator) Extract(ctx context.Context, videoID string, opts domain.ExtractOptions) (*Outcome, error) {
	outcome := &Outcome{}

	for _, s := range o.strategies {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		log.Printf("Orchestrator: trying %s for %s", s.Name(), videoID)
		result, err := o.runStrategy(ctx, s, videoID, opts)

		switch {
		case err != nil:
			log.Printf("Orchestrator: %s failed for %s: %v", s.Name(), videoID, err)
			outcome.FailureReasons = append(outcome.FailureReasons, fmt.Sprintf("%s: %v", s.Name(), err))
		case result == nil:
			log.Printf("Orchestrator: %s had nothing for %s", s.Name(), videoID)
			outcome.FailureReasons = append(outcome.FailureReasons, fmt.Sprintf("%s: no transcript available", s.Name()))
		case transcriptLength(result) < minTranscriptChars:
			log.Printf("Orchestrator: %s returned too little content for %s (%d chars)",
				s.Name(), videoID, transcriptLength(result))
			outcome.FailureReasons = append(outcome.FailureReasons,
				fmt.Sprintf("%s: content below minimum length", s.Name()))
		default:
			log.Printf("Orchestrator: %s succeeded for %s (%d segments)", s.Name(), videoID, len(result.Segments))
			o.enrichMetadata(ctx, videoID, result)
			outcome.Result = result
			outcome.Method = s.Name()
			return outcome, nil
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	log.Printf("Orchestrator: all strategies exhausted for %s, synthesizing fallback", videoID)
	outcome.Result = o.buildFallbackResult(ctx, videoID, outcome.FailureReasons)
	outcome.Method = FallbackMethod
	outcome.Fallback = true
	return outcome, nil
}

// runStrategy invokes one strategy under its own timeout so a stalled
// external endpoint cannot hold the whole chain.
func (o *Orchestrator) runStrategy(ctx context.Context, s strategy.Strategy, videoID string, opts domain.ExtractOptions) (*domain.TranscriptResult, error) {
	strategyCtx, cancel := context.WithTimeout(ctx, o.strategyTimeout)
	defer cancel()
	return s.Extract(strategyCtx, videoID, opts)
}

// enrichMetadata fills in title/author on a winning result that lacks
// them. Failures here never affect the extraction outcome.
func (o *Orchestrator) enrichMetadata(ctx context.Context, videoID string, result *domain.TranscriptResult) {
	if o.meta == nil || (result.Title != "" && result.Author != "") {
		return
	}

	meta, err := o.meta.Fetch(ctx, videoID)
	if err != nil {
		return
	}
	if result.Title == "" {
		result.Title = meta.Title
	}
	if result.Author == "" {
		result.Author = meta.Author
	}
}

// transcriptLength measures the usable content of a result: the summed
// segment text when segments exist, the flat transcript otherwise.
func transcriptLength(result *domain.TranscriptResult) int {
	if len(result.Segments) == 0 {
		return len(strings.TrimSpace(result.Transcript))
	}
	total := 0
	for _, segment := range result.Segments {
		total += len(segment.Text)
	}
	return total
}
