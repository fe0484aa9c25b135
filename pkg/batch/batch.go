// Package batch extracts transcripts for a channel's recent videos and
// persists each as a note. Videos that already have notes are skipped.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/feed"
	"yt-transcripts/pkg/notes"
	"yt-transcripts/pkg/orchestrator"
	"yt-transcripts/pkg/response"
)

var (
	ErrEmptyChannelID = errors.New("channel ID is empty")
	ErrNoSaver        = errors.New("note saver is nil")
)

// VideoLister lists a channel's recent videos.
type VideoLister interface {
	RecentVideos(ctx context.Context, channelID string) ([]feed.Entry, error)
}

// Extractor runs the strategy chain for one video.
type Extractor interface {
	Extract(ctx context.Context, videoID string, opts domain.ExtractOptions) (*orchestrator.Outcome, error)
}

// Service extracts transcripts for whole channels and saves them as notes.
type Service struct {
	lister    VideoLister
	extractor Extractor
	saver     notes.Saver
	existing  notes.Lister
	workers   int
}

// New creates a batch extraction service. existing may be nil, in which
// case every listed video is processed.
func New(lister VideoLister, extractor Extractor, saver notes.Saver, existing notes.Lister) *Service {
	return &Service{
		lister:    lister,
		extractor: extractor,
		saver:     saver,
		existing:  existing,
		workers:   4,
	}
}

// SetWorkers sets the number of parallel extraction workers.
// If workers <= 0, it will be coerced to 1.
func (s *Service) SetWorkers(workers int) {
	if workers <= 0 {
		s.workers = 1
		return
	}
	s.workers = workers
}

// ExtractChannel lists the channel's recent videos, skips ones that
// already have notes, and extracts and saves the rest in parallel.
//
// max limits the number of videos processed; max <= 0 means no limit.
func (s *Service) ExtractChannel(ctx context.Context, channelID string, max int, opts domain.ExtractOptions) error {
	if channelID == "" {
		return ErrEmptyChannelID
	}
	if s.saver == nil {
		return ErrNoSaver
	}

	entries, err := s.lister.RecentVideos(ctx, channelID)
	if err != nil {
		return fmt.Errorf("list channel videos: %w", err)
	}

	if max > 0 && len(entries) > max {
		entries = entries[:max]
	}

	// Skip videos that already have notes.
	if s.existing != nil {
		saved, err := s.existing.ListVideoIDs(ctx)
		if err == nil && len(saved) > 0 {
			filtered := make([]feed.Entry, 0, len(entries))
			for _, entry := range entries {
				if !saved[entry.VideoID] {
					filtered = append(filtered, entry)
				}
			}
			entries = filtered
		}
	}

	log.Printf("Batch: extracting %d videos from channel %s", len(entries), channelID)
	return s.processEntriesInParallel(ctx, entries, opts)
}

func (s *Service) processEntriesInParallel(ctx context.Context, entries []feed.Entry, opts domain.ExtractOptions) error {
	if len(entries) == 0 {
		return nil
	}

	workers := s.workers
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan feed.Entry)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func(workerID int) {
			defer wg.Done()
			for entry := range jobs {
				// Best-effort: one failed video never stops the batch.
				if err := s.processEntry(ctx, entry, opts); err != nil {
					log.Printf("Batch worker %d: %s failed: %v", workerID, entry.VideoID, err)
				} else {
					log.Printf("Batch worker %d: saved note for %s", workerID, entry.VideoID)
				}
			}
		}(i)
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- entry:
		}
	}

	close(jobs)
	wg.Wait()
	return nil
}

func (s *Service) processEntry(ctx context.Context, entry feed.Entry, opts domain.ExtractOptions) error {
	outcome, err := s.extractor.Extract(ctx, entry.VideoID, opts)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	resp := response.Build(entry.VideoID, outcome, opts)

	note := &domain.VideoNote{
		VideoID:          entry.VideoID,
		Title:            outcome.Result.Title,
		Author:           outcome.Result.Author,
		Transcript:       resp.Transcript,
		ExtractionMethod: outcome.Method,
		CreatedAt:        time.Now(),
	}
	if note.Title == "" {
		note.Title = entry.Title
	}

	if err := s.saver.SaveNote(ctx, note); err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	return nil
}
