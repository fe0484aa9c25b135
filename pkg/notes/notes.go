// Package notes persists extracted transcripts as note documents.
// Two backends are supported: MongoDB and Supabase Postgres; callers
// program against the Saver interface and pick a backend at wiring time.
package notes

import (
	"context"

	"yt-transcripts/pkg/domain"
)

// Saver persists note content for a video.
type Saver interface {
	// SaveNote inserts or updates the note for the note's video ID.
	SaveNote(ctx context.Context, note *domain.VideoNote) error
}

// Lister reports which videos already have saved notes, so batch runs
// can skip work that is already done.
type Lister interface {
	// ListVideoIDs returns the set of video IDs with existing notes.
	ListVideoIDs(ctx context.Context) (map[string]bool, error)
}
