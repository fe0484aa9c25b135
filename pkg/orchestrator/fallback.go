package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/metadata"
)

// buildFallbackResult makes one last lightweight metadata attempt and
// wraps the scaffold document in a result the formatter can treat like
// any other.
func (o *Orchestrator) buildFallbackResult(ctx context.Context, videoID string, reasons []string) *domain.TranscriptResult {
	var meta *metadata.VideoMetadata
	if o.meta != nil {
		fetched, err := o.meta.Fetch(ctx, videoID)
		if err != nil {
			log.Printf("Orchestrator: fallback metadata fetch failed for %s: %v", videoID, err)
		} else {
			meta = fetched
		}
	}

	result := &domain.TranscriptResult{
		Transcript: FallbackDocument(videoID, meta, reasons),
		Quality:    "basic",
	}
	if meta != nil {
		result.Title = meta.Title
		result.Author = meta.Author
	}
	return result
}

// FallbackDocument renders the structured note scaffold returned when no
// transcript text could be recovered: video identification, the reasons
// extraction failed, and empty sections for manual note-taking.
func FallbackDocument(videoID string, meta *metadata.VideoMetadata, reasons []string) string {
	var b strings.Builder

	title := "Unknown title"
	if meta != nil && meta.Title != "" {
		title = meta.Title
	}
	b.WriteString("# " + title + "\n\n")

	b.WriteString("**Video:** https://www.youtube.com/watch?v=" + videoID + "\n")
	if meta != nil && meta.Author != "" {
		b.WriteString("**Channel:** " + meta.Author + "\n")
	}
	b.WriteString("\n")

	b.WriteString("## Transcript unavailable\n\n")
	b.WriteString("An automatic transcript could not be retrieved for this video. ")
	b.WriteString("Captions may be disabled, restricted by the uploader, or not yet generated.\n")
	if len(reasons) > 0 {
		b.WriteString("\nMethods attempted:\n")
		for _, reason := range reasons {
			b.WriteString(fmt.Sprintf("- %s\n", reason))
		}
	}
	b.WriteString("\n")

	if meta != nil && meta.Description != "" {
		b.WriteString("## Video description\n\n")
		b.WriteString(meta.Description + "\n\n")
	}

	b.WriteString("## Key points\n\n- \n\n")
	b.WriteString("## Timestamps\n\n- 00:00 - \n\n")
	b.WriteString("## Reflections\n\n- \n")

	return b.String()
}
