package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/orchestrator"
	"yt-transcripts/pkg/response"
	"yt-transcripts/pkg/videoid"
)

func main() {
	var (
		language   = flag.String("lang", "en", "Preferred caption language")
		timestamps = flag.Bool("timestamps", false, "Prefix each line with its time range")
		format     = flag.String("format", "text", "Output format: text, json or srt")
		timeout    = flag.Duration("timeout", 3*time.Minute, "Overall extraction timeout")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("Usage: transcript [flags] <video URL or ID>")
	}

	id, ok := videoid.Extract(flag.Arg(0))
	if !ok {
		log.Fatalf("Could not extract a video ID from %q", flag.Arg(0))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	o := orchestrator.New(orchestrator.Config{
		DataAPIKey:       os.Getenv("YOUTUBE_DATA_API_KEY"),
		TranscribeURL:    os.Getenv("TRANSCRIBE_URL"),
		TranscribeAPIKey: os.Getenv("TRANSCRIBE_API_KEY"),
	})

	opts := domain.ExtractOptions{
		Language:          *language,
		IncludeTimestamps: *timestamps,
		Format:            *format,
	}

	outcome, err := o.Extract(ctx, id, opts)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	resp := response.Build(id, outcome, opts)

	if *format == "json" {
		payload, err := resp.Marshal()
		if err != nil {
			log.Fatalf("Failed to encode response: %v", err)
		}
		fmt.Println(string(payload))
		return
	}

	fmt.Println(resp.Transcript)
	log.Printf("Extracted via %s (%d segments)", resp.Metadata.ExtractionMethod, resp.Metadata.SegmentCount)
}
