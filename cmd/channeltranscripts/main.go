package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"yt-transcripts/pkg/batch"
	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/feed"
	"yt-transcripts/pkg/notes"
	"yt-transcripts/pkg/orchestrator"
)

func main() {
	var (
		channelID = flag.String("channel", "", "Channel ID to extract transcripts for")
		max       = flag.Int("max", 15, "Max videos to process (<=0 means no limit)")
		workers   = flag.Int("workers", 4, "Number of parallel extraction workers")
		language  = flag.String("lang", "en", "Preferred caption language")

		mongoURI   = flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection string")
		dbName     = flag.String("db", "ytnotes", "MongoDB database name")
		collection = flag.String("collection", "video_notes", "MongoDB collection for saved notes")
	)
	flag.Parse()

	if *channelID == "" {
		log.Fatal("Usage: channeltranscripts -channel <channel ID> [flags]")
	}

	ctx := context.Background()

	store := notes.NewMongoStore(*mongoURI, *dbName, *collection)
	if err := store.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to note store: %v", err)
	}
	defer store.Close(ctx)

	o := orchestrator.New(orchestrator.Config{
		DataAPIKey:       os.Getenv("YOUTUBE_DATA_API_KEY"),
		TranscribeURL:    os.Getenv("TRANSCRIBE_URL"),
		TranscribeAPIKey: os.Getenv("TRANSCRIBE_API_KEY"),
	})

	service := batch.New(feed.NewChannelFeed(), o, store, store)
	service.SetWorkers(*workers)

	start := time.Now()
	log.Printf("Extracting transcripts for channel %s (max=%d)", *channelID, *max)
	if err := service.ExtractChannel(ctx, *channelID, *max, domain.ExtractOptions{Language: *language}); err != nil {
		log.Fatalf("Channel extraction failed: %v", err)
	}
	log.Printf("Done. Duration: %s", time.Since(start))
}
