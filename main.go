package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"yt-transcripts/pkg/notes"
	"yt-transcripts/pkg/orchestrator"
	"yt-transcripts/pkg/server"
)

func main() {
	var (
		addr            = flag.String("addr", ":8080", "HTTP listen address")
		httpTimeout     = flag.Duration("http-timeout", 15*time.Second, "Timeout for each outbound network call")
		strategyTimeout = flag.Duration("strategy-timeout", 45*time.Second, "Timeout for one full strategy attempt")

		store      = flag.String("store", "", "Note persistence backend: mongo or supabase (empty disables saving)")
		mongoURI   = flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection string")
		dbName     = flag.String("db", "ytnotes", "MongoDB database name")
		collection = flag.String("collection", "video_notes", "MongoDB collection for saved notes")
	)
	flag.Parse()

	cfg := orchestrator.Config{
		HTTPTimeout:         *httpTimeout,
		StrategyTimeout:     *strategyTimeout,
		ThirdPartyEndpoints: splitList(os.Getenv("THIRD_PARTY_ENDPOINTS")),
		ThirdPartyAPIKey:    os.Getenv("THIRD_PARTY_API_KEY"),
		DataAPIKey:          os.Getenv("YOUTUBE_DATA_API_KEY"),
		TranscribeURL:       os.Getenv("TRANSCRIBE_URL"),
		TranscribeAPIKey:    os.Getenv("TRANSCRIBE_API_KEY"),
	}

	ctx := context.Background()

	var saver notes.Saver
	switch *store {
	case "":
		// Note persistence disabled.
	case "mongo":
		mongoStore := notes.NewMongoStore(*mongoURI, *dbName, *collection)
		if err := mongoStore.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to note store: %v", err)
		}
		defer mongoStore.Close(ctx)
		saver = mongoStore
		log.Printf("Main: mongo note persistence enabled (%s/%s)", *dbName, *collection)
	case "supabase":
		supabaseStore := notes.NewSupabaseStore(notes.SupabaseConfig{
			ConnectionString: os.Getenv("SUPABASE_CONNECTION_STRING"),
			SupabaseURL:      os.Getenv("SUPABASE_URL"),
			SupabaseKey:      os.Getenv("SUPABASE_KEY"),
			Password:         os.Getenv("SUPABASE_DB_PASSWORD"),
		})
		if err := supabaseStore.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to note store: %v", err)
		}
		defer supabaseStore.Close()
		saver = supabaseStore
		log.Printf("Main: supabase note persistence enabled")
	default:
		log.Fatalf("Unknown store %q (want mongo or supabase)", *store)
	}

	srv := server.New(orchestrator.New(cfg), saver)

	log.Printf("Main: listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// splitList parses a comma-separated environment value into its
// non-empty entries.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
