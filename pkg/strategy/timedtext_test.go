package strategy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yt-transcripts/pkg/domain"
)

func TestTimedTextStrategy_FirstWorkingPermutation(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)

		// Only the plain-XML English variant has content; everything
		// else answers 200 with an empty body, as the endpoint does.
		if r.URL.Query().Get("lang") == "en" && r.URL.Query().Get("fmt") == "" {
			w.Write([]byte(`<transcript><text start="0" dur="4">Timed text content</text></transcript>`))
			return
		}
		w.Write([]byte(""))
	}))
	defer server.Close()

	s := NewTimedTextStrategy(5 * time.Second)
	s.SetBaseURL(server.URL)

	result, err := s.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{Language: "en"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result == nil {
		t.Fatal("Extract returned no result")
	}
	if len(result.Segments) != 1 || result.Segments[0].Text != "Timed text content" {
		t.Errorf("Segments = %+v", result.Segments)
	}
	if result.Language != "en" {
		t.Errorf("Language = %q, want en", result.Language)
	}
	if len(requests) < 3 {
		t.Errorf("Expected the vtt and json3 permutations to be tried first, saw %d requests", len(requests))
	}
}

func TestTimedTextStrategy_NothingUsable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(""))
	}))
	defer server.Close()

	s := NewTimedTextStrategy(5 * time.Second)
	s.SetBaseURL(server.URL)

	result, err := s.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{Language: "en"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result != nil {
		t.Errorf("Expected no result, got %+v", result)
	}
}

func TestTimedTextStrategy_BacksOffOnRateLimit(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("WEBVTT\n\n00:00.000 --> 00:03.000\nAfter the backoff"))
	}))
	defer server.Close()

	s := NewTimedTextStrategy(5 * time.Second)
	s.SetBaseURL(server.URL)
	s.rateLimitBackoff = 10 * time.Millisecond

	result, err := s.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{Language: "en"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result == nil {
		t.Fatal("Expected a result after rate-limit backoff")
	}
	if hits < 2 {
		t.Errorf("Expected a retry after 429, got %d hits", hits)
	}
}

func TestAttemptTemplates_Order(t *testing.T) {
	templates := attemptTemplates("de")

	if templates[0].lang != "de" {
		t.Errorf("First template lang = %q, want the requested language", templates[0].lang)
	}
	if templates[0].format != "vtt" {
		t.Errorf("First template format = %q, want vtt", templates[0].format)
	}

	sawEN := false
	for _, template := range templates {
		if template.lang == "en" {
			sawEN = true
		}
	}
	if !sawEN {
		t.Error("Templates missing the English fallback")
	}

	// The last resort drops the language constraint entirely, so a video
	// with only a non-requested, non-English track can still resolve.
	last := templates[len(templates)-1]
	if last.lang != "" {
		t.Errorf("Last template lang = %q, want an unspecified language", last.lang)
	}
	for i, template := range templates {
		if template.lang == "" && i < len(templates)-3 {
			t.Errorf("Unspecified-language template at position %d, must come last", i)
		}
	}
}

func TestTimedTextStrategy_UnspecifiedLanguageLastResort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only the language-less request finds a track; every explicit
		// language misses.
		if !r.URL.Query().Has("lang") && r.URL.Query().Get("fmt") == "" {
			w.Write([]byte(`<transcript><text start="0" dur="4">Nur auf Deutsch verfügbar</text></transcript>`))
			return
		}
		w.Write([]byte(""))
	}))
	defer server.Close()

	s := NewTimedTextStrategy(5 * time.Second)
	s.SetBaseURL(server.URL)

	result, err := s.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{Language: "fr"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result == nil {
		t.Fatal("Expected the unspecified-language attempt to succeed")
	}
	if len(result.Segments) != 1 || result.Segments[0].Text != "Nur auf Deutsch verfügbar" {
		t.Errorf("Segments = %+v", result.Segments)
	}
}
