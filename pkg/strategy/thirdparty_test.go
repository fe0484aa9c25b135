package strategy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yt-transcripts/pkg/domain"
)

func TestThirdPartyStrategy_SegmentArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"text":"First part","start":0,"duration":2},{"text":"Second part","start":2,"duration":3}]`))
	}))
	defer server.Close()

	s := NewThirdPartyStrategy([]string{server.URL + "/transcript/%s"}, "", 5*time.Second)

	result, err := s.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{Language: "en"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result == nil {
		t.Fatal("Extract returned no result")
	}
	if len(result.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(result.Segments))
	}
	if result.Segments[1].Text != "Second part" {
		t.Errorf("Second segment = %+v", result.Segments[1])
	}
}

func TestThirdPartyStrategy_TranscriptWrapper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transcript":"The whole transcript as one string."}`))
	}))
	defer server.Close()

	s := NewThirdPartyStrategy([]string{server.URL + "/%s"}, "", 5*time.Second)

	result, err := s.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result == nil {
		t.Fatal("Extract returned no result")
	}
	if result.Transcript != "The whole transcript as one string." {
		t.Errorf("Transcript = %q", result.Transcript)
	}
}

func TestThirdPartyStrategy_TextWrapper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"Plain text payload."}`))
	}))
	defer server.Close()

	s := NewThirdPartyStrategy([]string{server.URL + "/%s"}, "", 5*time.Second)

	result, err := s.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result == nil || result.Transcript != "Plain text payload." {
		t.Fatalf("Result = %+v", result)
	}
}

func TestThirdPartyStrategy_TriesNextEndpoint(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"From the second service."}`))
	}))
	defer good.Close()

	s := NewThirdPartyStrategy([]string{bad.URL + "/%s", good.URL + "/%s"}, "", 5*time.Second)

	result, err := s.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result == nil || result.Transcript != "From the second service." {
		t.Fatalf("Result = %+v", result)
	}
}

func TestThirdPartyStrategy_AllFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unrelated":true}`))
	}))
	defer server.Close()

	s := NewThirdPartyStrategy([]string{server.URL + "/%s"}, "", 5*time.Second)

	result, err := s.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result != nil {
		t.Errorf("Expected no result, got %+v", result)
	}
}

func TestThirdPartyStrategy_APIKeyAppended(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		w.Write([]byte(`{"text":"ok payload text"}`))
	}))
	defer server.Close()

	s := NewThirdPartyStrategy([]string{server.URL + "/transcript?video=%s"}, "secret", 5*time.Second)

	if _, err := s.Extract(context.Background(), "dQw4w9WgXcQ", domain.ExtractOptions{}); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("api_key = %q, want %q", gotKey, "secret")
	}
}
