// Package server exposes transcript extraction over HTTP. Input errors
// answer 400; everything the pipeline produces, including the
// structured fallback, answers 200.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/notes"
	"yt-transcripts/pkg/orchestrator"
	"yt-transcripts/pkg/response"
	"yt-transcripts/pkg/videoid"
)

// Extractor runs the strategy chain for one video.
type Extractor interface {
	Extract(ctx context.Context, videoID string, opts domain.ExtractOptions) (*orchestrator.Outcome, error)
}

// Server handles transcript extraction requests. saver may be nil when
// note persistence is not configured.
type Server struct {
	extractor Extractor
	saver     notes.Saver
}

// New creates the HTTP server logic over an extractor and an optional
// note saver.
func New(extractor Extractor, saver notes.Saver) *Server {
	return &Server{extractor: extractor, saver: saver}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/transcript", s.handleTranscript)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// transcriptRequest is the JSON request body. IncludeTimestamps is a
// pointer so an absent field can default to true.
type transcriptRequest struct {
	VideoID string `json:"videoId"`
	URL     string `json:"url"`
	Options struct {
		Language          string `json:"language"`
		IncludeTimestamps *bool  `json:"includeTimestamps"`
		Format            string `json:"format"`
	} `json:"options"`
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest

	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, response.InputError("invalid request body"))
			return
		}
	case http.MethodGet:
		query := r.URL.Query()
		req.VideoID = query.Get("videoId")
		req.URL = query.Get("url")
		req.Options.Language = query.Get("language")
		req.Options.Format = query.Get("format")
		if raw := query.Get("includeTimestamps"); raw != "" {
			value := raw == "true" || raw == "1"
			req.Options.IncludeTimestamps = &value
		}
	default:
		writeJSON(w, http.StatusMethodNotAllowed, response.InputError("method not allowed"))
		return
	}

	input := req.VideoID
	if input == "" {
		input = req.URL
	}
	id, ok := videoid.Extract(input)
	if !ok {
		writeJSON(w, http.StatusBadRequest, response.InputError("could not extract a video ID from input"))
		return
	}

	opts := buildOptions(req)

	outcome, err := s.extractor.Extract(r.Context(), id, opts)
	if err != nil {
		log.Printf("Server: extraction failed for %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, response.InternalError())
		return
	}

	resp := response.Build(id, outcome, opts)
	s.saveNote(r.Context(), id, outcome, resp)
	writeJSON(w, http.StatusOK, resp)
}

func buildOptions(req transcriptRequest) domain.ExtractOptions {
	opts := domain.ExtractOptions{
		Language:          strings.TrimSpace(req.Options.Language),
		IncludeTimestamps: true,
		Format:            strings.TrimSpace(req.Options.Format),
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if req.Options.IncludeTimestamps != nil {
		opts.IncludeTimestamps = *req.Options.IncludeTimestamps
	}
	return opts
}

// saveNote persists the extraction as a note when a saver is wired.
// Failures are logged, never surfaced: the response already succeeded.
func (s *Server) saveNote(ctx context.Context, videoID string, outcome *orchestrator.Outcome, resp *response.TranscriptResponse) {
	if s.saver == nil {
		return
	}

	note := &domain.VideoNote{
		VideoID:          videoID,
		Title:            outcome.Result.Title,
		Author:           outcome.Result.Author,
		Transcript:       resp.Transcript,
		ExtractionMethod: outcome.Method,
		CreatedAt:        time.Now(),
	}
	if err := s.saver.SaveNote(ctx, note); err != nil {
		log.Printf("Server: failed to save note for %s: %v", videoID, err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, status int, payload *response.TranscriptResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Server: failed to encode response: %v", err)
	}
}
