package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"yt-transcripts/pkg/domain"
	"yt-transcripts/pkg/httpclient"
)

// maxAudioBytes is the download ceiling for audio tracks; the downstream
// transcription service rejects larger uploads.
const maxAudioBytes = 25 << 20

var (
	errNoAudioStream = errors.New("no audio-only stream in player manifest")
	errAudioTooLarge = errors.New("audio stream exceeds upload size limit")
)

// AudioTranscriptionStrategy is the last-resort method: resolve an
// audio-only stream from the player manifest, download it, and submit it
// to an external speech-to-text service. Slow and costly, so it always
// runs last.
type AudioTranscriptionStrategy struct {
	playerBaseURL string
	transcribeURL string
	apiKey        string
	client        *httpclient.HTTPClient
	uploadClient  *http.Client
}

// NewAudioTranscriptionStrategy creates the audio transcription strategy.
// transcribeURL points at a Whisper-style multipart transcription
// endpoint; apiKey authenticates against it.
func NewAudioTranscriptionStrategy(transcribeURL, apiKey string, timeout time.Duration) *AudioTranscriptionStrategy {
	return &AudioTranscriptionStrategy{
		playerBaseURL: "https://www.youtube.com",
		transcribeURL: transcribeURL,
		apiKey:        apiKey,
		client:        httpclient.NewClient(httpclient.APIClient, timeout),
		// Uploads of 25MB audio plus transcription time need a much
		// longer ceiling than page fetches.
		uploadClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// SetPlayerBaseURL overrides the player endpoint host. Used by tests.
func (s *AudioTranscriptionStrategy) SetPlayerBaseURL(baseURL string) {
	s.playerBaseURL = baseURL
}

func (s *AudioTranscriptionStrategy) Name() string { return "audio-transcription" }

func (s *AudioTranscriptionStrategy) Extract(ctx context.Context, videoID string, opts domain.ExtractOptions) (*domain.TranscriptResult, error) {
	audioURL, err := s.resolveAudioURL(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if audioURL == "" {
		return nil, nil
	}

	audio, err := s.downloadAudio(ctx, audioURL)
	if err != nil {
		return nil, err
	}

	result, err := s.transcribe(ctx, videoID, audio, opts.Language)
	if err != nil {
		return nil, err
	}

	log.Printf("AudioTranscription: transcribed %s (%d bytes of audio)", videoID, len(audio))
	return result, nil
}

// playerRequest is the innertube player call body. The ANDROID client
// context yields direct (non-cipher) stream URLs.
type playerRequest struct {
	VideoID string `json:"videoId"`
	Context struct {
		Client struct {
			ClientName    string `json:"clientName"`
			ClientVersion string `json:"clientVersion"`
		} `json:"client"`
	} `json:"context"`
}

type playerResponse struct {
	StreamingData struct {
		AdaptiveFormats []struct {
			MimeType      string `json:"mimeType"`
			URL           string `json:"url"`
			ContentLength string `json:"contentLength"`
			Bitrate       int64  `json:"bitrate"`
		} `json:"adaptiveFormats"`
	} `json:"streamingData"`
}

// resolveAudioURL asks the player endpoint for the lowest-bitrate
// audio-only stream URL.
func (s *AudioTranscriptionStrategy) resolveAudioURL(ctx context.Context, videoID string) (string, error) {
	var reqBody playerRequest
	reqBody.VideoID = videoID
	reqBody.Context.Client.ClientName = "ANDROID"
	reqBody.Context.Client.ClientVersion = "19.09.37"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := s.playerBaseURL + "/youtubei/v1/player"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("player request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &httpclient.StatusError{Code: resp.StatusCode, URL: url}
	}

	var decoded playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode player response: %w", err)
	}

	best := ""
	var bestBitrate int64
	for _, format := range decoded.StreamingData.AdaptiveFormats {
		if !strings.HasPrefix(format.MimeType, "audio/") || format.URL == "" {
			continue
		}
		// Prefer the smallest audio stream that fits the upload limit.
		if length, err := parseContentLength(format.ContentLength); err == nil && length > maxAudioBytes {
			continue
		}
		if best == "" || format.Bitrate < bestBitrate {
			best = format.URL
			bestBitrate = format.Bitrate
		}
	}

	if best == "" {
		return "", errNoAudioStream
	}
	return best, nil
}

func parseContentLength(value string) (int64, error) {
	var length int64
	_, err := fmt.Sscanf(value, "%d", &length)
	return length, err
}

// downloadAudio fetches the audio stream, enforcing the size ceiling.
func (s *AudioTranscriptionStrategy) downloadAudio(ctx context.Context, audioURL string) ([]byte, error) {
	body, _, err := s.client.FetchBytes(ctx, audioURL, maxAudioBytes+1)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}
	if len(body) > maxAudioBytes {
		return nil, errAudioTooLarge
	}
	return body, nil
}

// verboseTranscription is the Whisper-style verbose_json response shape.
type verboseTranscription struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// transcribe submits the audio as a multipart upload and converts the
// verbose response into the common segment shape.
func (s *AudioTranscriptionStrategy) transcribe(ctx context.Context, videoID string, audio []byte, language string) (*domain.TranscriptResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", videoID+".m4a")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}
	writer.WriteField("model", "whisper-1")
	writer.WriteField("response_format", "verbose_json")
	if language != "" {
		writer.WriteField("language", language)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.transcribeURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.uploadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("transcription service returned %d: %s", resp.StatusCode, detail)
	}

	var decoded verboseTranscription
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode transcription: %w", err)
	}

	segments := make([]domain.TranscriptSegment, 0, len(decoded.Segments))
	for _, segment := range decoded.Segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		segments = append(segments, domain.TranscriptSegment{
			Start:    segment.Start,
			Duration: segment.End - segment.Start,
			Text:     text,
		})
	}

	if len(segments) == 0 && strings.TrimSpace(decoded.Text) == "" {
		return nil, nil
	}

	return &domain.TranscriptResult{
		Segments:   segments,
		Transcript: strings.TrimSpace(decoded.Text),
		Language:   decoded.Language,
		Duration:   decoded.Duration,
		Quality:    "medium",
	}, nil
}
