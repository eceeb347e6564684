package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"spurningar/internal/common"
)

type speechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// SpeechService proxies the text-to-speech collaborator: text in, playable
// audio bytes out. Play/stop state lives in the client; the server surface
// is synthesis only.
type SpeechService struct {
	url     string
	voice   string
	timeout time.Duration
	client  *http.Client
}

func NewSpeechService(url, voice string, timeout time.Duration) *SpeechService {
	return &SpeechService{
		url:     url,
		voice:   voice,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Synthesize returns the audio and its content type. Failure surfaces as a
// recoverable error; the caller degrades to silence.
func (s *SpeechService) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if s.url == "" {
		return nil, "", fmt.Errorf("%w: SPEECH_URL is not configured", common.ErrSpeechFailed)
	}
	if strings.TrimSpace(text) == "" {
		return nil, "", common.ErrContentRequired
	}

	payload, err := json.Marshal(speechRequest{Text: text, Voice: s.voice})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrSpeechFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrSpeechFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrSpeechFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: status %d", common.ErrSpeechFailed, resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrSpeechFailed, err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return audio, contentType, nil
}
