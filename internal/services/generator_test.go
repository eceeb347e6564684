package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spurningar/internal/common"
)

func chatReply(content string) ChatResponse {
	var resp ChatResponse
	resp.Choices = make([]struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}, 1)
	resp.Choices[0].Message.Content = content
	return resp
}

func TestGenerateParsesDraft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Expected Bearer test-token, got %s", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(chatReply("```json\n{\"title\": \"Af hverju er himinninn blár?\", \"content\": \"Vegna ljósdreifingar.\", \"source\": \"\", \"imageUrl\": \"\"}\n```"))
	}))
	defer server.Close()

	g := NewGenerator(server.URL, "test-token", "test-model", 5*time.Second)
	draft, err := g.Generate(context.Background(), "himinninn")
	require.NoError(t, err)
	assert.Equal(t, "Af hverju er himinninn blár?", draft.Title)
	assert.Equal(t, "Vegna ljósdreifingar.", draft.Content)
}

func TestGenerateRetriesOnceThenFails(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewGenerator(server.URL, "", "test-model", 5*time.Second)
	_, err := g.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, common.ErrGenerationFailed)
	assert.Equal(t, 2, calls)
}

func TestGenerateRejectsUnusableDraft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatReply("sorry, I cannot help with that"))
	}))
	defer server.Close()

	g := NewGenerator(server.URL, "", "test-model", 5*time.Second)
	_, err := g.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, common.ErrGenerationFailed)
}

func TestGenerateUnconfigured(t *testing.T) {
	g := NewGenerator("", "", "model", time.Second)
	_, err := g.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, common.ErrGenerationFailed)

	g = NewGenerator("http://unused.invalid", "", "model", time.Second)
	_, err = g.Generate(context.Background(), "  ")
	assert.ErrorIs(t, err, common.ErrContentRequired)
}

func TestSynthesizeProxiesAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req speechRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Halló heimur", req.Text)
		assert.Equal(t, "test-voice", req.Voice)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	s := NewSpeechService(server.URL, "test-voice", 5*time.Second)
	audio, contentType, err := s.Synthesize(context.Background(), "Halló heimur")
	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", contentType)
	assert.Equal(t, []byte("mp3-bytes"), audio)
}

func TestSynthesizeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := NewSpeechService(server.URL, "", 5*time.Second)
	_, _, err := s.Synthesize(context.Background(), "Halló")
	assert.ErrorIs(t, err, common.ErrSpeechFailed)
}
