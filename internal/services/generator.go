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

	log "github.com/sirupsen/logrus"

	"spurningar/internal/common"
)

// GeneratedQuestion is the structured draft the AI collaborator returns.
// Any field can be empty; nothing is persisted until the user submits.
type GeneratedQuestion struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Source   string `json:"source,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// ChatResponse mirrors the chat-completions envelope of the LLM endpoint.
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const generatorSystemPrompt = `You draft questions for a bilingual (Icelandic/English) Q&A community. ` +
	`Reply with a single JSON object: {"title": "...", "content": "...", "source": "...", "imageUrl": "..."}. ` +
	`Leave source and imageUrl empty when you have none. No prose outside the JSON.`

// Generator calls the AI collaborator to draft a question from a free-text
// prompt. It is treated as an opaque external capability: failure or
// unusable output degrades to an error, nothing is added anywhere.
type Generator struct {
	baseURL string
	token   string
	model   string
	timeout time.Duration
	client  *http.Client
}

func NewGenerator(baseURL, token, model string, timeout time.Duration) *Generator {
	return &Generator{
		baseURL: baseURL,
		token:   token,
		model:   model,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Generate produces a draft for the prompt. The call is read-only on our
// side, so a single retry on transport failure is safe.
func (g *Generator) Generate(ctx context.Context, prompt string) (*GeneratedQuestion, error) {
	if g.baseURL == "" {
		return nil, fmt.Errorf("%w: LLM_BASE_URL is not configured", common.ErrGenerationFailed)
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, common.ErrContentRequired
	}

	content, err := g.complete(ctx, prompt)
	if err != nil {
		log.WithError(err).Warn("AI generation failed, retrying once")
		content, err = g.complete(ctx, prompt)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}

	draft, err := parseDraft(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}
	return draft, nil
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: generatorSystemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(g.baseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("llm status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var parsed ChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseDraft pulls the JSON draft out of the model's reply, tolerating
// markdown code fences around it.
func parseDraft(content string) (*GeneratedQuestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var draft GeneratedQuestion
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, err
	}
	if draft.Title == "" || draft.Content == "" {
		return nil, fmt.Errorf("draft missing title or content")
	}
	return &draft, nil
}
