package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spurningar/internal/services"
)

// CollabHandler fronts the two external collaborators: AI drafting and
// text-to-speech. Both degrade gracefully; a failure adds nothing and the
// SPA shows a notice.
type CollabHandler struct {
	generator *services.Generator
	speech    *services.SpeechService
}

func NewCollabHandler(generator *services.Generator, speech *services.SpeechService) *CollabHandler {
	return &CollabHandler{generator: generator, speech: speech}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// Generate drafts a question from a free-text prompt. Nothing is persisted
// here; the user reviews the draft and submits it through Create.
func (h *CollabHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft, err := h.generator.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

type speakRequest struct {
	Text string `json:"text"`
}

// Speak synthesizes audio for a text and streams it back.
func (h *CollabHandler) Speak(c *gin.Context) {
	var req speakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	audio, contentType, err := h.speech.Synthesize(c.Request.Context(), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, audio)
}
