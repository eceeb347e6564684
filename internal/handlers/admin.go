package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spurningar/internal/middleware"
	"spurningar/internal/services"
	"spurningar/internal/utils"
)

// AdminHandler groups the moderation operations. The admin check itself
// lives in the services so the invariant holds no matter who calls them;
// the handlers just pass the acting user through.
type AdminHandler struct {
	questions *services.QuestionService
	identity  *services.IdentityService
	limiter   *services.VoteLimiter
	publisher *services.Publisher
}

func NewAdminHandler(questions *services.QuestionService, identity *services.IdentityService,
	limiter *services.VoteLimiter, publisher *services.Publisher) *AdminHandler {
	return &AdminHandler{questions: questions, identity: identity, limiter: limiter, publisher: publisher}
}

// DeleteQuestion removes a question and cascades to its answers.
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	if err := h.questions.Delete(middleware.CurrentUser(c), c.Param("qid")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "question deleted"})
}

type injectVotesRequest struct {
	Amount int `json:"amount"`
}

// InjectVotes adds votes directly, bypassing the daily limiter.
func (h *AdminHandler) InjectVotes(c *gin.Context) {
	var req injectVotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	question, err := h.questions.InjectVotes(middleware.CurrentUser(c), c.Param("qid"), req.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": question})
}

type updateCategoryRequest struct {
	Category string `json:"category"`
}

// UpdateCategory overwrites the category field only.
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	question, err := h.questions.UpdateCategory(middleware.CurrentUser(c), c.Param("qid"), req.Category)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": question})
}

type publishRequest struct {
	AnswerID string `json:"answer_id"`
}

// Publish forwards a question/answer pair to the render service and marks
// the question posted. A retry of an already-forwarded pair is a no-op.
func (h *AdminHandler) Publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	question, err := h.publisher.Publish(c.Request.Context(), middleware.CurrentUser(c), c.Param("qid"), req.AnswerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": question})
}

// ResetVoteBudget forces the caller's install counter back to (today, 0).
func (h *AdminHandler) ResetVoteBudget(c *gin.Context) {
	if err := h.limiter.Reset(middleware.CurrentUser(c), middleware.InstallID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vote budget reset"})
}

// PromoteUser grants the admin role to another user. This is the explicit
// escalation path that exists alongside the email-domain rule.
func (h *AdminHandler) PromoteUser(c *gin.Context) {
	targetID := utils.StringToInt(c.Param("id"))
	if targetID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.identity.Promote(middleware.CurrentUser(c), uint(targetID)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user promoted"})
}
