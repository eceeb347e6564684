package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spurningar/internal/middleware"
	"spurningar/internal/services"
)

type QuestionHandler struct {
	questions *services.QuestionService
	answers   *services.AnswerService
}

func NewQuestionHandler(questions *services.QuestionService, answers *services.AnswerService) *QuestionHandler {
	return &QuestionHandler{questions: questions, answers: answers}
}

// List returns every question, newest first, with the viewer's markers.
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questions.List(middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// Detail returns one question with its answers.
func (h *QuestionHandler) Detail(c *gin.Context) {
	question, answers, err := h.questions.Get(c.Param("qid"), middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": question, "answers": answers})
}

// Create submits a question. The response carries the contribution flag so
// the SPA can unlock browsing the moment the threshold is crossed.
func (h *QuestionHandler) Create(c *gin.Context) {
	var in services.QuestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	question, unlocked, err := h.questions.Add(middleware.CurrentUser(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"question":          question,
		"browsing_unlocked": unlocked,
	})
}

// Vote toggles the viewer's upvote on a question.
func (h *QuestionHandler) Vote(c *gin.Context) {
	question, err := h.questions.Vote(middleware.CurrentUser(c), middleware.InstallID(c), c.Param("qid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": question})
}

// CreateAnswer submits an answer to a question.
func (h *QuestionHandler) CreateAnswer(c *gin.Context) {
	var in services.AnswerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	answer, unlocked, err := h.answers.Add(middleware.CurrentUser(c), c.Param("qid"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"answer":            answer,
		"browsing_unlocked": unlocked,
	})
}

// VoteAnswer toggles the viewer's upvote on an answer.
func (h *QuestionHandler) VoteAnswer(c *gin.Context) {
	answer, err := h.answers.Vote(middleware.CurrentUser(c), middleware.InstallID(c), c.Param("aid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
