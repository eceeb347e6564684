package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"spurningar/internal/common"
)

// statusFor maps the service error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500; no failure is fatal to the process.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrNameRequired),
		errors.Is(err, common.ErrTitleRequired),
		errors.Is(err, common.ErrContentRequired),
		errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrInvalidCategory),
		errors.Is(err, common.ErrInvalidAttachment),
		errors.Is(err, common.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, common.ErrUserNotFound),
		errors.Is(err, common.ErrQuestionNotFound),
		errors.Is(err, common.ErrAnswerNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrVoteBudgetExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrPublishFailed),
		errors.Is(err, common.ErrGenerationFailed),
		errors.Is(err, common.ErrSpeechFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail writes the error envelope the SPA shows as a notice.
func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
