package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"spurningar/internal/middleware"
	"spurningar/internal/services"
)

type AuthHandler struct {
	identity *services.IdentityService
	limiter  *services.VoteLimiter
}

func NewAuthHandler(identity *services.IdentityService, limiter *services.VoteLimiter) *AuthHandler {
	return &AuthHandler{identity: identity, limiter: limiter}
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register creates the account and logs it into the session.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.identity.Create(req.Name, req.Email)
	if err != nil {
		fail(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Email string `json:"email"`
}

// Login resolves the account by email. The admin rule is re-evaluated:
// upgrade on a matching suffix, never a downgrade.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.identity.Login(req.Email)
	if err != nil {
		fail(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout clears the identity only. Questions, answers and the vote budget
// belong to the installation and stay put; the install id survives in the
// session as well.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	installID, _ := session.Get(middleware.InstallIDKey).(string)
	session.Clear()
	if installID != "" {
		session.Set(middleware.InstallIDKey, installID)
	}
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfile edits name/email and repairs the author name denormalized
// onto the user's content.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.identity.Update(user.ID, req.Name, req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}

// Me reports the session state the SPA boots from: identity, the latched
// contribution flag and today's remaining vote budget.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)

	votesLeft, err := h.limiter.Remaining(middleware.InstallID(c))
	if err != nil {
		fail(c, err)
		return
	}

	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil, "votes_left": votesLeft})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"votes_left": votesLeft,
	})
}
