package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"spurningar/internal/models"
)

const CheckUserKey = "user"
const InstallIDKey = "install_id"

// EnsureInstallID mints a stable installation id for the browser session.
// The daily vote budget is keyed by it, so it must exist before any vote
// handler runs and must survive login/logout.
func EnsureInstallID() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		installID, _ := session.Get(InstallIDKey).(string)
		if installID == "" {
			installID = uuid.NewString()
			session.Set(InstallIDKey, installID)
			session.Save()
		}
		c.Set(InstallIDKey, installID)
		c.Next()
	}
}

// LoadUser retrieves the session user and sets it on the context. Missing
// or stale sessions are not an error here; AuthRequired enforces presence.
func LoadUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			if err := db.First(&user, userID).Error; err == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a logged-in user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the loaded session user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(CheckUserKey); exists {
		return u.(*models.User)
	}
	return nil
}

// InstallID returns the installation id minted by EnsureInstallID.
func InstallID(c *gin.Context) string {
	if v, exists := c.Get(InstallIDKey); exists {
		return v.(string)
	}
	return ""
}
