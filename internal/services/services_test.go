package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"spurningar/internal/db"
	"spurningar/internal/models"
)

// openTestDB gives every test its own in-memory database with the full
// schema migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(g))
	return g
}

func createUser(t *testing.T, g *gorm.DB, name string, admin bool) *models.User {
	t.Helper()
	user := models.User{Name: name, Admin: admin}
	require.NoError(t, g.Create(&user).Error)
	return &user
}

func createQuestion(t *testing.T, g *gorm.DB, svc *QuestionService, user *models.User, title string) *models.Question {
	t.Helper()
	q, _, err := svc.Add(user, QuestionInput{Title: title, Content: "content of " + title})
	require.NoError(t, err)
	return q
}
