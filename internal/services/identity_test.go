package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spurningar/internal/common"
	"spurningar/internal/models"
)

func newIdentity(t *testing.T) (*IdentityService, *QuestionService, *AnswerService) {
	_, _, questions, answers := newTestStack(t)
	return NewIdentityService(questions.db, "@spurningar.is"), questions, answers
}

func TestCreateRequiresName(t *testing.T) {
	identity, _, _ := newIdentity(t)

	_, err := identity.Create("  ", "")
	assert.ErrorIs(t, err, common.ErrNameRequired)

	user, err := identity.Create("Anna", "")
	require.NoError(t, err)
	assert.False(t, user.Admin)
	assert.False(t, user.BrowsingUnlocked)
}

func TestPrivilegedDomainGrantsAdmin(t *testing.T) {
	identity, _, _ := newIdentity(t)

	staff, err := identity.Create("Edda", "edda@spurningar.is")
	require.NoError(t, err)
	assert.True(t, staff.Admin)

	visitor, err := identity.Create("Jon", "jon@example.com")
	require.NoError(t, err)
	assert.False(t, visitor.Admin)
}

func TestLoginUpgradesButNeverDowngrades(t *testing.T) {
	identity, _, _ := newIdentity(t)

	user, err := identity.Create("Bjork", "bjork@example.com")
	require.NoError(t, err)
	assert.False(t, user.Admin)

	// Re-point the email at the privileged domain, then log in with it
	_, err = identity.Update(user.ID, "Bjork", "bjork@spurningar.is")
	require.NoError(t, err)
	upgraded, err := identity.Login("bjork@spurningar.is")
	require.NoError(t, err)
	assert.True(t, upgraded.Admin)

	// A later non-matching email does not take the flag away
	_, err = identity.Update(user.ID, "Bjork", "bjork@example.com")
	require.NoError(t, err)
	still, err := identity.Login("bjork@example.com")
	require.NoError(t, err)
	assert.True(t, still.Admin)
}

func TestLoginUnknownEmail(t *testing.T) {
	identity, _, _ := newIdentity(t)
	_, err := identity.Login("nobody@example.com")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUpdateValidation(t *testing.T) {
	identity, _, _ := newIdentity(t)
	user, err := identity.Create("Anna", "anna@example.com")
	require.NoError(t, err)

	_, err = identity.Update(user.ID, "", "anna@example.com")
	assert.ErrorIs(t, err, common.ErrNameRequired)

	_, err = identity.Update(user.ID, "Anna", "not-an-email")
	assert.ErrorIs(t, err, common.ErrInvalidEmail)
}

func TestUpdateCascadesAuthorName(t *testing.T) {
	identity, questions, answers := newIdentity(t)
	g := questions.db

	user, err := identity.Create("Anna", "anna@example.com")
	require.NoError(t, err)

	q := createQuestion(t, g, questions, user, "whose name")
	a, _, err := answers.Add(user, q.Qid, AnswerInput{Content: "mine"})
	require.NoError(t, err)

	_, err = identity.Update(user.ID, "Anna Björg", "anna@example.com")
	require.NoError(t, err)

	var reloadedQ models.Question
	require.NoError(t, g.Where("qid = ?", q.Qid).First(&reloadedQ).Error)
	assert.Equal(t, "Anna Björg", reloadedQ.AuthorName)

	var reloadedA models.Answer
	require.NoError(t, g.Where("aid = ?", a.Aid).First(&reloadedA).Error)
	assert.Equal(t, "Anna Björg", reloadedA.AuthorName)
}

func TestPromoteRequiresAdmin(t *testing.T) {
	identity, questions, _ := newIdentity(t)
	g := questions.db
	admin := createUser(t, g, "root", true)
	peasant := createUser(t, g, "peasant", false)
	target := createUser(t, g, "target", false)

	err := identity.Promote(peasant, target.ID)
	assert.ErrorIs(t, err, common.ErrNotAdmin)

	require.NoError(t, identity.Promote(admin, target.ID))
	var reloaded models.User
	require.NoError(t, g.First(&reloaded, target.ID).Error)
	assert.True(t, reloaded.Admin)
}
