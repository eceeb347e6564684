package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"spurningar/internal/common"
	"spurningar/internal/models"
)

func TestAddValidatesAtRepositoryBoundary(t *testing.T) {
	_, _, questions, _ := newTestStack(t)
	user := createUser(t, questions.db, "writer", false)

	_, _, err := questions.Add(nil, QuestionInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)

	_, _, err = questions.Add(user, QuestionInput{Title: "  ", Content: "c"})
	assert.ErrorIs(t, err, common.ErrTitleRequired)

	_, _, err = questions.Add(user, QuestionInput{Title: "t", Content: ""})
	assert.ErrorIs(t, err, common.ErrContentRequired)

	_, _, err = questions.Add(user, QuestionInput{Title: "t", Content: "c", Category: "bogus"})
	assert.ErrorIs(t, err, common.ErrInvalidCategory)

	_, _, err = questions.Add(user, QuestionInput{
		Title: "t", Content: "c",
		AttachmentURL: "https://example.com/f.pdf", AttachmentType: "archive",
	})
	assert.ErrorIs(t, err, common.ErrInvalidAttachment)
}

func TestSpecialFlagFromKeywordAndCategory(t *testing.T) {
	_, _, questions, _ := newTestStack(t)
	user := createUser(t, questions.db, "writer", false)

	plain, _, err := questions.Add(user, QuestionInput{Title: "Hvað er ljós?", Content: "bara ljós"})
	require.NoError(t, err)
	assert.False(t, plain.Special)

	keyword, _, err := questions.Add(user, QuestionInput{Title: "Er jólasveinn til?", Content: "spurning"})
	require.NoError(t, err)
	assert.True(t, keyword.Special)

	byCategory, _, err := questions.Add(user, QuestionInput{
		Title: "skrýtið", Content: "mjög", Category: models.CategoryOddities,
	})
	require.NoError(t, err)
	assert.True(t, byCategory.Special)
}

func TestAnswerRequiresExistingQuestion(t *testing.T) {
	_, _, questions, answers := newTestStack(t)
	user := createUser(t, questions.db, "writer", false)

	_, _, err := answers.Add(user, "missing1", AnswerInput{Content: "dangling"})
	assert.ErrorIs(t, err, common.ErrQuestionNotFound)

	_, _, err = answers.Add(user, "missing1", AnswerInput{Content: ""})
	assert.ErrorIs(t, err, common.ErrContentRequired)
}

func TestVoteMarkerCarriesTimestamp(t *testing.T) {
	_, _, questions, _ := newTestStack(t)
	author := createUser(t, questions.db, "author", false)
	voter := createUser(t, questions.db, "voter", false)
	q := createQuestion(t, questions.db, questions, author, "timed")

	voted, err := questions.Vote(voter, testInstall, q.Qid)
	require.NoError(t, err)
	require.NotNil(t, voted.ViewerVotedAt)

	// The marker is per viewer: the author sees none
	listed, err := questions.List(author)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].ViewerVoted)
	assert.Equal(t, 1, listed[0].Upvotes)

	listed, err = questions.List(voter)
	require.NoError(t, err)
	assert.True(t, listed[0].ViewerVoted)
	require.NotNil(t, listed[0].ViewerVotedAt)
}

func TestDuplicateVoteMarkersRejected(t *testing.T) {
	g := openTestDB(t)
	user := createUser(t, g, "voter", false)
	questionID := uint(7)
	answerID := uint(7)

	first := models.Vote{UserID: user.ID, QuestionID: &questionID}
	require.NoError(t, g.Create(&first).Error)
	dup := models.Vote{UserID: user.ID, QuestionID: &questionID}
	assert.ErrorIs(t, g.Create(&dup).Error, gorm.ErrDuplicatedKey)

	// The null halves never collide: an answer marker by the same user is
	// fine, a second one on the same answer is not
	ansVote := models.Vote{UserID: user.ID, AnswerID: &answerID}
	require.NoError(t, g.Create(&ansVote).Error)
	dupAns := models.Vote{UserID: user.ID, AnswerID: &answerID}
	assert.ErrorIs(t, g.Create(&dupAns).Error, gorm.ErrDuplicatedKey)

	var count int64
	g.Model(&models.Vote{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestVoteInsertRaceIsNoOp(t *testing.T) {
	limiter, _, questions, _ := newTestStack(t)
	g := questions.db
	author := createUser(t, g, "author", false)
	voter := createUser(t, g, "voter", false)
	q := createQuestion(t, g, questions, author, "contested")

	// Slip a competing marker in between the service's existence check and
	// its own insert so the pair index rejects the second row. The
	// competitor shares the transaction here, so both rows roll back.
	raced := false
	g.Callback().Create().Before("gorm:create").Register("contested_insert", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.Vote); !ok || raced {
			return
		}
		raced = true
		competing := models.Vote{UserID: voter.ID, QuestionID: &q.ID}
		tx.Session(&gorm.Session{NewDB: true}).Create(&competing)
	})
	t.Cleanup(func() { g.Callback().Create().Remove("contested_insert") })

	got, err := questions.Vote(voter, testInstall, q.Qid)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, raced)

	// The losing attempt rolled back whole: no double increment and no
	// budget charge
	var reloaded models.Question
	require.NoError(t, g.Where("qid = ?", q.Qid).First(&reloaded).Error)
	assert.Equal(t, 0, reloaded.Upvotes)
	left, err := limiter.Remaining(testInstall)
	require.NoError(t, err)
	assert.Equal(t, DailyVoteLimit, left)
}

func TestDeleteCascadesToAnswers(t *testing.T) {
	_, _, questions, answers := newTestStack(t)
	g := questions.db
	admin := createUser(t, g, "mod", true)
	user := createUser(t, g, "writer", false)

	q := createQuestion(t, g, questions, user, "doomed")
	a, _, err := answers.Add(user, q.Qid, AnswerInput{Content: "also doomed"})
	require.NoError(t, err)
	_, err = answers.Vote(admin, testInstall, a.Aid)
	require.NoError(t, err)

	require.NoError(t, questions.Delete(admin, q.Qid))

	var count int64
	g.Model(&models.Answer{}).Count(&count)
	assert.EqualValues(t, 0, count)
	g.Model(&models.Vote{}).Count(&count)
	assert.EqualValues(t, 0, count)
	g.Model(&models.Question{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestAdminOnlyMutationsRejectNonAdmins(t *testing.T) {
	_, _, questions, _ := newTestStack(t)
	g := questions.db
	user := createUser(t, g, "writer", false)
	q := createQuestion(t, g, questions, user, "protected")

	err := questions.Delete(user, q.Qid)
	assert.ErrorIs(t, err, common.ErrNotAdmin)

	_, err = questions.InjectVotes(user, q.Qid, 10)
	assert.ErrorIs(t, err, common.ErrNotAdmin)

	_, err = questions.UpdateCategory(user, q.Qid, models.CategoryScience)
	assert.ErrorIs(t, err, common.ErrNotAdmin)

	// Collections unchanged
	var count int64
	g.Model(&models.Question{}).Count(&count)
	assert.EqualValues(t, 1, count)
	var reloaded models.Question
	require.NoError(t, g.Where("qid = ?", q.Qid).First(&reloaded).Error)
	assert.Equal(t, 0, reloaded.Upvotes)
	assert.Empty(t, reloaded.Category)
}

func TestInjectVotesBypassesLimiter(t *testing.T) {
	limiter, _, questions, _ := newTestStack(t)
	g := questions.db
	admin := createUser(t, g, "mod", true)
	user := createUser(t, g, "writer", false)
	q := createQuestion(t, g, questions, user, "boosted")

	_, err := questions.InjectVotes(admin, q.Qid, 0)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	boosted, err := questions.InjectVotes(admin, q.Qid, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, boosted.Upvotes)

	// The daily budget is untouched
	left, err := limiter.Remaining(testInstall)
	require.NoError(t, err)
	assert.Equal(t, DailyVoteLimit, left)
}

func TestUpdateCategory(t *testing.T) {
	_, _, questions, _ := newTestStack(t)
	g := questions.db
	admin := createUser(t, g, "mod", true)
	user := createUser(t, g, "writer", false)
	q := createQuestion(t, g, questions, user, "recategorized")

	_, err := questions.UpdateCategory(admin, q.Qid, "bogus")
	assert.ErrorIs(t, err, common.ErrInvalidCategory)

	updated, err := questions.UpdateCategory(admin, q.Qid, models.CategorySpace)
	require.NoError(t, err)
	assert.Equal(t, models.CategorySpace, updated.Category)

	_, err = questions.UpdateCategory(admin, "missing1", models.CategorySpace)
	assert.ErrorIs(t, err, common.ErrQuestionNotFound)
}

func TestGetRendersArticle(t *testing.T) {
	_, _, questions, _ := newTestStack(t)
	user := createUser(t, questions.db, "writer", false)

	q, _, err := questions.Add(user, QuestionInput{
		Title:   "with article",
		Content: "short",
		Article: "# Heading\n\nSome **bold** text.",
	})
	require.NoError(t, err)

	got, answers, err := questions.Get(q.Qid, nil)
	require.NoError(t, err)
	assert.Empty(t, answers)
	assert.Contains(t, got.ArticleHTML, "<strong>bold</strong>")
}
