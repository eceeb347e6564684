package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"spurningar/internal/common"
	"spurningar/internal/models"
	"spurningar/internal/utils"
)

// QuestionInput carries the submission form fields. Validation happens
// here, at the repository boundary, not in the calling UI.
type QuestionInput struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	Article        string `json:"article"`
	SourceURL      string `json:"source_url"`
	ImageURL       string `json:"image_url"`
	Category       string `json:"category"`
	AttachmentType string `json:"attachment_type"`
	AttachmentURL  string `json:"attachment_url"`
	AttachmentName string `json:"attachment_name"`
}

// QuestionService is the question side of the repository: add, list, vote,
// and the admin-only moderation operations.
type QuestionService struct {
	db      *gorm.DB
	limiter *VoteLimiter
	tracker *ContributionTracker
}

func NewQuestionService(db *gorm.DB, limiter *VoteLimiter, tracker *ContributionTracker) *QuestionService {
	return &QuestionService{db: db, limiter: limiter, tracker: tracker}
}

func validAttachment(in QuestionInput) bool {
	if in.AttachmentURL == "" {
		return in.AttachmentType == ""
	}
	switch in.AttachmentType {
	case models.AttachmentFile, models.AttachmentVideo, models.AttachmentLink:
		return true
	}
	return false
}

// Add appends a question and re-evaluates the author's contribution
// status. Returns the stored question and whether browsing is unlocked
// after this submission.
func (s *QuestionService) Add(user *models.User, in QuestionInput) (*models.Question, bool, error) {
	if user == nil {
		return nil, false, common.ErrNotLoggedIn
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, false, common.ErrTitleRequired
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, false, common.ErrContentRequired
	}
	if !models.ValidCategory(in.Category) {
		return nil, false, common.ErrInvalidCategory
	}
	if !validAttachment(in) {
		return nil, false, common.ErrInvalidAttachment
	}

	question := models.Question{
		Qid:            utils.GenerateShortID(8),
		UserID:         user.ID,
		AuthorName:     user.Name,
		Title:          strings.TrimSpace(in.Title),
		Content:        strings.TrimSpace(in.Content),
		Article:        in.Article,
		SourceURL:      in.SourceURL,
		ImageURL:       in.ImageURL,
		Category:       in.Category,
		AttachmentType: in.AttachmentType,
		AttachmentURL:  in.AttachmentURL,
		AttachmentName: in.AttachmentName,
		Special:        models.IsSpecial(in.Title, in.Content, in.Category),
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, false, err
	}

	// Contribution is counted after commit, for questions and answers
	// alike. The new item is in the collection by now.
	unlocked, err := s.tracker.Recheck(user.ID)
	if err != nil {
		return nil, false, err
	}
	return &question, unlocked, nil
}

// List returns every question, newest first, with the viewer's vote
// markers filled in.
func (s *QuestionService) List(viewer *models.User) ([]models.Question, error) {
	var questions []models.Question
	if err := s.db.Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, err
	}
	if err := s.fillQuestionMarkers(viewer, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Get resolves one question with its answers. The supporting article is
// rendered to sanitized HTML for the response.
func (s *QuestionService) Get(qid string, viewer *models.User) (*models.Question, []models.Answer, error) {
	question, err := s.byQid(s.db, qid)
	if err != nil {
		return nil, nil, err
	}

	var answers []models.Answer
	if err := s.db.Where("question_id = ?", question.ID).Order("created_at ASC").Find(&answers).Error; err != nil {
		return nil, nil, err
	}

	if viewer != nil {
		var vote models.Vote
		if s.db.Where("user_id = ? AND question_id = ?", viewer.ID, question.ID).First(&vote).Error == nil {
			question.ViewerVoted = true
			t := vote.CreatedAt
			question.ViewerVotedAt = &t
		}
	}
	if err := fillAnswerMarkers(s.db, viewer, answers); err != nil {
		return nil, nil, err
	}
	for i := range answers {
		answers[i].Qid = question.Qid
	}
	if question.Article != "" {
		question.ArticleHTML = utils.RenderMarkdown(question.Article)
	}
	return question, answers, nil
}

func (s *QuestionService) byQid(tx *gorm.DB, qid string) (*models.Question, error) {
	var question models.Question
	if err := tx.Where("qid = ?", qid).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

// fillQuestionMarkers batch-fills the viewer's vote markers.
func (s *QuestionService) fillQuestionMarkers(viewer *models.User, questions []models.Question) error {
	if viewer == nil || len(questions) == 0 {
		return nil
	}
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	var votes []models.Vote
	if err := s.db.Where("user_id = ? AND question_id IN ?", viewer.ID, ids).Find(&votes).Error; err != nil {
		return err
	}
	byQuestion := make(map[uint]models.Vote, len(votes))
	for _, v := range votes {
		if v.QuestionID != nil {
			byQuestion[*v.QuestionID] = v
		}
	}
	for i := range questions {
		if v, ok := byQuestion[questions[i].ID]; ok {
			questions[i].ViewerVoted = true
			t := v.CreatedAt
			questions[i].ViewerVotedAt = &t
		}
	}
	return nil
}

// errVoteRace marks a concurrent insert of the same vote marker: the other
// request won, the pair index rejected ours. The losing transaction rolls
// back (budget included) and the caller reports the recorded state.
var errVoteRace = errors.New("vote already recorded")

// Vote toggles the viewer's upvote on a question. A set marker means this
// is a retraction: count down, clear the marker, consume no budget. A new
// vote spends one unit of the install's daily budget and is rejected once
// the budget is exhausted.
func (s *QuestionService) Vote(user *models.User, installID, qid string) (*models.Question, error) {
	if user == nil {
		return nil, common.ErrNotLoggedIn
	}

	var question *models.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q, err := s.byQid(tx, qid)
		if err != nil {
			return err
		}
		question = q

		var existing models.Vote
		err = tx.Where("user_id = ? AND question_id = ?", user.ID, q.ID).First(&existing).Error
		if err == nil {
			// Retraction
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(q).UpdateColumn("upvotes", gorm.Expr("upvotes - 1")).Error; err != nil {
				return err
			}
			question.Upvotes--
			question.ViewerVoted = false
			question.ViewerVotedAt = nil
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.limiter.spend(tx, installID); err != nil {
			return err
		}
		vote := models.Vote{UserID: user.ID, QuestionID: &q.ID}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errVoteRace
			}
			return err
		}
		if err := tx.Model(q).UpdateColumn("upvotes", gorm.Expr("upvotes + 1")).Error; err != nil {
			return err
		}
		question.Upvotes++
		question.ViewerVoted = true
		t := vote.CreatedAt
		question.ViewerVotedAt = &t
		return nil
	})
	if errors.Is(err, errVoteRace) {
		q, err := s.byQid(s.db, qid)
		if err != nil {
			return nil, err
		}
		var vote models.Vote
		if s.db.Where("user_id = ? AND question_id = ?", user.ID, q.ID).First(&vote).Error == nil {
			q.ViewerVoted = true
			t := vote.CreatedAt
			q.ViewerVotedAt = &t
		}
		return q, nil
	}
	if err != nil {
		return nil, err
	}
	return question, nil
}

// Delete removes a question and everything hanging off it: answers, vote
// markers and publish logs. Admin only.
func (s *QuestionService) Delete(actor *models.User, qid string) error {
	if actor == nil || !actor.Admin {
		return common.ErrNotAdmin
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		question, err := s.byQid(tx, qid)
		if err != nil {
			return err
		}

		var answerIDs []uint
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ?", question.ID).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}

		if len(answerIDs) > 0 {
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.PublishLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(question).Error
	})
}

// InjectVotes adds amount to the upvote counter directly, bypassing the
// daily limiter. Moderation override, admin only.
func (s *QuestionService) InjectVotes(actor *models.User, qid string, amount int) (*models.Question, error) {
	if actor == nil || !actor.Admin {
		return nil, common.ErrNotAdmin
	}
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}

	question, err := s.byQid(s.db, qid)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(question).UpdateColumn("upvotes", gorm.Expr("upvotes + ?", amount)).Error; err != nil {
		return nil, err
	}
	question.Upvotes += amount
	return question, nil
}

// UpdateCategory overwrites the category field only. Admin only.
func (s *QuestionService) UpdateCategory(actor *models.User, qid, category string) (*models.Question, error) {
	if actor == nil || !actor.Admin {
		return nil, common.ErrNotAdmin
	}
	if !models.ValidCategory(category) {
		return nil, common.ErrInvalidCategory
	}

	question, err := s.byQid(s.db, qid)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(question).Update("category", category).Error; err != nil {
		return nil, err
	}
	question.Category = category
	return question, nil
}
