package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"spurningar/internal/common"
	"spurningar/internal/models"
	"spurningar/internal/utils"
)

// AnswerInput carries an answer submission with its optional structured
// metadata.
type AnswerInput struct {
	Content            string `json:"content"`
	FactCheck          string `json:"fact_check"`
	SimplifiedQuestion string `json:"simplified_question"`
	SimplifiedAnswer   string `json:"simplified_answer"`
}

// AnswerService is the answer side of the repository.
type AnswerService struct {
	db      *gorm.DB
	limiter *VoteLimiter
	tracker *ContributionTracker
}

func NewAnswerService(db *gorm.DB, limiter *VoteLimiter, tracker *ContributionTracker) *AnswerService {
	return &AnswerService{db: db, limiter: limiter, tracker: tracker}
}

// Add appends an answer to an existing question. A dangling question id
// is rejected with not-found; answers never outlive their question.
func (s *AnswerService) Add(user *models.User, qid string, in AnswerInput) (*models.Answer, bool, error) {
	if user == nil {
		return nil, false, common.ErrNotLoggedIn
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, false, common.ErrContentRequired
	}

	var question models.Question
	if err := s.db.Where("qid = ?", qid).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, common.ErrQuestionNotFound
		}
		return nil, false, err
	}

	answer := models.Answer{
		Aid:                utils.GenerateShortID(8),
		QuestionID:         question.ID,
		UserID:             user.ID,
		AuthorName:         user.Name,
		Content:            strings.TrimSpace(in.Content),
		FactCheck:          in.FactCheck,
		SimplifiedQuestion: in.SimplifiedQuestion,
		SimplifiedAnswer:   in.SimplifiedAnswer,
	}
	if err := s.db.Create(&answer).Error; err != nil {
		return nil, false, err
	}
	answer.Qid = question.Qid

	unlocked, err := s.tracker.Recheck(user.ID)
	if err != nil {
		return nil, false, err
	}
	return &answer, unlocked, nil
}

// Vote toggles the viewer's upvote on an answer, mirroring the question
// path: retraction is free, a new vote spends daily budget.
func (s *AnswerService) Vote(user *models.User, installID, aid string) (*models.Answer, error) {
	if user == nil {
		return nil, common.ErrNotLoggedIn
	}

	var answer *models.Answer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var a models.Answer
		if err := tx.Where("aid = ?", aid).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrAnswerNotFound
			}
			return err
		}
		answer = &a

		var existing models.Vote
		err := tx.Where("user_id = ? AND answer_id = ?", user.ID, a.ID).First(&existing).Error
		if err == nil {
			// Retraction
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&a).UpdateColumn("upvotes", gorm.Expr("upvotes - 1")).Error; err != nil {
				return err
			}
			answer.Upvotes--
			answer.ViewerVoted = false
			answer.ViewerVotedAt = nil
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.limiter.spend(tx, installID); err != nil {
			return err
		}
		vote := models.Vote{UserID: user.ID, AnswerID: &a.ID}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errVoteRace
			}
			return err
		}
		if err := tx.Model(&a).UpdateColumn("upvotes", gorm.Expr("upvotes + 1")).Error; err != nil {
			return err
		}
		answer.Upvotes++
		answer.ViewerVoted = true
		t := vote.CreatedAt
		answer.ViewerVotedAt = &t
		return nil
	})
	if errors.Is(err, errVoteRace) {
		var a models.Answer
		if err := s.db.Where("aid = ?", aid).First(&a).Error; err != nil {
			return nil, err
		}
		var vote models.Vote
		if s.db.Where("user_id = ? AND answer_id = ?", user.ID, a.ID).First(&vote).Error == nil {
			a.ViewerVoted = true
			t := vote.CreatedAt
			a.ViewerVotedAt = &t
		}
		return &a, nil
	}
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// fillAnswerMarkers batch-fills the viewer's vote markers on answers.
func fillAnswerMarkers(db *gorm.DB, viewer *models.User, answers []models.Answer) error {
	if viewer == nil || len(answers) == 0 {
		return nil
	}
	ids := make([]uint, len(answers))
	for i, a := range answers {
		ids[i] = a.ID
	}
	var votes []models.Vote
	if err := db.Where("user_id = ? AND answer_id IN ?", viewer.ID, ids).Find(&votes).Error; err != nil {
		return err
	}
	byAnswer := make(map[uint]models.Vote, len(votes))
	for _, v := range votes {
		if v.AnswerID != nil {
			byAnswer[*v.AnswerID] = v
		}
	}
	for i := range answers {
		if v, ok := byAnswer[answers[i].ID]; ok {
			answers[i].ViewerVoted = true
			t := v.CreatedAt
			answers[i].ViewerVotedAt = &t
		}
	}
	return nil
}
