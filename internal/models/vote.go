package models

import (
	"time"
)

// Vote is the per-viewer "up" marker. Exactly one of QuestionID and
// AnswerID is set. Deleting the row retracts the vote.
//
// One vote per item per user, enforced by the pair indexes. NULLs are
// distinct in a unique index, so each pair only collides when the same
// non-null id repeats for the same user.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:uniq_vote_user_question;uniqueIndex:uniq_vote_user_answer" json:"user_id"`
	QuestionID *uint     `gorm:"index;uniqueIndex:uniq_vote_user_question" json:"question_id"`
	AnswerID   *uint     `gorm:"index;uniqueIndex:uniq_vote_user_answer" json:"answer_id"`
	CreatedAt  time.Time `json:"created_at"` // Doubles as the vote timestamp
}
