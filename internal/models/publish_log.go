package models

import (
	"time"
)

// PublishLog records every question/answer pair forwarded to the render
// service. IdempotencyKey is deterministic per pair, so a retried publish
// finds the existing row and becomes a no-op instead of a double post.
type PublishLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	QuestionID     uint      `gorm:"not null;index" json:"question_id"`
	AnswerID       uint      `gorm:"not null" json:"answer_id"`
	IdempotencyKey string    `gorm:"uniqueIndex;size:36;not null" json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
}
