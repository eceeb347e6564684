package models

import (
	"time"
)

type Answer struct {
	ID         uint     `gorm:"primaryKey" json:"-"`
	Aid        string   `gorm:"uniqueIndex;size:8;not null" json:"aid"`
	QuestionID uint     `gorm:"not null;index" json:"-"`
	Question   Question `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Qid        string   `gorm:"-" json:"qid"` // Public parent id, filled per request
	UserID     uint     `gorm:"not null;index" json:"user_id"`
	User       User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorName string   `gorm:"not null" json:"author_name"`
	Content    string   `gorm:"type:text;not null" json:"content"`

	// Optional structured metadata forwarded on publish
	FactCheck          string `gorm:"type:text" json:"fact_check,omitempty"`
	SimplifiedQuestion string `gorm:"type:text" json:"simplified_question,omitempty"`
	SimplifiedAnswer   string `gorm:"type:text" json:"simplified_answer,omitempty"`

	Upvotes   int       `gorm:"default:0" json:"upvotes"`
	CreatedAt time.Time `json:"created_at"`

	ViewerVoted   bool       `gorm:"-" json:"viewer_voted"`
	ViewerVotedAt *time.Time `gorm:"-" json:"viewer_voted_at,omitempty"`
}
