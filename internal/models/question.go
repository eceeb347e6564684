package models

import (
	"time"
)

// Attachment type tags. A question may carry at most one attachment.
const (
	AttachmentFile  = "file"
	AttachmentVideo = "video"
	AttachmentLink  = "link"
)

type Question struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	Qid        string `gorm:"uniqueIndex;size:8;not null" json:"qid"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	User       User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorName string `gorm:"not null" json:"author_name"` // Denormalized; repaired on profile edit
	Title      string `gorm:"not null" json:"title"`
	Content    string `gorm:"type:text;not null" json:"content"`
	Article    string `gorm:"type:text" json:"article,omitempty"` // Optional supporting article, markdown
	SourceURL  string `json:"source_url,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	Category   string `gorm:"size:32;index" json:"category,omitempty"`

	AttachmentType string `gorm:"size:8" json:"attachment_type,omitempty"` // file, video or link
	AttachmentURL  string `json:"attachment_url,omitempty"`
	AttachmentName string `json:"attachment_name,omitempty"`

	Upvotes int  `gorm:"default:0" json:"upvotes"`
	Posted  bool `gorm:"default:false" json:"posted"`  // Pushed to the render service
	Special bool `gorm:"default:false" json:"special"` // Keyword/category trigger, cosmetic

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Filled per request, never stored
	ViewerVoted   bool       `gorm:"-" json:"viewer_voted"`
	ViewerVotedAt *time.Time `gorm:"-" json:"viewer_voted_at,omitempty"`
	ArticleHTML   string     `gorm:"-" json:"article_html,omitempty"`
}
