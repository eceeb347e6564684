package models

import (
	"time"
)

// VoteBudget is the shared daily budget of positive vote actions. It is
// keyed by installation, not by user: every identity acting from the same
// browser session draws from the same counter. Count resets lazily when
// Day no longer matches the current calendar date.
type VoteBudget struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	InstallID string    `gorm:"uniqueIndex;size:36;not null" json:"-"`
	Day       string    `gorm:"size:10;not null" json:"day"` // YYYY-MM-DD
	Count     int       `gorm:"default:0" json:"count"`
	UpdatedAt time.Time `json:"-"`
}
