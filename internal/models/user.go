package models

import (
	"time"
)

type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`          // Display name, can be edited
	Email string `gorm:"index;default:''" json:"email"` // Optional; login key when set
	Admin bool   `gorm:"default:false" json:"admin"`    // Derived from email suffix or explicit grant
	// BrowsingUnlocked latches once the user has contributed 3 items
	// (questions + answers combined). It never reverts, even after deletions.
	BrowsingUnlocked bool      `gorm:"default:false" json:"browsing_unlocked"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	// No DeletedAt: accounts are never deleted in-session
}
