package services

import (
	"gorm.io/gorm"

	"spurningar/internal/models"
)

// ContributionThreshold is the number of combined questions and answers a
// user must author before browsing unlocks.
const ContributionThreshold = 3

// ContributionTracker computes the browsing-unlock flag. Items are counted
// after they are committed, for questions and answers alike, and the flag
// latches: later deletions never re-lock a user.
type ContributionTracker struct {
	db *gorm.DB
}

func NewContributionTracker(db *gorm.DB) *ContributionTracker {
	return &ContributionTracker{db: db}
}

// Recheck re-evaluates the unlock rule for a user and persists the flag
// when the threshold is reached. Returns the current state.
func (t *ContributionTracker) Recheck(userID uint) (bool, error) {
	var user models.User
	if err := t.db.First(&user, userID).Error; err != nil {
		return false, err
	}
	if user.BrowsingUnlocked {
		// Latched; deletions after the fact are irrelevant
		return true, nil
	}

	var questions, answers int64
	if err := t.db.Model(&models.Question{}).Where("user_id = ?", userID).Count(&questions).Error; err != nil {
		return false, err
	}
	if err := t.db.Model(&models.Answer{}).Where("user_id = ?", userID).Count(&answers).Error; err != nil {
		return false, err
	}

	if questions+answers < ContributionThreshold {
		return false, nil
	}

	err := t.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("browsing_unlocked", true).Error
	if err != nil {
		return false, err
	}
	return true, nil
}
