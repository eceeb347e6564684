package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"spurningar/internal/common"
	"spurningar/internal/models"
	"spurningar/internal/utils"
)

// DailyVoteLimit caps positive vote actions per installation per calendar
// day. Retractions are free.
const DailyVoteLimit = 5

// VoteLimiter owns the shared daily vote budget. The budget is keyed by
// install id, not by user: two identities in the same browser session draw
// from the same counter.
type VoteLimiter struct {
	db  *gorm.DB
	now func() time.Time
}

func NewVoteLimiter(db *gorm.DB) *VoteLimiter {
	return &VoteLimiter{db: db, now: time.Now}
}

// load fetches the budget row for an install, creating it on first use and
// rolling the counter over when the stored day is stale. Rollover happens
// on every read, so a row is never served with yesterday's count.
func (l *VoteLimiter) load(tx *gorm.DB, installID string) (*models.VoteBudget, error) {
	today := utils.DayKey(l.now())

	var budget models.VoteBudget
	err := tx.Where("install_id = ?", installID).First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		budget = models.VoteBudget{InstallID: installID, Day: today, Count: 0}
		if err := tx.Create(&budget).Error; err != nil {
			return nil, err
		}
		return &budget, nil
	}
	if err != nil {
		return nil, err
	}

	if budget.Day != today {
		budget.Day = today
		budget.Count = 0
		if err := tx.Save(&budget).Error; err != nil {
			return nil, err
		}
	}
	return &budget, nil
}

// Remaining returns how many positive votes the install has left today.
func (l *VoteLimiter) Remaining(installID string) (int, error) {
	budget, err := l.load(l.db, installID)
	if err != nil {
		return 0, err
	}
	left := DailyVoteLimit - budget.Count
	if left < 0 {
		left = 0
	}
	return left, nil
}

// spend consumes one unit of today's budget inside the caller's
// transaction. The cap check and the increment are one conditional UPDATE,
// so concurrent spends from the same install can never push the counter
// past the limit; a spend that matches no row is exhausted.
func (l *VoteLimiter) spend(tx *gorm.DB, installID string) error {
	budget, err := l.load(tx, installID)
	if err != nil {
		return err
	}

	res := tx.Model(&models.VoteBudget{}).
		Where("install_id = ? AND day = ? AND count < ?", installID, budget.Day, DailyVoteLimit).
		UpdateColumn("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrVoteBudgetExhausted
	}
	return nil
}

// Reset forces the install's counter back to (today, 0). Admin only.
func (l *VoteLimiter) Reset(actor *models.User, installID string) error {
	if actor == nil || !actor.Admin {
		return common.ErrNotAdmin
	}
	budget, err := l.load(l.db, installID)
	if err != nil {
		return err
	}
	budget.Day = utils.DayKey(l.now())
	budget.Count = 0
	return l.db.Save(budget).Error
}

// PruneStale deletes budget rows that have not been touched today. Called
// from the nightly housekeeping job; rollover does not depend on it.
func (l *VoteLimiter) PruneStale() (int64, error) {
	res := l.db.Where("day < ?", utils.DayKey(l.now())).Delete(&models.VoteBudget{})
	return res.RowsAffected, res.Error
}
