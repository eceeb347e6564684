package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"spurningar/internal/common"
	"spurningar/internal/models"
)

// IdentityService manages accounts. Identity is passwordless: accounts are
// created with a name and an optional email, and login resolves by email.
// An email ending in the privileged suffix grants the admin role; the flag
// is upgrade-only and an existing admin can also grant it explicitly.
type IdentityService struct {
	db          *gorm.DB
	adminSuffix string
}

func NewIdentityService(db *gorm.DB, adminSuffix string) *IdentityService {
	return &IdentityService{db: db, adminSuffix: strings.ToLower(adminSuffix)}
}

// isPrivileged applies the email-domain escalation rule.
func (s *IdentityService) isPrivileged(email string) bool {
	if s.adminSuffix == "" || email == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(email), s.adminSuffix)
}

func validEmail(email string) bool {
	return strings.Contains(email, "@")
}

// Create registers a new account. Name is required; email is optional but
// must look like an email when given.
func (s *IdentityService) Create(name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrNameRequired
	}
	if email != "" && !validEmail(email) {
		return nil, common.ErrInvalidEmail
	}

	user := models.User{
		Name:  name,
		Email: email,
		Admin: s.isPrivileged(email),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login resolves an account by email and re-evaluates the escalation rule.
// A newly matching email upgrades the admin flag; a non-matching one never
// downgrades it.
func (s *IdentityService) Login(email string) (*models.User, error) {
	if !validEmail(email) {
		return nil, common.ErrInvalidEmail
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	if !user.Admin && s.isPrivileged(email) {
		user.Admin = true
		if err := s.db.Model(&user).UpdateColumn("admin", true).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// Update edits the profile and repairs the denormalized author name on
// every question and answer the user wrote.
func (s *IdentityService) Update(userID uint, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrNameRequired
	}
	if !validEmail(email) {
		return nil, common.ErrInvalidEmail
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	user.Name = name
	user.Email = email
	if !user.Admin && s.isPrivileged(email) {
		user.Admin = true
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Question{}).
			Where("user_id = ?", userID).
			UpdateColumn("author_name", name).Error; err != nil {
			return err
		}
		return tx.Model(&models.Answer{}).
			Where("user_id = ?", userID).
			UpdateColumn("author_name", name).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Promote grants the admin role to another user. Only admins may call it;
// this is the sanctioned escalation path alongside the domain rule.
func (s *IdentityService) Promote(actor *models.User, targetID uint) error {
	if actor == nil || !actor.Admin {
		return common.ErrNotAdmin
	}
	res := s.db.Model(&models.User{}).Where("id = ?", targetID).UpdateColumn("admin", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrUserNotFound
	}
	return nil
}
