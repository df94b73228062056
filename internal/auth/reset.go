package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrResetNotFound = errors.New("reset request not found")
	ErrResetApproved = errors.New("reset request already approved")
)

// RequestReset creates a pending password-reset request for the named user.
// The generated temporary credential is returned exactly once; only its
// bcrypt hash is persisted.
func (s *Service) RequestReset(ctx context.Context, username string) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	tempPassword := generateTempPassword()
	hash, err := HashPassword(tempPassword)
	if err != nil {
		return "", err
	}

	reset := models.PasswordReset{
		UserID:      user.ID,
		TempHash:    hash,
		RequestedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&reset).Error; err != nil {
		return "", err
	}

	return tempPassword, nil
}

// ApproveReset replaces the user's credential with the hash of the
// temporary one and marks the request approved, in one transaction.
func (s *Service) ApproveReset(ctx context.Context, resetID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordReset
		if err := tx.First(&reset, resetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResetNotFound
			}
			return err
		}
		if reset.Approved {
			return ErrResetApproved
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", reset.UserID).
			Update("password_hash", reset.TempHash).Error; err != nil {
			return err
		}

		return tx.Model(&reset).Update("approved", true).Error
	})
}

// PendingResets lists unapproved requests, oldest first, with the
// requesting user preloaded for display.
func (s *Service) PendingResets(ctx context.Context) ([]models.PasswordReset, error) {
	var resets []models.PasswordReset
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("approved = ?", false).
		Order("requested_at").
		Find(&resets).Error; err != nil {
		return nil, err
	}
	return resets, nil
}

// Temporary credentials mirror the original 8-character format.
func generateTempPassword() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
