// Package changelog is the append-only audit trail. Every mutating
// operation writes exactly one entry, inside the same transaction as the
// mutation itself, so the log never records an action that did not commit.
package changelog

import (
	"context"

	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record appends one immutable entry using the caller's transaction handle.
// Callers pass the tx from gorm's Transaction closure so the entry commits
// or rolls back with the primary mutation.
func Record(tx *gorm.DB, orderID, userID uuid.UUID, description string) error {
	change := models.Change{
		OrderID:     orderID,
		UserID:      userID,
		Description: description,
	}
	return tx.Create(&change).Error
}

// ListByOrder returns an order's full history, most recent first.
func ListByOrder(ctx context.Context, db *gorm.DB, orderID uuid.UUID) ([]models.Change, error) {
	var changes []models.Change
	if err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}
