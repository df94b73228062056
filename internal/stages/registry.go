// Package stages owns the global pipeline: an ordered list of named stages
// with unique 1-based positions. It is the source of truth for how far
// along a service is.
package stages

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/chadillac/order-tracker/internal/cache"
	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyName     = errors.New("stage name must not be empty")
	ErrStageNotFound = errors.New("stage not found")
)

type Registry struct {
	db     *gorm.DB
	cache  cache.Invalidator
	logger *slog.Logger
}

func NewRegistry(db *gorm.DB, inv cache.Invalidator, logger *slog.Logger) *Registry {
	return &Registry{db: db, cache: inv, logger: logger}
}

// List returns every stage ascending by position. Non-empty after first-run
// seeding.
func (r *Registry) List(ctx context.Context) ([]models.Stage, error) {
	var stages []models.Stage
	if err := r.db.WithContext(ctx).Order("position").Find(&stages).Error; err != nil {
		return nil, err
	}
	return stages, nil
}

// Add appends a stage at the end of the pipeline: position = max + 1, or 1
// when the registry is empty.
func (r *Registry) Add(ctx context.Context, name string) (*models.Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	var stage models.Stage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&models.Stage{}).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}

		stage = models.Stage{Name: name, Position: maxPos + 1}
		return tx.Create(&stage).Error
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("added stage", "id", stage.ID, "name", name, "position", stage.Position)
	r.invalidate(ctx)

	return &stage, nil
}

// Rename updates a stage's display name. Services reference stages by id,
// so every service at this stage reports the new name on the next read and
// progress numbers are untouched.
func (r *Registry) Rename(ctx context.Context, id uuid.UUID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}

	result := r.db.WithContext(ctx).
		Model(&models.Stage{}).
		Where("id = ?", id).
		Update("name", newName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStageNotFound
	}

	r.logger.Info("renamed stage", "id", id, "name", newName)
	r.invalidate(ctx)

	return nil
}

func (r *Registry) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Clear(ctx); err != nil {
		r.logger.Warn("failed to clear view cache", "error", err)
	}
}
