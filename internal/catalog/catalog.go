// Package catalog manages the two admin-maintained lookup sets: the service
// catalog (names selectable when adding a service to an order) and the
// custom contact field definitions.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/chadillac/order-tracker/internal/cache"
	"github.com/chadillac/order-tracker/internal/database/models"
	"gorm.io/gorm"
)

var ErrEmptyName = errors.New("name must not be empty")

type Service struct {
	db     *gorm.DB
	cache  cache.Invalidator
	logger *slog.Logger
}

func NewService(db *gorm.DB, inv cache.Invalidator, logger *slog.Logger) *Service {
	return &Service{db: db, cache: inv, logger: logger}
}

func (s *Service) ListEntries(ctx context.Context) ([]models.ServiceCatalogEntry, error) {
	var entries []models.ServiceCatalogEntry
	if err := s.db.WithContext(ctx).Order("name").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) AddEntry(ctx context.Context, name string) (*models.ServiceCatalogEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	entry := models.ServiceCatalogEntry{Name: name}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}

	s.logger.Info("added catalog entry", "id", entry.ID, "name", name)
	s.invalidate(ctx)

	return &entry, nil
}

func (s *Service) ListFields(ctx context.Context) ([]models.CustomFieldDefinition, error) {
	var fields []models.CustomFieldDefinition
	if err := s.db.WithContext(ctx).Order("created_at").Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (s *Service) AddField(ctx context.Context, name string) (*models.CustomFieldDefinition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	field := models.CustomFieldDefinition{Name: name}
	if err := s.db.WithContext(ctx).Create(&field).Error; err != nil {
		return nil, err
	}

	s.logger.Info("added custom field", "id", field.ID, "name", name)
	s.invalidate(ctx)

	return &field, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear view cache", "error", err)
	}
}
