package database

import (
	"fmt"
	"log/slog"

	"github.com/chadillac/order-tracker/internal/auth"
	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/chadillac/order-tracker/pkg/config"
	"gorm.io/gorm"
)

var defaultStages = []models.Stage{
	{Name: "To Do", Position: 1},
	{Name: "In Progress", Position: 2},
	{Name: "Done", Position: 3},
}

var defaultCatalog = []string{"Research", "Design", "Development"}

// Seed installs the first-run lookup data: the three default pipeline
// stages, the default service catalog, and the bootstrap admin account.
// Existing rows are left untouched, so it is safe to call on every start.
func Seed(db *gorm.DB, admin *config.AdminConfig, log *slog.Logger) error {
	var stageCount int64
	if err := db.Model(&models.Stage{}).Count(&stageCount).Error; err != nil {
		return fmt.Errorf("counting stages: %w", err)
	}
	if stageCount == 0 {
		if err := db.Create(&defaultStages).Error; err != nil {
			return fmt.Errorf("seeding stages: %w", err)
		}
		log.Info("seeded default stages", "count", len(defaultStages))
	}

	var catalogCount int64
	if err := db.Model(&models.ServiceCatalogEntry{}).Count(&catalogCount).Error; err != nil {
		return fmt.Errorf("counting catalog entries: %w", err)
	}
	if catalogCount == 0 {
		entries := make([]models.ServiceCatalogEntry, len(defaultCatalog))
		for i, name := range defaultCatalog {
			entries[i] = models.ServiceCatalogEntry{Name: name}
		}
		if err := db.Create(&entries).Error; err != nil {
			return fmt.Errorf("seeding service catalog: %w", err)
		}
		log.Info("seeded service catalog", "count", len(entries))
	}

	if admin == nil || admin.Password == "" {
		return nil
	}

	var adminCount int64
	if err := db.Model(&models.User{}).Where("username = ?", admin.Username).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("counting admin users: %w", err)
	}
	if adminCount == 0 {
		hash, err := auth.HashPassword(admin.Password)
		if err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}
		user := models.User{
			Username:     admin.Username,
			PasswordHash: hash,
			IsAdmin:      true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
		log.Info("created bootstrap admin", "username", admin.Username)
	}

	return nil
}
