package db

import (
	"catalog/internal/domain/model"

	"gorm.io/gorm"
)

// Migrate は categories / products / product_categories / audit_logs を作る
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.AuditLog{},
	)
}
