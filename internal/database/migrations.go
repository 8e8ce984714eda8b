package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by ownership filtering (postgres only)
func AddIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		logrus.Debugf("Skipping index creation for %s", db.Dialector.Name())
		return nil
	}

	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Ownership lookups
		{"clients", "idx_clients_user_deleted", "user_id, deleted"},
		{"clients", "idx_clients_company_deleted", "company, deleted"},
		{"projects", "idx_projects_user_deleted", "user_id, deleted"},
		{"projects", "idx_projects_company_deleted", "company, deleted"},

		// Delivery notes are listed per owner
		{"albaranes", "idx_albaranes_user_deleted", "user_id, deleted"},
		{"albaranes", "idx_albaranes_workdate", "workdate"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			logrus.Debugf("Index %s already exists, skipping", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logrus.Infof("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
