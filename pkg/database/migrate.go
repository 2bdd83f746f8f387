package database

import (
	"fmt"
	"log"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/model"

	"gorm.io/gorm"
)

// MigrateCatalog creates or upgrades the catalog schema. It is idempotent.
func MigrateCatalog(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	if err := db.AutoMigrate(&model.FeatureRecord{}, &model.ReferenceSequence{}); err != nil {
		return fmt.Errorf("automigrate catalog tables: %w", err)
	}

	// One dictionary table per category, same shape
	for _, category := range entity.Categories {
		table := category.TableName()
		if err := db.Table(table).AutoMigrate(&model.ReferenceEntity{}); err != nil {
			return fmt.Errorf("automigrate %s: %w", table, err)
		}

		statements := []string{
			// at most one active row per name; inactive history is unconstrained
			fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS ux_%[1]s_active_name ON %[1]s (name) WHERE is_active;`, table),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS ix_%[1]s_name ON %[1]s (name, updated_at DESC);`, table),
			// counters must never fall behind rows that already exist
			fmt.Sprintf(`INSERT INTO reference_sequences (category, last_id)
				SELECT '%[2]s', COALESCE(MAX(id), 0) FROM %[1]s
				ON CONFLICT (category)
				DO UPDATE SET last_id = GREATEST(reference_sequences.last_id, EXCLUDED.last_id);`, table, category.String()),
		}
		for _, sql := range statements {
			if err := db.Exec(sql).Error; err != nil {
				return fmt.Errorf("prepare %s: %w", table, err)
			}
		}
	}
	return nil
}
