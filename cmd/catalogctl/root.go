package main

import (
	"fmt"

	"feature-catalog-be/internal/bootstrap"
	"feature-catalog-be/internal/config"
	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/logger"
	"feature-catalog-be/pkg/catalog/reference"
	"feature-catalog-be/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Maintenance tool for the feature catalog",
	Long: `catalogctl inspects and maintains the reference dictionaries behind the
feature catalog. It reads the same environment (.env) as the REST server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(referencesCmd)
}

// openReferences connects to the configured store and builds a reference store on it
func openReferences() (*reference.Store, error) {
	cfg := config.Load()

	var db *gorm.DB
	if cfg.Database.Driver != "memory" {
		var err error
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection, database.ParseLogLevel(cfg.Database.LogLevel))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
	}

	factory := bootstrap.NewUnitOfWorkFactory(db, cfg)
	return reference.NewStore(factory, logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)), nil
}

// categoriesArg resolves an optional category name; empty means all five
func categoriesArg(name string) ([]entity.Category, error) {
	if name == "" {
		return entity.Categories, nil
	}
	category, err := entity.ParseCategory(name)
	if err != nil {
		return nil, err
	}
	return []entity.Category{category}, nil
}
