package main

import (
	"github.com/ericogr/combo-chronicle/internal/catalog"
	"github.com/ericogr/combo-chronicle/internal/config"
	"github.com/ericogr/combo-chronicle/internal/logging"
	"github.com/ericogr/combo-chronicle/internal/storage"
)

func loadConfigOrExit(path string) *config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid combo configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	logging.Setup(logging.Options{
		Level:          cfg.Log.Level,
		FilePath:       cfg.Log.File,
		FileMaxSizeMB:  cfg.Log.MaxSizeMB,
		FileMaxBackups: cfg.Log.MaxBackups,
		FileMaxAgeDays: cfg.Log.MaxAgeDays,
	})
}

// loadCatalogOrExit reads the catalog files from dir, or the embedded
// catalog when dir is empty.
func loadCatalogOrExit(dir string) *catalog.Catalog {
	var (
		cat *catalog.Catalog
		err error
	)
	if dir == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.LoadDir(dir)
	}
	if err != nil {
		logging.Fatal("Failed to load catalog", err, logging.Fields{"dir": dir})
	}
	return cat
}

func createRepositoryOrExit(dbPath string, seed catalog.Tables) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath, seed)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": dbPath})
	}
	return storage.NewSQLiteRepository(db)
}

// reloadCatalogOrExit builds the runtime catalog from the seeded database.
func reloadCatalogOrExit(repo storage.Repository) *catalog.Catalog {
	tables, err := repo.LoadCatalog()
	if err != nil {
		logging.Fatal("Failed to read catalog from database", err, nil)
	}
	cat, err := catalog.New(tables)
	if err != nil {
		logging.Fatal("Catalog in database is invalid", err, nil)
	}
	return cat
}
