package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ericogr/combo-chronicle/internal/catalog"
	"github.com/ericogr/combo-chronicle/internal/game"
	"github.com/ericogr/combo-chronicle/internal/logging"
)

// catalogModels are the tables rebuilt from the catalog files on startup.
var catalogModels = []interface{}{
	&game.SkillTemplate{},
	&game.Enemy{},
	&game.Trait{},
	&game.Passive{},
	&game.BuffDefinition{},
	&game.StarterDeckEntry{},
}

// OpenAndMigrate opens the SQLite database, migrates every table and
// replaces the catalog tables with seed. The catalog files stay the source
// of truth; the database serves listings and the reloaded catalog.
func OpenAndMigrate(dataSourceName string, seed catalog.Tables) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	models := append(append([]interface{}{}, catalogModels...), &game.RunResult{})
	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}
	if err := seedCatalog(db, seed); err != nil {
		return nil, err
	}
	return db, nil
}

func seedCatalog(db *gorm.DB, t catalog.Tables) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range catalogModels {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error; err != nil {
				return err
			}
		}
		if err := createAll(tx, t.Buffs); err != nil {
			return err
		}
		if err := createAll(tx, t.Traits); err != nil {
			return err
		}
		if err := createAll(tx, t.Skills); err != nil {
			return err
		}
		if err := createAll(tx, t.Enemies); err != nil {
			return err
		}
		if err := createAll(tx, t.Passives); err != nil {
			return err
		}
		if err := createAll(tx, t.StarterDeck); err != nil {
			return err
		}
		logging.Info("catalog seeded", logging.Fields{
			"skills":   len(t.Skills),
			"enemies":  len(t.Enemies),
			"passives": len(t.Passives),
			"buffs":    len(t.Buffs),
		})
		return nil
	})
}

// createAll inserts copies of rows so primary keys assigned by the database
// do not leak back into the caller's tables.
func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	cp := append([]T(nil), rows...)
	return tx.Create(&cp).Error
}
