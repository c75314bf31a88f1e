package storage

import (
	"github.com/ericogr/combo-chronicle/internal/catalog"
	"github.com/ericogr/combo-chronicle/internal/game"
)

type Repository interface {
	// LoadCatalog reads every catalog table back in insertion order.
	LoadCatalog() (catalog.Tables, error)
	GetSkills() ([]game.SkillTemplate, error)
	GetEnemies() ([]game.Enemy, error)
	GetPassives() ([]game.Passive, error)
	// SaveRunResult records a finished run. Saving the same run twice
	// updates the existing row.
	SaveRunResult(r *game.RunResult) error
	// GetTopRuns returns the best finished runs: boss victories first, then
	// by floor reached and gold.
	GetTopRuns(limit int) ([]game.RunResult, error)
}
