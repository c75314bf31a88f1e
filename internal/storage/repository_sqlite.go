package storage

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericogr/combo-chronicle/internal/catalog"
	"github.com/ericogr/combo-chronicle/internal/game"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) LoadCatalog() (catalog.Tables, error) {
	var t catalog.Tables
	if err := r.db.Order("id").Find(&t.Skills).Error; err != nil {
		return catalog.Tables{}, err
	}
	if err := r.db.Order("id").Find(&t.Enemies).Error; err != nil {
		return catalog.Tables{}, err
	}
	if err := r.db.Order("id").Find(&t.Traits).Error; err != nil {
		return catalog.Tables{}, err
	}
	if err := r.db.Order("id").Find(&t.Passives).Error; err != nil {
		return catalog.Tables{}, err
	}
	if err := r.db.Order("id").Find(&t.Buffs).Error; err != nil {
		return catalog.Tables{}, err
	}
	if err := r.db.Order("id").Find(&t.StarterDeck).Error; err != nil {
		return catalog.Tables{}, err
	}
	return t, nil
}

// GetSkills lists the skills a player can collect. Filler cards are left
// out.
func (r *sqliteRepository) GetSkills() ([]game.SkillTemplate, error) {
	var skills []game.SkillTemplate
	if err := r.db.Where("filler = ?", false).Order("id").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *sqliteRepository) GetEnemies() ([]game.Enemy, error) {
	var enemies []game.Enemy
	if err := r.db.Order("floor_min").Order("id").Find(&enemies).Error; err != nil {
		return nil, err
	}
	return enemies, nil
}

func (r *sqliteRepository) GetPassives() ([]game.Passive, error) {
	var passives []game.Passive
	if err := r.db.Order("tier").Order("id").Find(&passives).Error; err != nil {
		return nil, err
	}
	return passives, nil
}

func (r *sqliteRepository) SaveRunResult(res *game.RunResult) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "run_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"outcome", "floor", "gold", "employees", "deck_size", "passives", "finished_at", "updated_at"}),
	}).Create(res).Error
}

// GetTopRuns returns top N runs ordered by victory, floor and gold.
func (r *sqliteRepository) GetTopRuns(limit int) ([]game.RunResult, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []game.RunResult
	if err := r.db.Model(&game.RunResult{}).
		Order("CASE WHEN outcome = 'BOSS_VICTORY' THEN 0 ELSE 1 END").
		Order("floor DESC").
		Order("gold DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
