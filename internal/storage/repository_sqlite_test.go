package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/combo-chronicle/internal/catalog"
	"github.com/ericogr/combo-chronicle/internal/game"
)

func openTestRepo(t *testing.T) (Repository, catalog.Tables, string) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	dsn := filepath.Join(t.TempDir(), "combo.db")
	db, err := OpenAndMigrate(dsn, cat.Tables())
	require.NoError(t, err)
	return NewSQLiteRepository(db), cat.Tables(), dsn
}

func TestCatalogRoundTrip(t *testing.T) {
	repo, seed, _ := openTestRepo(t)

	tables, err := repo.LoadCatalog()
	require.NoError(t, err)
	assert.Len(t, tables.Skills, len(seed.Skills))
	assert.Len(t, tables.Enemies, len(seed.Enemies))
	assert.Len(t, tables.StarterDeck, len(seed.StarterDeck))

	for i := range seed.Skills {
		assert.Equal(t, seed.Skills[i].Key, tables.Skills[i].Key, "file order is kept")
		assert.Equal(t, seed.Skills[i].Effect, tables.Skills[i].Effect)
	}
	assert.Zero(t, seed.Skills[0].ID, "seeding does not mutate the caller's rows")

	cat, err := catalog.New(tables)
	require.NoError(t, err)
	_, ok := cat.SkillTemplate("training")
	assert.True(t, ok)
}

func TestReseedReplacesCatalog(t *testing.T) {
	_, seed, dsn := openTestRepo(t)

	trimmed := seed
	trimmed.Passives = seed.Passives[:2]
	db, err := OpenAndMigrate(dsn, trimmed)
	require.NoError(t, err)
	repo := NewSQLiteRepository(db)

	passives, err := repo.GetPassives()
	require.NoError(t, err)
	assert.Len(t, passives, 2)

	skills, err := repo.GetSkills()
	require.NoError(t, err)
	assert.Len(t, skills, len(seed.Skills)-1, "filler cards are not listed")
}

func TestRunResults(t *testing.T) {
	repo, _, _ := openTestRepo(t)
	now := time.Now()

	require.NoError(t, repo.SaveRunResult(&game.RunResult{RunID: "a", Outcome: game.StateGameOver, Floor: 4, Gold: 900, FinishedAt: now}))
	require.NoError(t, repo.SaveRunResult(&game.RunResult{RunID: "b", Outcome: game.StateBossVictory, Floor: 7, Gold: 100, FinishedAt: now}))
	require.NoError(t, repo.SaveRunResult(&game.RunResult{RunID: "c", Outcome: game.StateGameOver, Floor: 4, Gold: 200, FinishedAt: now}))
	require.NoError(t, repo.SaveRunResult(&game.RunResult{RunID: "c", Outcome: game.StateGameOver, Floor: 5, Gold: 50, FinishedAt: now}))

	top, err := repo.GetTopRuns(0)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].RunID)
	assert.Equal(t, "c", top[1].RunID)
	assert.Equal(t, 5, top[1].Floor)
	assert.Equal(t, "a", top[2].RunID)

	top, err = repo.GetTopRuns(1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}
