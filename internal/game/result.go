package game

import (
	"time"

	"gorm.io/gorm"
)

// RunResult is the record kept for a finished run. Runs themselves are not
// persisted; only their outcome feeds the leaderboard.
type RunResult struct {
	gorm.Model `json:"-"`
	RunID      string    `json:"run_id" gorm:"uniqueIndex"`
	Outcome    GameState `json:"outcome"`
	Floor      int       `json:"floor"`
	Gold       int       `json:"gold"`
	Employees  int       `json:"employees"`
	DeckSize   int       `json:"deck_size"`
	Passives   int       `json:"passives"`
	FinishedAt time.Time `json:"finished_at"`
}

func (RunResult) TableName() string { return "run_results" }

// Finished reports whether s ends a run.
func (s GameState) Finished() bool {
	return s == StateGameOver || s == StateBossVictory
}

// Result summarizes r for the leaderboard.
func (r *Run) Result(now time.Time) RunResult {
	return RunResult{
		RunID:      r.ID,
		Outcome:    r.State,
		Floor:      r.Floor,
		Gold:       r.Gold,
		Employees:  r.Employees,
		DeckSize:   len(r.Deck),
		Passives:   len(r.Passives),
		FinishedAt: now,
	}
}
