// Package progression drives a run between battles: level setup, reward
// screens, the shop and restarts. Battles themselves are resolved by the
// engine machine the flow owns.
package progression

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/engine"
	"github.com/ericogr/combo-chronicle/internal/game"
	"github.com/ericogr/combo-chronicle/internal/logging"
)

var (
	ErrWrongState    = errors.New("action not allowed in current state")
	ErrNotEnoughGold = errors.New("not enough gold")
	ErrNotOffered    = errors.New("item not offered")
	ErrUnknownCard   = errors.New("card not in deck")
	ErrLastCard      = errors.New("cannot remove the last card")
)

// Content is the catalog surface a run needs.
type Content interface {
	engine.Catalog
	EnemyForFloor(floor int) (game.Enemy, *game.Trait, error)
	MaxFloor() int
	Rewardable() []game.SkillTemplate
	PassivesUpTo(tier game.PassiveTier) []game.Passive
	NewCard(key string) (game.Skill, error)
	StarterDeck() ([]game.Skill, error)
}

// Flow is one run and the machine resolving its battles. It is not safe for
// concurrent use.
type Flow struct {
	cat Content
	rng *rand.Rand
	run *game.Run
	m   *engine.Machine
}

// NewRun starts a fresh run on floor 1 with the starter deck.
func NewRun(cat Content, rng *rand.Rand) (*Flow, error) {
	f := &Flow{cat: cat, rng: rng}
	if err := f.reset(uuid.NewString()); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Flow) reset(id string) error {
	deck, err := f.cat.StarterDeck()
	if err != nil {
		return fmt.Errorf("starter deck: %w", err)
	}
	f.run = &game.Run{
		ID:        id,
		State:     game.StateStart,
		Life:      game.StartingLife,
		Employees: game.StartingEmployees,
		Deck:      deck,
	}
	f.m = engine.New(f.run, f.cat, f.rng)
	return f.StartLevel(1)
}

// ID is the run identifier. It survives restarts.
func (f *Flow) ID() string { return f.run.ID }

// Run exposes the underlying run for read access.
func (f *Flow) Run() *game.Run { return f.run }

// State is the current game-state tag.
func (f *Flow) State() game.GameState { return f.run.State }

// Snapshot returns the presentation view of the run.
func (f *Flow) Snapshot() engine.View { return f.m.Snapshot() }

// StartLevel sets up the battle for floor. It is only valid at the start of
// a run or from the shop.
func (f *Flow) StartLevel(floor int) error {
	r := f.run
	if r.State != game.StateStart && r.State != game.StateShop {
		return ErrWrongState
	}
	enemy, trait, err := f.cat.EnemyForFloor(floor)
	if err != nil {
		return err
	}
	r.Floor = floor
	r.Enemy = &enemy
	r.Trait = trait
	r.RewardQueue = nil
	r.CardOffers = nil
	r.PassiveOffers = nil
	r.ShopCards = nil
	r.ShopPassives = nil
	r.State = game.StatePlaying
	f.m.StartBattle()

	fields := logging.Fields{
		constants.LogFieldRunID: r.ID,
		constants.LogFieldFloor: floor,
		constants.LogFieldEnemy: enemy.Key,
	}
	if trait != nil {
		fields["trait"] = trait.Key
	}
	logging.Info("level started", fields)
	return nil
}

// PlayCard resolves cardID completely.
func (f *Flow) PlayCard(cardID string) (engine.Outcome, error) {
	out := f.m.PlayCard(cardID)
	return out, f.afterBattle(out.Accepted)
}

// Begin commits cardID without resolving it. Advance drives it.
func (f *Flow) Begin(cardID string) engine.Outcome {
	return f.m.Begin(cardID)
}

// Rest spends rest haste and runs the deadline check.
func (f *Flow) Rest() (engine.Outcome, error) {
	out := f.m.Rest()
	return out, f.afterBattle(out.Accepted)
}

// Advance runs one resolution step. It reports whether the battle is still
// resolving.
func (f *Flow) Advance() (bool, error) {
	if f.run.State != game.StatePlaying || f.run.Battle == nil {
		return false, ErrWrongState
	}
	more := f.m.Advance()
	if more {
		return true, nil
	}
	return false, f.afterBattle(true)
}

// afterBattle turns a won battle into the reward flow. Clearing the last
// floor ends the run even when the enemy is not flagged as a boss.
func (f *Flow) afterBattle(changed bool) error {
	r := f.run
	if !changed || r.State == game.StatePlaying {
		return nil
	}
	switch r.State {
	case game.StateGameOver:
		logging.Info("run lost", logging.Fields{
			constants.LogFieldRunID: r.ID,
			constants.LogFieldFloor: r.Floor,
			constants.LogFieldGold:  r.Gold,
		})
		return nil
	case game.StateBossVictory:
		f.logVictory()
		return nil
	case game.StateCardReward, game.StateAbilityReward:
		if r.Floor >= f.cat.MaxFloor() {
			r.RewardQueue = nil
			r.State = game.StateBossVictory
			f.logVictory()
			return nil
		}
		logging.Info("level cleared", logging.Fields{
			constants.LogFieldRunID: r.ID,
			constants.LogFieldFloor: r.Floor,
			constants.LogFieldGold:  r.Gold,
		})
		return f.OpenNextReward()
	}
	return nil
}

func (f *Flow) logVictory() {
	logging.Info("run won", logging.Fields{
		constants.LogFieldRunID: f.run.ID,
		constants.LogFieldFloor: f.run.Floor,
		constants.LogFieldGold:  f.run.Gold,
	})
}

// Restart begins a new run under the same id. Only finished runs restart.
func (f *Flow) Restart() error {
	if !f.run.State.Finished() {
		return ErrWrongState
	}
	return f.reset(f.run.ID)
}
