package engine

import (
	"github.com/ericogr/combo-chronicle/internal/game"
)

// --- Resolution context ------------------------------------------------

// resolution is the in-flight state of one card play. It lives from Begin
// until the step machine returns to idle.
type resolution struct {
	card game.Skill
	// previous is the card played right before this one, if any.
	previous *game.Skill
	// priorHand holds the ids left in hand when the card was played; only
	// those are discarded at redraw, cards drawn by effects stay.
	priorHand map[string]bool
	// removed are cards the effect took out of play; they follow the played
	// card into the discard pile.
	removed []game.Skill

	suppressed bool
	manaBonus  int
	hasteCost  int
	damage     DamageResult
	burnout    bool
}

// followsAttack reports whether the previous play was an attack card.
func (rc *resolution) followsAttack() bool {
	return rc.previous != nil && rc.previous.IsAttack()
}

// hitShare is the damage attributed to a single repeat of the hit.
func (rc *resolution) hitShare() int {
	if rc.damage.Repeats <= 1 {
		return rc.damage.Total
	}
	return rc.damage.Total / rc.damage.Repeats
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
