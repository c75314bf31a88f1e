package engine

import (
	"math/rand"

	"github.com/ericogr/combo-chronicle/internal/game"
)

// Shuffle permutes pile in place (Fisher-Yates).
func Shuffle(rng *rand.Rand, pile []game.Skill) {
	for i := len(pile) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		pile[i], pile[j] = pile[j], pile[i]
	}
}

// Draw moves up to n cards from the draw pile into the hand and returns the
// cards drawn. When the draw pile is short, the discard pile minus filler
// cards is shuffled in first; that starts a fresh cycle, so the combo stack
// is cleared.
func Draw(b *game.Battle, rng *rand.Rand, n int) []game.Skill {
	if n <= 0 {
		return nil
	}
	if len(b.DrawPile) < n && len(b.DiscardPile) > 0 {
		Reshuffle(b, rng)
	}
	if n > len(b.DrawPile) {
		n = len(b.DrawPile)
	}
	drawn := make([]game.Skill, n)
	copy(drawn, b.DrawPile[:n])
	b.DrawPile = append(b.DrawPile[:0], b.DrawPile[n:]...)
	b.Hand = append(b.Hand, drawn...)
	return drawn
}

// Reshuffle recycles the discard pile into the draw pile. Filler cards are
// dropped for good.
func Reshuffle(b *game.Battle, rng *rand.Rand) {
	recycled := make([]game.Skill, 0, len(b.DiscardPile))
	for _, c := range b.DiscardPile {
		if !c.Filler {
			recycled = append(recycled, c)
		}
	}
	Shuffle(rng, recycled)
	b.DrawPile = append(b.DrawPile, recycled...)
	b.DiscardPile = nil
	b.ComboStack = nil
	b.ComboPower = 0
}

// removeFromPile removes the card with id and reports whether it was found.
func removeFromPile(pile []game.Skill, id string) ([]game.Skill, game.Skill, bool) {
	i := game.IndexOfSkill(pile, id)
	if i < 0 {
		return pile, game.Skill{}, false
	}
	card := pile[i]
	return append(pile[:i], pile[i+1:]...), card, true
}
