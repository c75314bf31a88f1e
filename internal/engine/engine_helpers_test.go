package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericogr/combo-chronicle/internal/game"
)

type fakeCatalog struct {
	buffs  map[string]game.BuffDefinition
	skills map[string]game.SkillTemplate
}

func (f fakeCatalog) BuffDefinition(key string) (game.BuffDefinition, bool) {
	d, ok := f.buffs[key]
	return d, ok
}

func (f fakeCatalog) SkillTemplate(key string) (game.SkillTemplate, bool) {
	s, ok := f.skills[key]
	return s, ok
}

// fixedSource makes every random draw return the same value. With v = 0
// every burnout roll succeeds; with v = 1<<62 Float64 is 0.5.
type fixedSource struct{ v int64 }

func (s fixedSource) Int63() int64 { return s.v }
func (fixedSource) Seed(int64)     {}

func attack(id string, base, delay int) game.Skill {
	return game.Skill{ID: id, TemplateKey: "atk", Name: "Attack " + id, Category: game.CategoryAttack,
		BaseDamage: base, Delay: delay, Multiplier: 1}
}

func support(id string, delay int, eff game.Effect) game.Skill {
	return game.Skill{ID: id, TemplateKey: "sup", Name: "Support " + id, Category: game.CategorySupport,
		Delay: delay, Multiplier: 1, Effect: eff}
}

func fillerDeck(n int) []game.Skill {
	out := make([]game.Skill, n)
	for i := range out {
		out[i] = attack(fmt.Sprintf("f%d", i), 1, 1)
	}
	return out
}

func newRun(deck []game.Skill, quota int) *game.Run {
	return &game.Run{
		ID:        "run-1",
		State:     game.StatePlaying,
		Floor:     1,
		Life:      game.StartingLife,
		Employees: game.StartingEmployees,
		Deck:      deck,
		Enemy:     &game.Enemy{Key: "intern", Name: "Intern", Quota: quota, DropTier: game.DropNone},
	}
}

func newMachine(t *testing.T, run *game.Run, src rand.Source) *Machine {
	t.Helper()
	if src == nil {
		src = rand.NewSource(1)
	}
	m := New(run, fakeCatalog{}, rand.New(src))
	m.StartBattle()
	require.NotNil(t, run.Battle)
	return m
}

// playFromHand swaps id into the hand when the shuffle left it in the draw
// pile, so tests can play a specific card without changing pile sizes.
func playFromHand(t *testing.T, m *Machine, id string) Outcome {
	t.Helper()
	b := m.Run().Battle
	if game.IndexOfSkill(b.Hand, id) < 0 {
		i := game.IndexOfSkill(b.DrawPile, id)
		require.GreaterOrEqual(t, i, 0, "card %s not found", id)
		require.NotEmpty(t, b.Hand)
		b.Hand[0], b.DrawPile[i] = b.DrawPile[i], b.Hand[0]
	}
	return m.PlayCard(id)
}

// playFromPiles moves id into the hand from whichever pile holds it, then
// plays it. Discard pile order is otherwise left alone.
func playFromPiles(t *testing.T, m *Machine, id string) Outcome {
	t.Helper()
	b := m.Run().Battle
	if game.IndexOfSkill(b.Hand, id) < 0 {
		moved := false
		for _, pile := range []*[]game.Skill{&b.DrawPile, &b.DiscardPile} {
			if i := game.IndexOfSkill(*pile, id); i >= 0 {
				b.Hand = append(b.Hand, (*pile)[i])
				*pile = append((*pile)[:i], (*pile)[i+1:]...)
				moved = true
				break
			}
		}
		require.True(t, moved, "card %s not found", id)
	}
	return m.PlayCard(id)
}

func ids(pile []game.Skill) []string {
	out := make([]string, len(pile))
	for i, c := range pile {
		out[i] = c.ID
	}
	return out
}
