package engine

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/ericogr/combo-chronicle/internal/game"
)

// Catalog is the read-only content the engine needs while resolving cards.
type Catalog interface {
	BuffDefinition(key string) (game.BuffDefinition, bool)
	SkillTemplate(key string) (game.SkillTemplate, bool)
}

// SlashKey is the catalog key of the filler card injected by add_slash_to_deck.
const SlashKey = "slash"

// Rejection explains why an action was refused. Refusals are no-ops.
type Rejection string

const (
	RejectNone           Rejection = ""
	RejectNotPlaying     Rejection = "not_playing"
	RejectNoHaste        Rejection = "no_haste"
	RejectEnemyAttacking Rejection = "enemy_attacking"
	RejectDeadlineNotice Rejection = "deadline_notice"
	RejectResolving      Rejection = "card_resolving"
	RejectCardNotInHand  Rejection = "card_not_in_hand"
	RejectNotEnoughMana  Rejection = "not_enough_mana"
)

// Outcome is returned by every player action on the machine.
type Outcome struct {
	Accepted  bool          `json:"accepted"`
	Reason    Rejection     `json:"reason,omitempty"`
	// HasteCost is the haste the played card actually consumed.
	HasteCost int           `json:"haste_cost"`
	Damage    *DamageResult `json:"damage,omitempty"`
	Summary   []string      `json:"summary,omitempty"`
}

func rejected(r Rejection) Outcome { return Outcome{Reason: r} }

// Machine is the turn/battle state machine for one run. It is the single
// owner of the run's battle state; callers must not mutate it directly.
type Machine struct {
	run *game.Run
	cat Catalog
	rng *rand.Rand

	rc         *resolution
	summary    []string
	lastDamage *DamageResult
}

// New builds a machine over run. rng drives shuffles and burnout rolls.
func New(run *game.Run, cat Catalog, rng *rand.Rand) *Machine {
	return &Machine{run: run, cat: cat, rng: rng}
}

// Run returns the run the machine owns.
func (m *Machine) Run() *game.Run { return m.run }

// MaxHaste derives the current deadline from passives and buffs.
func (m *Machine) MaxHaste() int {
	total := game.BaseMaxHaste + m.run.PassiveTotal(game.PassiveMaxHaste)
	if b := m.run.Battle; b != nil {
		total += DeathmarchHaste(Stacks(b.Buffs, game.BuffDeathmarch))
		total += Stacks(b.Buffs, game.BuffDeadlineExtend)
	}
	return total
}

// HasteLeft is the haste remaining before the deadline check fires.
func (m *Machine) HasteLeft() int {
	if m.run.Battle == nil {
		return 0
	}
	return maxInt(0, m.MaxHaste()-m.run.Battle.HasteUsed)
}

// StartBattle sets up a fresh battle for the run's current enemy: the
// permanent deck is shuffled into the draw pile, mana is refilled and the
// opening hand is drawn.
func (m *Machine) StartBattle() {
	b := &game.Battle{Step: game.StepIdle}
	b.DrawPile = append([]game.Skill(nil), m.run.Deck...)
	m.run.Battle = b
	b.Mana = m.run.MaxMana()
	Shuffle(m.rng, b.DrawPile)
	Draw(b, m.rng, m.run.HandSize())
	m.rc = nil
	m.summary = nil
	m.lastDamage = nil
}

func (m *Machine) add(msg string) { m.summary = append(m.summary, msg) }

// guard returns why a new action cannot start right now.
func (m *Machine) guard() Rejection {
	b := m.run.Battle
	if m.run.State != game.StatePlaying || b == nil {
		return RejectNotPlaying
	}
	switch b.Step {
	case game.StepIdle:
	case game.StepEnemyAttack:
		return RejectEnemyAttacking
	case game.StepDeadlineNotice:
		return RejectDeadlineNotice
	default:
		return RejectResolving
	}
	if b.HasteUsed >= m.MaxHaste() {
		return RejectNoHaste
	}
	return RejectNone
}

// Begin commits cardID for resolution and locks the battle. The play is
// then advanced step by step with Advance, or all at once by PlayCard.
func (m *Machine) Begin(cardID string) Outcome {
	if r := m.guard(); r != RejectNone {
		return rejected(r)
	}
	b := m.run.Battle
	i := game.IndexOfSkill(b.Hand, cardID)
	if i < 0 {
		return rejected(RejectCardNotInHand)
	}
	card := b.Hand[i]
	suppressed := card.Effect != nil && card.IsSupport() && m.run.SupportEffectsDisabled()
	_, consumesMana := card.Effect.(game.ManaConsumeDamage)
	if (!consumesMana || suppressed) && b.Mana < card.ManaCost {
		return rejected(RejectNotEnoughMana)
	}

	rc := &resolution{card: card, suppressed: suppressed, priorHand: map[string]bool{}}
	if b.LastPlayed != nil {
		prev := *b.LastPlayed
		rc.previous = &prev
	}
	b.Hand, _, _ = removeFromPile(b.Hand, cardID)
	b.DrawPile, _, _ = removeFromPile(b.DrawPile, cardID)
	for _, c := range b.Hand {
		rc.priorHand[c.ID] = true
	}

	m.rc = rc
	m.summary = nil
	m.lastDamage = nil
	b.Step = game.StepPayCost
	m.add("Played " + card.Name)
	return Outcome{Accepted: true}
}

// PlayCard resolves cardID completely: cost, damage, effects, discard,
// redraw and the deadline check.
func (m *Machine) PlayCard(cardID string) Outcome {
	out := m.Begin(cardID)
	if !out.Accepted {
		return out
	}
	rc := m.rc
	m.Finish()
	out.HasteCost = rc.hasteCost
	out.Damage = m.lastDamage
	out.Summary = m.run.Battle.LastSummary
	return out
}

// BeginRest spends RestHaste haste and moves straight to the deadline check.
func (m *Machine) BeginRest() Outcome {
	if r := m.guard(); r != RejectNone {
		return rejected(r)
	}
	b := m.run.Battle
	m.rc = nil
	m.summary = nil
	m.lastDamage = nil
	b.HasteUsed += game.RestHaste
	m.add(fmt.Sprintf("Rested: +%d haste", game.RestHaste))
	b.Step = game.StepDeadline
	return Outcome{Accepted: true}
}

// Rest is BeginRest driven to completion.
func (m *Machine) Rest() Outcome {
	out := m.BeginRest()
	if !out.Accepted {
		return out
	}
	m.Finish()
	out.Summary = m.run.Battle.LastSummary
	return out
}

// Finish drives any in-flight resolution back to idle.
func (m *Machine) Finish() {
	for m.Advance() {
	}
}

// Summary joins the last resolution summary into one string.
func (m *Machine) Summary() string {
	if m.run.Battle == nil {
		return ""
	}
	return strings.Join(m.run.Battle.LastSummary, "\n")
}
