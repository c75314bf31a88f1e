package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EffectTrigger tells when an effect fires. Per-hit effects use TriggerOnHit.
type EffectTrigger string

const (
	TriggerOnPlay EffectTrigger = "on_play"
	TriggerOnHit  EffectTrigger = "on_hit"
)

// EffectKind is the discriminator of the Effect sum type.
type EffectKind string

const (
	EffectLifesteal              EffectKind = "lifesteal"
	EffectMagicLifesteal         EffectKind = "magic_lifesteal"
	EffectPoison                 EffectKind = "poison"
	EffectManaRecovery           EffectKind = "mana_recovery"
	EffectAddBuff                EffectKind = "add_buff"
	EffectAddStrength            EffectKind = "add_strength"
	EffectAddParry               EffectKind = "add_parry"
	EffectAddTime                EffectKind = "add_time"
	EffectDoubleStrength         EffectKind = "double_strength"
	EffectAddSlashToDeck         EffectKind = "add_slash_to_deck"
	EffectAddCopyToDeck          EffectKind = "add_copy_to_deck"
	EffectClearBuffs             EffectKind = "clear_buffs"
	EffectCostGoldPercent        EffectKind = "cost_gold_percent"
	EffectPermanentPowerUp       EffectKind = "permanent_power_up"
	EffectDraw                   EffectKind = "draw"
	EffectDiscardMagicMana       EffectKind = "discard_magic_mana"
	EffectDiscardRedraw          EffectKind = "discard_redraw"
	EffectPhysicalChainHasteDraw EffectKind = "physical_chain_haste_draw"
	EffectManaConsumeDamage      EffectKind = "mana_consume_damage"
	EffectDeckSlashBonus         EffectKind = "deck_slash_bonus"
	EffectEnemyDamageTaken       EffectKind = "enemy_damage_taken"
)

// EffectSpec is the loosely typed catalog form of an effect. It only exists
// at the catalog boundary; the engine works with the compiled Effect.
type EffectSpec struct {
	Type    string            `json:"type,omitempty"`
	Trigger EffectTrigger     `json:"trigger,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

// Empty reports whether the spec carries no effect.
func (s EffectSpec) Empty() bool { return strings.TrimSpace(s.Type) == "" }

// String renders the spec in catalog notation, e.g. "draw(count=2)".
func (s EffectSpec) String() string {
	if s.Empty() {
		return "none"
	}
	return s.Type + "(" + formatEffectParams(s.Params) + ")"
}

// Effect is a closed sum type: only the variants declared in this file
// implement it.
type Effect interface {
	Kind() EffectKind
	isEffect()
}

type (
	// Lifesteal restores Percent% of each hit as mana.
	Lifesteal struct{ Percent int }
	// MagicLifesteal restores Percent% of each hit plus Flat mana per hit.
	MagicLifesteal struct{ Percent, Flat int }
	// Poison marks the enemy poisoned until the battle ends.
	Poison struct{}
	// ManaRecovery restores Amount mana.
	ManaRecovery struct{ Amount int }
	// AddBuff grants the catalog buff BuffKey with Value (0 = definition default).
	AddBuff struct {
		BuffKey string
		Value   int
	}
	AddStrength struct{ Amount int }
	AddParry    struct{ Amount int }
	// AddTime extends the deadline through the deadline_extend buff.
	AddTime struct{ Amount int }
	// DoubleStrength doubles strength when the previous card was an attack.
	DoubleStrength struct{}
	// AddSlashToDeck injects Count zero-cost filler attack cards.
	AddSlashToDeck struct{ Count int }
	// AddCopyToDeck puts a fresh copy of the played card in the draw pile.
	AddCopyToDeck   struct{}
	ClearBuffs      struct{}
	CostGoldPercent struct{ Percent int }
	// PermanentPowerUp adds Step to the played instance's multiplier.
	PermanentPowerUp struct{ Step float64 }
	Draw             struct{ Count int }
	// DiscardMagicMana restores PerCard mana per support card in the
	// discard pile, then draws one card.
	DiscardMagicMana struct{ PerCard int }
	DiscardRedraw    struct{}
	// PhysicalChainHasteDraw draws Count cards after an attack card.
	PhysicalChainHasteDraw struct{ Count int }
	// ManaConsumeDamage spends all mana as Ratio bonus damage per point.
	ManaConsumeDamage struct{ Ratio int }
	// DeckSlashBonus adds PerCard damage per draw-pile card whose name
	// contains Match.
	DeckSlashBonus struct {
		Match   string
		PerCard int
	}
	// EnemyDamageTaken adds Percent% of the level progress as damage.
	EnemyDamageTaken struct{ Percent int }
)

func (Lifesteal) Kind() EffectKind              { return EffectLifesteal }
func (MagicLifesteal) Kind() EffectKind         { return EffectMagicLifesteal }
func (Poison) Kind() EffectKind                 { return EffectPoison }
func (ManaRecovery) Kind() EffectKind           { return EffectManaRecovery }
func (AddBuff) Kind() EffectKind                { return EffectAddBuff }
func (AddStrength) Kind() EffectKind            { return EffectAddStrength }
func (AddParry) Kind() EffectKind               { return EffectAddParry }
func (AddTime) Kind() EffectKind                { return EffectAddTime }
func (DoubleStrength) Kind() EffectKind         { return EffectDoubleStrength }
func (AddSlashToDeck) Kind() EffectKind         { return EffectAddSlashToDeck }
func (AddCopyToDeck) Kind() EffectKind          { return EffectAddCopyToDeck }
func (ClearBuffs) Kind() EffectKind             { return EffectClearBuffs }
func (CostGoldPercent) Kind() EffectKind        { return EffectCostGoldPercent }
func (PermanentPowerUp) Kind() EffectKind       { return EffectPermanentPowerUp }
func (Draw) Kind() EffectKind                   { return EffectDraw }
func (DiscardMagicMana) Kind() EffectKind       { return EffectDiscardMagicMana }
func (DiscardRedraw) Kind() EffectKind          { return EffectDiscardRedraw }
func (PhysicalChainHasteDraw) Kind() EffectKind { return EffectPhysicalChainHasteDraw }
func (ManaConsumeDamage) Kind() EffectKind      { return EffectManaConsumeDamage }
func (DeckSlashBonus) Kind() EffectKind         { return EffectDeckSlashBonus }
func (EnemyDamageTaken) Kind() EffectKind       { return EffectEnemyDamageTaken }

func (Lifesteal) isEffect()              {}
func (MagicLifesteal) isEffect()         {}
func (Poison) isEffect()                 {}
func (ManaRecovery) isEffect()           {}
func (AddBuff) isEffect()                {}
func (AddStrength) isEffect()            {}
func (AddParry) isEffect()               {}
func (AddTime) isEffect()                {}
func (DoubleStrength) isEffect()         {}
func (AddSlashToDeck) isEffect()         {}
func (AddCopyToDeck) isEffect()          {}
func (ClearBuffs) isEffect()             {}
func (CostGoldPercent) isEffect()        {}
func (PermanentPowerUp) isEffect()       {}
func (Draw) isEffect()                   {}
func (DiscardMagicMana) isEffect()       {}
func (DiscardRedraw) isEffect()          {}
func (PhysicalChainHasteDraw) isEffect() {}
func (ManaConsumeDamage) isEffect()      {}
func (DeckSlashBonus) isEffect()         {}
func (EnemyDamageTaken) isEffect()       {}

// PerHit reports whether e runs once per hit instead of once per play.
func PerHit(e Effect) bool {
	switch e.(type) {
	case Lifesteal, MagicLifesteal:
		return true
	}
	return false
}

// ParseEffect compiles a catalog spec into its typed variant. An empty spec
// yields a nil Effect.
func ParseEffect(spec EffectSpec) (Effect, error) {
	if spec.Empty() {
		return nil, nil
	}
	p := params(spec.Params)
	kind := EffectKind(strings.TrimSpace(spec.Type))
	var (
		eff Effect
		err error
	)
	switch kind {
	case EffectLifesteal:
		var v Lifesteal
		v.Percent, err = p.int("percent", 100)
		eff = v
	case EffectMagicLifesteal:
		var v MagicLifesteal
		if v.Percent, err = p.int("percent", 50); err == nil {
			v.Flat, err = p.int("flat", 1)
		}
		eff = v
	case EffectPoison:
		eff = Poison{}
	case EffectManaRecovery:
		var v ManaRecovery
		v.Amount, err = p.int("amount", 3)
		eff = v
	case EffectAddBuff:
		var v AddBuff
		v.BuffKey = p["buff"]
		if v.BuffKey == "" {
			return nil, fmt.Errorf("effect %s: missing param 'buff'", kind)
		}
		v.Value, err = p.int("value", 0)
		eff = v
	case EffectAddStrength:
		var v AddStrength
		v.Amount, err = p.int("amount", 1)
		eff = v
	case EffectAddParry:
		var v AddParry
		v.Amount, err = p.int("amount", 1)
		eff = v
	case EffectAddTime:
		var v AddTime
		v.Amount, err = p.int("amount", 10)
		eff = v
	case EffectDoubleStrength:
		eff = DoubleStrength{}
	case EffectAddSlashToDeck:
		var v AddSlashToDeck
		v.Count, err = p.int("count", 1)
		eff = v
	case EffectAddCopyToDeck:
		eff = AddCopyToDeck{}
	case EffectClearBuffs:
		eff = ClearBuffs{}
	case EffectCostGoldPercent:
		var v CostGoldPercent
		v.Percent, err = p.int("percent", 10)
		eff = v
	case EffectPermanentPowerUp:
		var v PermanentPowerUp
		v.Step, err = p.float("step", 0.2)
		eff = v
	case EffectDraw:
		var v Draw
		v.Count, err = p.int("count", 1)
		eff = v
	case EffectDiscardMagicMana:
		var v DiscardMagicMana
		v.PerCard, err = p.int("per_card", 1)
		eff = v
	case EffectDiscardRedraw:
		eff = DiscardRedraw{}
	case EffectPhysicalChainHasteDraw:
		var v PhysicalChainHasteDraw
		v.Count, err = p.int("count", 1)
		eff = v
	case EffectManaConsumeDamage:
		var v ManaConsumeDamage
		v.Ratio, err = p.int("ratio", 10)
		eff = v
	case EffectDeckSlashBonus:
		var v DeckSlashBonus
		v.Match = p["match"]
		if v.Match == "" {
			v.Match = "Slash"
		}
		v.PerCard, err = p.int("per_card", 5)
		eff = v
	case EffectEnemyDamageTaken:
		var v EnemyDamageTaken
		v.Percent, err = p.int("percent", 10)
		eff = v
	default:
		return nil, fmt.Errorf("unknown effect type %q", spec.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("effect %s: %w", kind, err)
	}
	return eff, nil
}

// ParseEffectParams parses the catalog "key=value;key=value" notation.
func ParseEffectParams(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("malformed effect param %q", part)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}

// formatEffectParams is the inverse of ParseEffectParams with sorted keys.
func formatEffectParams(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, ";")
}

type params map[string]string

func (p params) int(key string, def int) (int, error) {
	s, ok := p[key]
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("param %s: %w", key, err)
	}
	return v, nil
}

func (p params) float(key string, def float64) (float64, error) {
	s, ok := p[key]
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("param %s: %w", key, err)
	}
	return v, nil
}
