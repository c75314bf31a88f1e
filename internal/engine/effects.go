package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ericogr/combo-chronicle/internal/game"
	"github.com/ericogr/combo-chronicle/internal/logging"
)

// applyEffect runs one application of the played card's effect against the
// in-flight resolution. Per-hit effects are called once per repeat.
func (m *Machine) applyEffect(eff game.Effect) {
	b := m.run.Battle
	rc := m.rc

	switch e := eff.(type) {
	case game.Lifesteal:
		if rc.burnout {
			m.add("Burnout: lifesteal skipped")
			return
		}
		m.restoreMana(rc.hitShare() * e.Percent / 100)
	case game.MagicLifesteal:
		if rc.burnout {
			m.add("Burnout: lifesteal skipped")
			return
		}
		m.restoreMana(rc.hitShare()*e.Percent/100 + e.Flat)
	case game.Poison:
		if !b.Poisoned {
			m.add("Enemy poisoned")
		}
		b.Poisoned = true
	case game.ManaRecovery:
		m.restoreMana(e.Amount)
	case game.AddBuff:
		def, ok := m.cat.BuffDefinition(e.BuffKey)
		if !ok {
			logging.Warn("unknown buff definition", logging.Fields{
				"buff": e.BuffKey,
				"card": rc.card.TemplateKey,
			})
			return
		}
		b.Buffs = AddBuff(b.Buffs, def, e.Value)
		m.add("Gained " + def.Name)
	case game.AddStrength:
		m.grant(game.BuffStrength, e.Amount)
	case game.AddParry:
		m.grant(game.BuffParry, e.Amount)
	case game.AddTime:
		m.grant(game.BuffDeadlineExtend, e.Amount)
	case game.DoubleStrength:
		if !rc.followsAttack() {
			return
		}
		for i := range b.Buffs {
			if b.Buffs[i].Type == game.BuffStrength {
				b.Buffs[i].Value *= 2
				m.add(fmt.Sprintf("Strength doubled to %d", b.Buffs[i].Value))
			}
		}
	case game.AddSlashToDeck:
		for i := 0; i < e.Count; i++ {
			if card, ok := m.fillerCard(); ok {
				m.insertIntoDrawPile(card)
			}
		}
		m.add(fmt.Sprintf("Added %d filler cards to the draw pile", e.Count))
	case game.AddCopyToDeck:
		cp := rc.card
		cp.ID = uuid.NewString()
		m.insertIntoDrawPile(cp)
		m.add("Copied " + rc.card.Name + " into the draw pile")
	case game.ClearBuffs:
		b.Buffs = nil
		m.add("All buffs cleared")
	case game.CostGoldPercent:
		cost := m.quota() * e.Percent / 100
		m.run.Gold = maxInt(0, m.run.Gold-cost)
		m.add(fmt.Sprintf("Paid %d gold", cost))
	case game.PermanentPowerUp:
		m.powerUp(e.Step)
	case game.Draw:
		Draw(b, m.rng, e.Count)
	case game.DiscardMagicMana:
		n := 0
		for _, c := range b.DiscardPile {
			if c.IsSupport() {
				n++
			}
		}
		m.restoreMana(n * e.PerCard)
		Draw(b, m.rng, 1)
	case game.DiscardRedraw:
		n := len(b.Hand)
		rc.removed = append(rc.removed, b.Hand...)
		b.Hand = nil
		Draw(b, m.rng, n+1)
		m.add(fmt.Sprintf("Discarded %d cards and drew %d", n, n+1))
	case game.PhysicalChainHasteDraw:
		if rc.followsAttack() {
			Draw(b, m.rng, e.Count)
		}
	case game.ManaConsumeDamage, game.DeckSlashBonus, game.EnemyDamageTaken:
		// resolved by the damage pipeline
	}
}

func (m *Machine) restoreMana(n int) {
	if n <= 0 {
		return
	}
	b := m.run.Battle
	before := b.Mana
	b.Mana = minInt(m.run.MaxMana(), b.Mana+n)
	if b.Mana > before {
		m.add(fmt.Sprintf("Recovered %d mana", b.Mana-before))
	}
}

// grant adds a buff by type. The catalog definition keyed by the type name
// is used when present so display text stays data-driven.
func (m *Machine) grant(t game.BuffType, amount int) {
	def, ok := m.cat.BuffDefinition(string(t))
	if !ok || def.Type != t {
		def = game.BuffDefinition{Key: string(t), Type: t, Name: buffTitle(t)}
	}
	b := m.run.Battle
	b.Buffs = AddBuff(b.Buffs, def, amount)
	m.add("Gained " + def.Name)
}

func buffTitle(t game.BuffType) string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// fillerCard builds a fresh zero-cost slash card.
func (m *Machine) fillerCard() (game.Skill, bool) {
	tmpl, ok := m.cat.SkillTemplate(SlashKey)
	if !ok {
		tmpl = game.SkillTemplate{
			Key:           SlashKey,
			Name:          "Slash",
			Category:      game.CategoryAttack,
			BaseDamage:    5,
			EmployeeRatio: 50,
			Delay:         5,
			Rarity:        game.RarityCommon,
		}
	}
	tmpl.ManaCost = 0
	tmpl.Filler = true
	card, err := game.NewSkill(uuid.NewString(), tmpl)
	if err != nil {
		logging.Error("failed to build filler card", err, logging.Fields{"skill": SlashKey})
		return game.Skill{}, false
	}
	return card, true
}

func (m *Machine) insertIntoDrawPile(card game.Skill) {
	b := m.run.Battle
	pos := m.rng.Intn(len(b.DrawPile) + 1)
	b.DrawPile = append(b.DrawPile, game.Skill{})
	copy(b.DrawPile[pos+1:], b.DrawPile[pos:])
	b.DrawPile[pos] = card
}

// powerUp raises the played instance's multiplier everywhere that instance
// is tracked: the in-flight card, the permanent deck and the draw pile.
func (m *Machine) powerUp(step float64) {
	rc := m.rc
	b := m.run.Battle
	rc.card.Multiplier = rc.card.DamageMultiplier() + step
	if i := m.run.FindDeckCard(rc.card.ID); i >= 0 {
		m.run.Deck[i].Multiplier = rc.card.Multiplier
	}
	if i := game.IndexOfSkill(b.DrawPile, rc.card.ID); i >= 0 {
		b.DrawPile[i].Multiplier = rc.card.Multiplier
	}
	m.add(fmt.Sprintf("%s powered up to x%.1f", rc.card.Name, rc.card.Multiplier))
}
