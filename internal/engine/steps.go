package engine

import (
	"fmt"

	"github.com/ericogr/combo-chronicle/internal/game"
)

// burnoutRate is the burnout chance per point of work-style intensity.
const burnoutRate = 0.003

// Advance runs the current resolution step and reports whether the battle
// still has work in flight. Presentation layers may call it between
// animations; PlayCard and Rest simply loop it.
func (m *Machine) Advance() bool {
	b := m.run.Battle
	if b == nil {
		return false
	}
	switch b.Step {
	case game.StepIdle:
		return false
	case game.StepPayCost:
		m.payCost()
	case game.StepDamage:
		m.resolveDamage()
	case game.StepEffects:
		m.runEffects()
	case game.StepDiscard:
		m.discardPlayed()
	case game.StepRedraw:
		m.redraw()
	case game.StepDeadline:
		m.checkDeadline()
	case game.StepEnemyAttack:
		m.enemyAttack()
	case game.StepDeadlineNotice:
		m.resetTurn()
	default:
		b.Step = game.StepIdle
	}
	if b.Step == game.StepIdle {
		m.finish()
		return false
	}
	return true
}

func (m *Machine) payCost() {
	b := m.run.Battle
	rc := m.rc
	card := rc.card

	if HasBuff(b.Buffs, game.BuffParry) {
		b.Buffs = RemoveBuffs(b.Buffs, game.BuffParry)
		m.add("Parry expired")
	}

	cost := card.Delay
	if card.IsAttack() {
		cost += YudanSurcharge(Stacks(b.Buffs, game.BuffYudan))
	}
	if card.IsSupport() {
		cost += BugSurcharge(Stacks(b.Buffs, game.BuffBug))
	}
	if HasBuff(b.Buffs, game.BuffNextCardFree) {
		cost = 0
		b.Buffs = ConsumeOne(b.Buffs, game.BuffNextCardFree)
		m.add("Next card free: no haste spent")
	}
	rc.hasteCost = cost
	b.HasteUsed += cost

	if eff, ok := card.Effect.(game.ManaConsumeDamage); ok && !rc.suppressed {
		rc.manaBonus = b.Mana * eff.Ratio
		m.add(fmt.Sprintf("Consumed %d mana for %d bonus damage", b.Mana, rc.manaBonus))
		b.Mana = 0
	} else {
		b.Mana -= card.ManaCost
	}

	m.run.WorkStyle = clamp(m.run.WorkStyle+card.WorkStyleDelta, 0, game.MaxWorkStyle)
	b.Step = game.StepDamage
}

func (m *Machine) resolveDamage() {
	run := m.run
	b := run.Battle
	rc := m.rc

	res := ComputeDamage(DamageInput{
		Skill:             rc.card,
		Employees:         run.Employees,
		EmployeeAdd:       run.PassiveTotal(game.PassiveEmployeeAdd),
		EmployeeMult:      run.PassiveProduct(game.PassiveEmployeeMult),
		Buffs:             b.Buffs,
		DrawPile:          b.DrawPile,
		Progress:          b.Progress,
		Poisoned:          b.Poisoned,
		FlatBonus:         run.PassiveTotal(game.PassiveDamageFlat),
		ManaBonus:         rc.manaBonus,
		ArmorThreshold:    run.ArmorThreshold(),
		EffectsSuppressed: rc.suppressed,
	})
	rc.damage = res
	damage := res
	m.lastDamage = &damage

	if res.BoostUsed {
		b.Buffs = ConsumeStack(b.Buffs, game.BuffBaseDamageBoost)
	}
	if res.ChargeUsed {
		b.Buffs = RemoveBuffs(b.Buffs, game.BuffCharge)
		if res.Repeats > 1 {
			m.add(fmt.Sprintf("Charge: hit repeated %d times", res.Repeats))
		}
	}

	b.Step = game.StepEffects
	if res.Negated {
		m.add("Armor negated the hit")
		return
	}
	if res.Total == 0 {
		return
	}

	b.Progress += res.Total
	if run.WorkStyle > 0 && m.rng.Float64() < float64(run.WorkStyle)*burnoutRate {
		rc.burnout = true
		m.add(fmt.Sprintf("Dealt %d damage, burnout: no gold earned", res.Total))
	} else {
		run.Gold += res.Total
		m.add(fmt.Sprintf("Dealt %d damage", res.Total))
	}
}

func (m *Machine) runEffects() {
	b := m.run.Battle
	rc := m.rc
	b.Step = game.StepDiscard

	eff := rc.card.Effect
	if eff == nil {
		return
	}
	if rc.suppressed {
		m.add(rc.card.Name + "'s effect is suppressed")
		return
	}
	hits := 1
	if game.PerHit(eff) && rc.damage.Repeats > 1 {
		hits = rc.damage.Repeats
	}
	for i := 0; i < hits; i++ {
		m.applyEffect(eff)
	}
}

func (m *Machine) discardPlayed() {
	b := m.run.Battle
	rc := m.rc
	b.DiscardPile = append(b.DiscardPile, rc.card)
	b.DiscardPile = append(b.DiscardPile, rc.removed...)
	played := rc.card
	b.LastPlayed = &played
	b.ComboStack = append(b.ComboStack, rc.card.Name)
	b.ComboPower = len(b.ComboStack)
	b.Step = game.StepRedraw
}

// redraw discards what was left of the hand at play time and draws
// RedrawCount fresh cards. Cards drawn by the effect stay in hand.
func (m *Machine) redraw() {
	b := m.run.Battle
	rc := m.rc
	kept := b.Hand[:0]
	for _, c := range b.Hand {
		if rc.priorHand[c.ID] {
			b.DiscardPile = append(b.DiscardPile, c)
			continue
		}
		kept = append(kept, c)
	}
	b.Hand = kept
	Draw(b, m.rng, game.RedrawCount)
	b.Step = game.StepDeadline
}

// checkDeadline compares the up-to-date gold against the quota. Victory
// does not wait for the gauge; a miss only matters once haste runs out.
func (m *Machine) checkDeadline() {
	b := m.run.Battle
	if m.run.Enemy != nil && m.run.Gold >= m.run.Enemy.Quota {
		m.victory()
		return
	}
	if b.HasteUsed >= m.MaxHaste() {
		m.add(fmt.Sprintf("Deadline reached with %d/%d gold", m.run.Gold, m.quota()))
		b.Step = game.StepEnemyAttack
		return
	}
	b.Step = game.StepIdle
}

func (m *Machine) enemyAttack() {
	run := m.run
	b := run.Battle
	if HasBuff(b.Buffs, game.BuffParry) {
		b.Buffs = ConsumeOne(b.Buffs, game.BuffParry)
		m.add("Parry blocked the deadline attack")
	} else {
		run.Life--
		b.Buffs = RemoveBuffs(b.Buffs, game.BuffDeathmarch)
		m.add(fmt.Sprintf("Missed the deadline: lost 1 life (%d left)", maxInt(0, run.Life)))
	}
	if run.Life <= 0 {
		run.Life = 0
		m.gameOver()
		return
	}
	b.Step = game.StepDeadlineNotice
}

func (m *Machine) resetTurn() {
	m.run.Battle.HasteUsed = 0
	m.add("Deadline reset")
	m.run.Battle.Step = game.StepIdle
}

func (m *Machine) gameOver() {
	b := m.run.Battle
	b.Buffs = nil
	b.Poisoned = false
	b.Step = game.StepIdle
	m.run.State = game.StateGameOver
	m.add("Game over")
}

// victory applies attrition, halves the work-style intensity and routes
// to the reward flow of the enemy's drop tier.
func (m *Machine) victory() {
	run := m.run
	b := run.Battle

	if lost := run.WorkStyle / 25; lost > 0 {
		before := run.Employees
		run.Employees = maxInt(1, run.Employees-lost)
		if run.Employees < before {
			m.add(fmt.Sprintf("Attrition: lost %d employees", before-run.Employees))
		}
	}
	run.WorkStyle /= 2
	b.Buffs = nil
	b.Poisoned = false
	b.Step = game.StepIdle

	name := ""
	if run.Enemy != nil {
		name = run.Enemy.Name
	}
	m.add("Defeated " + name)

	if run.Enemy != nil && run.Enemy.Boss {
		run.RewardQueue = nil
		run.State = game.StateBossVictory
		return
	}
	run.RewardQueue = RewardsFor(run.Enemy)
	run.State = run.RewardQueue[0].State()
}

// RewardsFor is the reward queue an enemy's drop tier grants.
func RewardsFor(e *game.Enemy) []game.RewardKind {
	if e == nil {
		return []game.RewardKind{game.RewardCard}
	}
	switch e.DropTier {
	case game.DropCommon:
		return []game.RewardKind{game.RewardAbilityCommon}
	case game.DropElite:
		return []game.RewardKind{game.RewardAbilityAll, game.RewardCard}
	}
	return []game.RewardKind{game.RewardCard}
}

func (m *Machine) quota() int {
	if m.run.Enemy == nil {
		return 0
	}
	return m.run.Enemy.Quota
}

// finish publishes the resolution summary and unlocks the battle.
func (m *Machine) finish() {
	b := m.run.Battle
	b.LastSummary = m.summary
	m.summary = nil
	m.rc = nil
}

func clamp(v, lo, hi int) int {
	return maxInt(lo, minInt(v, hi))
}
