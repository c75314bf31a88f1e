package engine

import (
	"math"
	"strings"

	"github.com/ericogr/combo-chronicle/internal/game"
)

// DamageInput is everything the damage pipeline reads. It is assembled by
// the state machine so ComputeDamage stays pure.
type DamageInput struct {
	Skill        game.Skill
	Employees    int
	EmployeeAdd  int
	EmployeeMult float64
	Buffs        []game.PlayerBuff
	DrawPile     []game.Skill
	Progress     int
	Poisoned     bool
	FlatBonus    int
	// ManaBonus is the damage from a mana-consume play, computed before the
	// mana is spent.
	ManaBonus      int
	ArmorThreshold int
	// EffectsSuppressed drops the card's effect-driven damage.
	EffectsSuppressed bool
}

// DamageResult keeps every intermediate value so the summary can explain
// the calculation.
type DamageResult struct {
	Base               int  `json:"base"`
	BoostUsed          bool `json:"boost_used"`
	EffectiveEmployees int  `json:"effective_employees"`
	EmployeeScaled     int  `json:"employee_scaled"`
	CardBonus          int  `json:"card_bonus"`
	Subtotal           int  `json:"subtotal"`
	Repeats            int  `json:"repeats"`
	ChargeUsed         bool `json:"charge_used"`
	Multiplied         int  `json:"multiplied"`
	AfterGacha         int  `json:"after_gacha"`
	Flat               int  `json:"flat"`
	Poison             int  `json:"poison"`
	ManaBonus          int  `json:"mana_bonus"`
	Negated            bool `json:"negated"`
	Total              int  `json:"total"`
}

// ComputeDamage runs the fixed-order damage pipeline. The order matters for
// balance: additive terms, then the card multiplier, repeats, percentage
// buffs, the exponential gacha, flat bonuses and finally armor.
func ComputeDamage(in DamageInput) DamageResult {
	var res DamageResult
	s := in.Skill

	res.Base = s.BaseDamage
	if res.Base > 0 && Stacks(in.Buffs, game.BuffBaseDamageBoost) >= 1 {
		res.Base *= 2
		res.BoostUsed = true
	}

	mult := in.EmployeeMult
	if mult == 0 {
		mult = 1
	}
	rawEmployees := float64(in.Employees+in.EmployeeAdd+Stacks(in.Buffs, game.BuffStrength)) *
		mult * KyushokuMultiplier(Stacks(in.Buffs, game.BuffKyushoku))
	res.EffectiveEmployees = int(math.Floor(math.Max(0, rawEmployees)))
	res.EmployeeScaled = res.EffectiveEmployees * s.EmployeeRatio / 100

	if !in.EffectsSuppressed {
		res.CardBonus = cardBonus(s, in)
	}

	res.Subtotal = int(math.Floor(float64(res.Base+res.EmployeeScaled+res.CardBonus) * s.DamageMultiplier()))
	if res.Subtotal < 0 {
		res.Subtotal = 0
	}

	res.Repeats = 1
	if s.IsAttack() && HasBuff(in.Buffs, game.BuffCharge) {
		res.ChargeUsed = true
		if charge := Stacks(in.Buffs, game.BuffCharge); charge > 1 {
			res.Repeats = charge
		}
	}

	unity := UnityMultiplier(Stacks(in.Buffs, game.BuffUnity))
	focus := FocusMultiplier(Stacks(in.Buffs, game.BuffFocus))
	res.Multiplied = int(math.Floor(float64(res.Subtotal*res.Repeats) * unity * focus))
	res.AfterGacha = ApplyGacha(res.Multiplied, Stacks(in.Buffs, game.BuffGacha))

	total := res.AfterGacha
	if total > 0 {
		res.Flat = in.FlatBonus
		if in.Poisoned {
			res.Poison = game.PoisonDamage
		}
	}
	if !in.EffectsSuppressed {
		res.ManaBonus = in.ManaBonus
	}
	total += res.Flat + res.Poison + res.ManaBonus

	if in.ArmorThreshold > 0 && total > 0 && total <= in.ArmorThreshold {
		res.Negated = true
		total = 0
	}
	if total < 0 {
		total = 0
	}
	res.Total = total
	return res
}

// cardBonus is the card-specific additive damage from step four of the
// pipeline.
func cardBonus(s game.Skill, in DamageInput) int {
	switch eff := s.Effect.(type) {
	case game.DeckSlashBonus:
		n := 0
		for _, c := range in.DrawPile {
			if strings.Contains(c.Name, eff.Match) {
				n++
			}
		}
		return n * eff.PerCard
	case game.EnemyDamageTaken:
		return in.Progress * eff.Percent / 100
	}
	return 0
}
