package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/combo-chronicle/internal/game"
)

func TestAggregateBuffs_PriorityThenFirstOccurrence(t *testing.T) {
	buffs := []game.PlayerBuff{
		buff(game.BuffYudan, 1),
		buff(game.BuffCharge, 2),
		buff(game.BuffBug, 1),
		buff(game.BuffFocus, 1),
		buff(game.BuffStrength, 4),
		buff(game.BuffCharge, 1),
		buff(game.BuffUnity, 1),
	}
	got := AggregateBuffs(buffs)
	order := make([]game.BuffType, len(got))
	for i, s := range got {
		order[i] = s.Type
	}
	assert.Equal(t, []game.BuffType{
		game.BuffStrength, game.BuffUnity, game.BuffFocus, game.BuffCharge, game.BuffYudan, game.BuffBug,
	}, order)
	assert.Equal(t, 3, got[3].Total)
	assert.Equal(t, 2, got[3].Instances)

	assert.Equal(t, got, AggregateBuffs(buffs), "aggregation is idempotent")
	assert.Empty(t, AggregateBuffs(nil))
}

func TestApplyGacha(t *testing.T) {
	for _, d := range []int{0, 1, 57, 1000} {
		assert.Equal(t, d, ApplyGacha(d, 0))
	}
	assert.Equal(t, 8, ApplyGacha(4, 1))
	assert.Zero(t, ApplyGacha(0, 3))
}

func TestDerivedMultipliers(t *testing.T) {
	assert.InDelta(t, 2.0, UnityMultiplier(2), 1e-9)
	assert.InDelta(t, 1.96, FocusMultiplier(2), 1e-9)
	assert.Equal(t, 10, YudanSurcharge(2))
	assert.Equal(t, 30, DeathmarchHaste(3))
	assert.InDelta(t, 0.6, KyushokuMultiplier(2), 1e-9)
}

func TestAddBuff_StackingRules(t *testing.T) {
	strength := game.BuffDefinition{Key: "strength", Type: game.BuffStrength, Name: "Strength"}
	charge := game.BuffDefinition{Key: "charge", Type: game.BuffCharge, Name: "Charge", DefaultValue: 2}

	var buffs []game.PlayerBuff
	buffs = AddBuff(buffs, strength, 2)
	buffs = AddBuff(buffs, strength, 3)
	require.Len(t, buffs, 1)
	assert.Equal(t, 5, buffs[0].Value)

	buffs = AddBuff(buffs, charge, 0)
	buffs = AddBuff(buffs, charge, 1)
	require.Len(t, buffs, 3)
	assert.Equal(t, 2, buffs[1].Value, "zero value falls back to the definition default")
	assert.NotEqual(t, buffs[1].ID, buffs[2].ID)
	assert.Equal(t, 3, Stacks(buffs, game.BuffCharge))

	buffs = AddBuff(buffs, game.BuffDefinition{Type: game.BuffParry}, 0)
	assert.Equal(t, 1, Stacks(buffs, game.BuffParry))
}

func TestConsumeHelpers(t *testing.T) {
	buffs := []game.PlayerBuff{buff(game.BuffBaseDamageBoost, 2), buff(game.BuffParry, 1), buff(game.BuffParry, 1)}
	buffs = ConsumeStack(buffs, game.BuffBaseDamageBoost)
	assert.Equal(t, 1, Stacks(buffs, game.BuffBaseDamageBoost))
	buffs = ConsumeStack(buffs, game.BuffBaseDamageBoost)
	assert.False(t, HasBuff(buffs, game.BuffBaseDamageBoost))

	buffs = ConsumeOne(buffs, game.BuffParry)
	assert.Equal(t, 1, Stacks(buffs, game.BuffParry))
	buffs = RemoveBuffs(buffs, game.BuffParry)
	assert.Empty(t, buffs)
}
