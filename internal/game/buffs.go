package game

// BuffType is the fixed enumeration of battle status effects.
type BuffType string

const (
	BuffCharge          BuffType = "charge"
	BuffBaseDamageBoost BuffType = "base_damage_boost"
	BuffStrength        BuffType = "strength"
	BuffParry           BuffType = "parry"
	BuffDeathmarch      BuffType = "deathmarch"
	BuffBug             BuffType = "bug"
	BuffKyushoku        BuffType = "kyushoku"
	BuffYudan           BuffType = "yudan"
	BuffUnity           BuffType = "unity"
	BuffFocus           BuffType = "focus"
	BuffGacha           BuffType = "gacha"
	BuffNextCardFree    BuffType = "next_card_free"
	BuffDeadlineExtend  BuffType = "deadline_extend"
)

// Stacking types keep a single instance and grow its value on every grant.
func (t BuffType) Stacking() bool {
	switch t {
	case BuffBaseDamageBoost, BuffStrength, BuffDeadlineExtend:
		return true
	}
	return false
}

// Valid reports whether t is one of the known buff types.
func (t BuffType) Valid() bool {
	switch t {
	case BuffCharge, BuffBaseDamageBoost, BuffStrength, BuffParry, BuffDeathmarch,
		BuffBug, BuffKyushoku, BuffYudan, BuffUnity, BuffFocus, BuffGacha,
		BuffNextCardFree, BuffDeadlineExtend:
		return true
	}
	return false
}

// PlayerBuff is a battle-scoped status effect instance.
type PlayerBuff struct {
	ID          string   `json:"id"`
	DefKey      string   `json:"def_key"`
	Type        BuffType `json:"type"`
	Value       int      `json:"value"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}
