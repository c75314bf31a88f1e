package engine

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/ericogr/combo-chronicle/internal/game"
)

// BuffSummary is the per-type aggregate shown to the player and fed to the
// damage pipeline.
type BuffSummary struct {
	Type game.BuffType `json:"type"`
	Name string        `json:"name"`
	// Total is the summed value of all instances of the type.
	Total int `json:"total"`
	// Instances counts the buff instances of the type.
	Instances int `json:"instances"`
}

func buffPriority(t game.BuffType) int {
	switch t {
	case game.BuffStrength:
		return 0
	case game.BuffUnity:
		return 1
	case game.BuffFocus:
		return 2
	case game.BuffGacha:
		return 3
	case game.BuffCharge, game.BuffParry, game.BuffNextCardFree:
		return 4
	default:
		return 5
	}
}

// AggregateBuffs collapses buffs into one summary per type, ordered by
// calculation priority and then by first occurrence.
func AggregateBuffs(buffs []game.PlayerBuff) []BuffSummary {
	out := make([]BuffSummary, 0, len(buffs))
	index := make(map[game.BuffType]int, len(buffs))
	for _, b := range buffs {
		i, ok := index[b.Type]
		if !ok {
			index[b.Type] = len(out)
			out = append(out, BuffSummary{Type: b.Type, Name: b.Name})
			i = len(out) - 1
		}
		out[i].Total += b.Value
		out[i].Instances++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return buffPriority(out[i].Type) < buffPriority(out[j].Type)
	})
	return out
}

// Stacks returns the summed value of all buffs of type t.
func Stacks(buffs []game.PlayerBuff, t game.BuffType) int {
	total := 0
	for _, b := range buffs {
		if b.Type == t {
			total += b.Value
		}
	}
	return total
}

// HasBuff reports whether any instance of t is active.
func HasBuff(buffs []game.PlayerBuff, t game.BuffType) bool {
	for _, b := range buffs {
		if b.Type == t {
			return true
		}
	}
	return false
}

func UnityMultiplier(stacks int) float64 { return 1 + float64(stacks)*0.5 }

func FocusMultiplier(stacks int) float64 { return math.Pow(1.4, float64(stacks)) }

// ApplyGacha raises damage to 1.5^stacks. Zero stacks is the identity, which
// also keeps a zero hit at zero; one stack already jumps to damage^1.5.
func ApplyGacha(damage, stacks int) int {
	if stacks <= 0 || damage <= 0 {
		return damage
	}
	exp := math.Pow(1.5, float64(stacks))
	v := math.Floor(math.Pow(float64(damage), exp))
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// KyushokuMultiplier scales the employee count down by 20% per stack.
func KyushokuMultiplier(stacks int) float64 {
	return math.Max(0, 1-float64(stacks)*0.2)
}

// YudanSurcharge is the extra haste attack cards cost.
func YudanSurcharge(stacks int) int { return stacks * 5 }

// BugSurcharge is the extra haste support cards cost.
func BugSurcharge(stacks int) int { return stacks * 5 }

// DeathmarchHaste is the deadline extension granted by deathmarch.
func DeathmarchHaste(stacks int) int { return stacks * 10 }

// AddBuff grants def with value following the stacking rules. A value <= 0
// falls back to the definition default, then to 1.
func AddBuff(buffs []game.PlayerBuff, def game.BuffDefinition, value int) []game.PlayerBuff {
	if value <= 0 {
		value = def.DefaultValue
	}
	if value <= 0 {
		value = 1
	}
	if def.Type.Stacking() {
		for i := range buffs {
			if buffs[i].Type == def.Type {
				buffs[i].Value += value
				return buffs
			}
		}
	}
	return append(buffs, game.PlayerBuff{
		ID:          uuid.NewString(),
		DefKey:      def.Key,
		Type:        def.Type,
		Value:       value,
		Name:        def.Name,
		Description: def.Description,
	})
}

// RemoveBuffs drops every instance of t.
func RemoveBuffs(buffs []game.PlayerBuff, t game.BuffType) []game.PlayerBuff {
	out := buffs[:0]
	for _, b := range buffs {
		if b.Type != t {
			out = append(out, b)
		}
	}
	return out
}

// ConsumeStack removes one stack from the stacking buff t, dropping the
// instance once it reaches zero.
func ConsumeStack(buffs []game.PlayerBuff, t game.BuffType) []game.PlayerBuff {
	for i := range buffs {
		if buffs[i].Type != t {
			continue
		}
		buffs[i].Value--
		if buffs[i].Value <= 0 {
			return append(buffs[:i], buffs[i+1:]...)
		}
		return buffs
	}
	return buffs
}

// ConsumeOne removes the first instance of t.
func ConsumeOne(buffs []game.PlayerBuff, t game.BuffType) []game.PlayerBuff {
	for i := range buffs {
		if buffs[i].Type == t {
			return append(buffs[:i], buffs[i+1:]...)
		}
	}
	return buffs
}
