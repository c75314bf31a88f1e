package engine

import "github.com/ericogr/combo-chronicle/internal/game"

// View is the read-only picture of a run handed to the presentation layer
// after every transition. Slices are copies; mutating them has no effect on
// the machine.
type View struct {
	RunID     string         `json:"run_id"`
	State     game.GameState `json:"state"`
	Step      game.Step      `json:"step"`
	Floor     int            `json:"floor"`
	Life      int            `json:"life"`
	Gold      int            `json:"gold"`
	Employees int            `json:"employees"`
	WorkStyle int            `json:"work_style"`

	Mana      int  `json:"mana"`
	MaxMana   int  `json:"max_mana"`
	HasteUsed int  `json:"haste_used"`
	MaxHaste  int  `json:"max_haste"`
	Progress  int  `json:"progress"`
	Quota     int  `json:"quota"`
	Poisoned  bool `json:"poisoned"`
	HandSize  int  `json:"hand_size"`

	Hand        []game.Skill  `json:"hand"`
	DrawCount   int           `json:"draw_count"`
	DiscardPile []game.Skill  `json:"discard_pile"`
	Buffs       []BuffSummary `json:"buffs"`
	ComboStack  []string      `json:"combo_stack"`
	ComboPower  int           `json:"combo_power"`
	Summary     []string      `json:"summary"`

	Enemy    *game.Enemy    `json:"enemy,omitempty"`
	Trait    *game.Trait    `json:"trait,omitempty"`
	Deck     []game.Skill   `json:"deck"`
	Passives []game.Passive `json:"passives"`

	RewardQueue   []game.RewardKind `json:"reward_queue,omitempty"`
	CardOffers    []game.Skill      `json:"card_offers,omitempty"`
	PassiveOffers []game.Passive    `json:"passive_offers,omitempty"`
	ShopCards     []game.Skill      `json:"shop_cards,omitempty"`
	ShopPassives  []game.Passive    `json:"shop_passives,omitempty"`
	RemovalPrice  int               `json:"removal_price,omitempty"`
}

// Snapshot builds the current view of the run.
func (m *Machine) Snapshot() View {
	r := m.run
	v := View{
		RunID:         r.ID,
		State:         r.State,
		Floor:         r.Floor,
		Life:          r.Life,
		Gold:          r.Gold,
		Employees:     r.Employees,
		WorkStyle:     r.WorkStyle,
		MaxMana:       r.MaxMana(),
		MaxHaste:      m.MaxHaste(),
		Quota:         m.quota(),
		HandSize:      r.HandSize(),
		Enemy:         r.Enemy,
		Trait:         r.Trait,
		Deck:          cloneSkills(r.Deck),
		Passives:      append([]game.Passive(nil), r.Passives...),
		RewardQueue:   append([]game.RewardKind(nil), r.RewardQueue...),
		CardOffers:    cloneSkills(r.CardOffers),
		PassiveOffers: append([]game.Passive(nil), r.PassiveOffers...),
		ShopCards:     cloneSkills(r.ShopCards),
		ShopPassives:  append([]game.Passive(nil), r.ShopPassives...),
	}
	if r.State == game.StateShop {
		v.RemovalPrice = RemovalPrice(r.Removals)
	}
	if b := r.Battle; b != nil {
		v.Step = b.Step
		v.Mana = b.Mana
		v.HasteUsed = b.HasteUsed
		v.Progress = b.Progress
		v.Poisoned = b.Poisoned
		v.Hand = cloneSkills(b.Hand)
		v.DrawCount = len(b.DrawPile)
		v.DiscardPile = cloneSkills(b.DiscardPile)
		v.Buffs = AggregateBuffs(b.Buffs)
		v.ComboStack = append([]string(nil), b.ComboStack...)
		v.ComboPower = b.ComboPower
		v.Summary = append([]string(nil), b.LastSummary...)
	}
	return v
}

// RemovalPrice is the shop price of removing a card after n removals.
func RemovalPrice(n int) int {
	return 50 + 25*n
}

func cloneSkills(in []game.Skill) []game.Skill {
	if in == nil {
		return nil
	}
	return append([]game.Skill(nil), in...)
}
