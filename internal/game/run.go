package game

// GameState is the discrete tag the presentation layer switches on.
type GameState string

const (
	StateStart         GameState = "START"
	StatePlaying       GameState = "PLAYING"
	StateCardReward    GameState = "CARD_REWARD"
	StateAbilityReward GameState = "ABILITY_REWARD"
	StateBossVictory   GameState = "BOSS_VICTORY"
	StateShop          GameState = "SHOP"
	StateGameOver      GameState = "GAME_OVER"
)

// Step is the resolution sub-state of a battle. Anything other than StepIdle
// locks the battle against new plays.
type Step string

const (
	StepIdle           Step = "idle"
	StepPayCost        Step = "pay_cost"
	StepDamage         Step = "damage"
	StepEffects        Step = "effects"
	StepDiscard        Step = "discard"
	StepRedraw         Step = "redraw"
	StepDeadline       Step = "deadline"
	StepEnemyAttack    Step = "enemy_attack"
	StepDeadlineNotice Step = "deadline_notice"
)

// RewardKind is one pending entry in the post-victory reward flow.
type RewardKind string

const (
	RewardCard          RewardKind = "card"
	RewardAbilityCommon RewardKind = "ability_common"
	RewardAbilityAll    RewardKind = "ability_all"
)

// Tuning shared by the engine and the run lifecycle.
const (
	StartingLife      = 3
	StartingEmployees = 10
	BaseMaxHaste      = 100
	BaseMaxMana       = 10
	BaseHandSize      = 5
	RedrawCount       = 3
	RestHaste         = 10
	PoisonDamage      = 30
	MaxWorkStyle      = 100
)

// Battle is the per-level state. It is owned by a single Run and only
// mutated by the engine.
type Battle struct {
	Hand        []Skill      `json:"hand"`
	DrawPile    []Skill      `json:"draw_pile"`
	DiscardPile []Skill      `json:"discard_pile"`
	Buffs       []PlayerBuff `json:"buffs"`
	HasteUsed   int          `json:"haste_used"`
	Mana        int          `json:"mana"`
	Progress    int          `json:"progress"`
	Poisoned    bool         `json:"poisoned"`
	// ComboStack lists the names of cards played since the last reshuffle.
	ComboStack  []string `json:"combo_stack"`
	ComboPower  int      `json:"combo_power"`
	// LastPlayed is the card resolved by the previous play of this battle.
	LastPlayed  *Skill   `json:"last_played,omitempty"`
	Step        Step     `json:"step"`
	LastSummary []string `json:"last_summary"`
}

// Run is the aggregate for one playthrough.
type Run struct {
	ID        string    `json:"id"`
	State     GameState `json:"state"`
	Floor     int       `json:"floor"`
	Life      int       `json:"life"`
	Gold      int       `json:"gold"`
	Employees int       `json:"employees"`
	WorkStyle int       `json:"work_style"`

	Deck     []Skill   `json:"deck"`
	Passives []Passive `json:"passives"`

	Enemy  *Enemy  `json:"enemy"`
	Trait  *Trait  `json:"trait"`
	Battle *Battle `json:"battle"`

	RewardQueue   []RewardKind `json:"reward_queue"`
	CardOffers    []Skill      `json:"card_offers"`
	PassiveOffers []Passive    `json:"passive_offers"`

	ShopCards    []Skill   `json:"shop_cards"`
	ShopPassives []Passive `json:"shop_passives"`
	Removals     int       `json:"removals"`
}

// PassiveTotal sums the values of all passives of the given kind.
func (r *Run) PassiveTotal(kind PassiveKind) int {
	total := 0
	for _, p := range r.Passives {
		if p.Kind == kind {
			total += p.Value
		}
	}
	return total
}

// PassiveProduct multiplies the percentage values of all passives of the
// given kind. With none it returns 1.
func (r *Run) PassiveProduct(kind PassiveKind) float64 {
	product := 1.0
	for _, p := range r.Passives {
		if p.Kind == kind {
			product *= float64(p.Value) / 100.0
		}
	}
	return product
}

// HandSize is the level-start hand size.
func (r *Run) HandSize() int {
	return BaseHandSize + r.PassiveTotal(PassiveHandSizeBoost)
}

// MaxMana is the mana cap for the current battle.
func (r *Run) MaxMana() int {
	return BaseMaxMana + r.PassiveTotal(PassiveMaxMana)
}

// SupportEffectsDisabled reports whether the active trait suppresses support
// card effects.
func (r *Run) SupportEffectsDisabled() bool {
	return r.Trait != nil && r.Trait.DisableSupportEffects
}

// ArmorThreshold returns the active trait's armor threshold, or 0.
func (r *Run) ArmorThreshold() int {
	if r.Trait == nil {
		return 0
	}
	return r.Trait.ArmorThreshold
}

// FindDeckCard returns the index of the deck card with id, or -1.
func (r *Run) FindDeckCard(id string) int {
	return IndexOfSkill(r.Deck, id)
}

// IndexOfSkill returns the index of the card with id in pile, or -1.
func IndexOfSkill(pile []Skill, id string) int {
	for i := range pile {
		if pile[i].ID == id {
			return i
		}
	}
	return -1
}

// State is the game state that presents the reward.
func (k RewardKind) State() GameState {
	if k == RewardCard {
		return StateCardReward
	}
	return StateAbilityReward
}
