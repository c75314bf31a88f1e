package game

import (
	"gorm.io/gorm"
)

// SkillCategory separates attack cards from support cards. Several buffs and
// traits only look at one of the two.
type SkillCategory string

const (
	CategoryAttack  SkillCategory = "attack"
	CategorySupport SkillCategory = "support"
)

// Rarity drives reward weighting and shop prices.
type Rarity string

const (
	RarityCommon Rarity = "common"
	RarityRare   Rarity = "rare"
	RarityEpic   Rarity = "epic"
)

// SkillTemplate is a card definition from the content catalog. Runtime cards
// are built from it with NewSkill and never share identity with the template.
type SkillTemplate struct {
	gorm.Model     `json:"-"`
	Key            string        `json:"key" gorm:"uniqueIndex"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Category       SkillCategory `json:"category"`
	BaseDamage     int           `json:"base_damage"`
	EmployeeRatio  int           `json:"employee_ratio"`
	ManaCost       int           `json:"mana_cost"`
	Delay          int           `json:"delay"`
	WorkStyleDelta int           `json:"work_style_delta"`
	Rarity         Rarity        `json:"rarity"`
	Price          int           `json:"price"`
	// Filler cards (generated slashes, the rest dummy) never go back into
	// the draw pile when the discard pile is recycled.
	Filler bool `json:"filler"`
	// Effect keeps the loose catalog form; it is compiled with ParseEffect
	// whenever a runtime card is created.
	Effect EffectSpec `json:"effect" gorm:"serializer:json"`
}

// TableName keeps catalog tables grouped under a common suffix.
func (SkillTemplate) TableName() string { return "skill_templates" }

// Skill is a physical card instance. ID is unique per instance even when two
// cards come from the same template, so per-instance state such as
// Multiplier can diverge between copies.
type Skill struct {
	ID             string        `json:"id"`
	TemplateKey    string        `json:"template_key"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Category       SkillCategory `json:"category"`
	BaseDamage     int           `json:"base_damage"`
	EmployeeRatio  int           `json:"employee_ratio"`
	ManaCost       int           `json:"mana_cost"`
	Delay          int           `json:"delay"`
	WorkStyleDelta int           `json:"work_style_delta"`
	Rarity         Rarity        `json:"rarity"`
	Price          int           `json:"price"`
	Filler         bool          `json:"filler"`
	Multiplier     float64       `json:"multiplier"`
	EffectSpec     EffectSpec    `json:"effect"`
	Effect         Effect        `json:"-"`
}

// NewSkill instantiates a card from tmpl with the given id.
func NewSkill(id string, tmpl SkillTemplate) (Skill, error) {
	eff, err := ParseEffect(tmpl.Effect)
	if err != nil {
		return Skill{}, err
	}
	return Skill{
		ID:             id,
		TemplateKey:    tmpl.Key,
		Name:           tmpl.Name,
		Description:    tmpl.Description,
		Category:       tmpl.Category,
		BaseDamage:     tmpl.BaseDamage,
		EmployeeRatio:  tmpl.EmployeeRatio,
		ManaCost:       tmpl.ManaCost,
		Delay:          tmpl.Delay,
		WorkStyleDelta: tmpl.WorkStyleDelta,
		Rarity:         tmpl.Rarity,
		Price:          tmpl.Price,
		Filler:         tmpl.Filler,
		Multiplier:     1,
		EffectSpec:     tmpl.Effect,
		Effect:         eff,
	}, nil
}

// IsAttack reports whether the card belongs to the attack category.
func (s Skill) IsAttack() bool { return s.Category == CategoryAttack }

// IsSupport reports whether the card belongs to the support category.
func (s Skill) IsSupport() bool { return s.Category == CategorySupport }

// DamageMultiplier returns the per-instance multiplier, treating an unset
// value as 1.
func (s Skill) DamageMultiplier() float64 {
	if s.Multiplier <= 0 {
		return 1
	}
	return s.Multiplier
}

// DropTier selects the reward flow after an enemy is beaten.
type DropTier string

const (
	DropNone   DropTier = "none"
	DropCommon DropTier = "common"
	DropElite  DropTier = "elite"
)

// Enemy is a level definition: the quota to reach before the deadline and
// the floors it can appear on.
type Enemy struct {
	gorm.Model  `json:"-"`
	Key         string   `json:"key" gorm:"uniqueIndex"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Quota       int      `json:"quota"`
	FloorMin    int      `json:"floor_min"`
	FloorMax    int      `json:"floor_max"`
	TraitKey    string   `json:"trait_key"`
	DropTier    DropTier `json:"drop_tier"`
	Boss        bool     `json:"boss"`
}

func (Enemy) TableName() string { return "enemy_templates" }

// Trait is a battle-wide rule attached to an enemy.
type Trait struct {
	gorm.Model  `json:"-"`
	Key         string `json:"key" gorm:"uniqueIndex"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// ArmorThreshold negates any hit whose final value is in (0, threshold].
	ArmorThreshold        int  `json:"armor_threshold"`
	DisableSupportEffects bool `json:"disable_support_effects"`
}

func (Trait) TableName() string { return "trait_templates" }

// PassiveKind names the stat a passive ability changes.
type PassiveKind string

const (
	PassiveEmployeeAdd   PassiveKind = "employee_add"
	PassiveEmployeeMult  PassiveKind = "employee_mult"
	PassiveHandSizeBoost PassiveKind = "hand_size_boost"
	PassiveDamageFlat    PassiveKind = "damage_flat"
	PassiveMaxMana       PassiveKind = "max_mana"
	PassiveMaxHaste      PassiveKind = "max_haste"
)

// Valid reports whether k is a known passive kind.
func (k PassiveKind) Valid() bool {
	switch k {
	case PassiveEmployeeAdd, PassiveEmployeeMult, PassiveHandSizeBoost,
		PassiveDamageFlat, PassiveMaxMana, PassiveMaxHaste:
		return true
	}
	return false
}

// PassiveTier restricts which passives a common drop may offer.
type PassiveTier string

const (
	TierCommon PassiveTier = "common"
	TierElite  PassiveTier = "elite"
)

// Passive is a permanent ability collected during a run. For
// PassiveEmployeeMult the value is a percentage (150 means x1.5).
type Passive struct {
	gorm.Model  `json:"-"`
	Key         string      `json:"key" gorm:"uniqueIndex"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Kind        PassiveKind `json:"kind"`
	Value       int         `json:"value"`
	Tier        PassiveTier `json:"tier"`
	Price       int         `json:"price"`
}

func (Passive) TableName() string { return "passive_templates" }

// BuffDefinition describes a buff that card effects may grant by key.
type BuffDefinition struct {
	gorm.Model   `json:"-"`
	Key          string   `json:"key" gorm:"uniqueIndex"`
	Type         BuffType `json:"type"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	DefaultValue int      `json:"default_value"`
}

func (BuffDefinition) TableName() string { return "buff_definitions" }

// StarterDeckEntry lists how many copies of a skill a new run starts with.
type StarterDeckEntry struct {
	gorm.Model `json:"-"`
	SkillKey   string `json:"skill_key" gorm:"index"`
	Copies     int    `json:"copies"`
}

func (StarterDeckEntry) TableName() string { return "starter_deck_entries" }
