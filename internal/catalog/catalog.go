// Package catalog holds the static game content: skills, enemies, traits,
// passives, buff definitions and the starter deck. A Catalog is built once
// at startup and never mutated afterwards, so it is safe to share between
// goroutines.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/ericogr/combo-chronicle/internal/game"
)

//go:embed data/*.csv
var defaultData embed.FS

var (
	ErrUnknownSkill = errors.New("unknown skill")
	ErrNoEnemy      = errors.New("no enemy for floor")
)

// Tables are the raw catalog rows, in file order.
type Tables struct {
	Skills      []game.SkillTemplate
	Enemies     []game.Enemy
	Traits      []game.Trait
	Passives    []game.Passive
	Buffs       []game.BuffDefinition
	StarterDeck []game.StarterDeckEntry
}

// Catalog is the validated, indexed content.
type Catalog struct {
	tables   Tables
	skills   map[string]game.SkillTemplate
	traits   map[string]game.Trait
	buffs    map[string]game.BuffDefinition
	maxFloor int
}

// Default loads the catalog embedded in the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// LoadDir loads the catalog CSV files from dir.
func LoadDir(dir string) (*Catalog, error) {
	return Load(os.DirFS(dir))
}

// Load reads and validates the catalog tables from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	t, err := LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	return New(t)
}

// New validates t and indexes it.
func New(t Tables) (*Catalog, error) {
	c := &Catalog{
		tables: t,
		skills: make(map[string]game.SkillTemplate, len(t.Skills)),
		traits: make(map[string]game.Trait, len(t.Traits)),
		buffs:  make(map[string]game.BuffDefinition, len(t.Buffs)),
	}

	for _, b := range t.Buffs {
		if b.Key == "" {
			return nil, fmt.Errorf("buff definition missing key")
		}
		if !b.Type.Valid() {
			return nil, fmt.Errorf("buff %s: unknown type %q", b.Key, b.Type)
		}
		if _, dup := c.buffs[b.Key]; dup {
			return nil, fmt.Errorf("duplicate buff key %q", b.Key)
		}
		c.buffs[b.Key] = b
	}

	for _, tr := range t.Traits {
		if tr.Key == "" {
			return nil, fmt.Errorf("trait missing key")
		}
		if _, dup := c.traits[tr.Key]; dup {
			return nil, fmt.Errorf("duplicate trait key %q", tr.Key)
		}
		c.traits[tr.Key] = tr
	}

	for _, s := range t.Skills {
		if err := c.validateSkill(s); err != nil {
			return nil, err
		}
		c.skills[s.Key] = s
	}

	passiveKeys := make(map[string]struct{}, len(t.Passives))
	for _, p := range t.Passives {
		if p.Key == "" {
			return nil, fmt.Errorf("passive missing key")
		}
		if _, dup := passiveKeys[p.Key]; dup {
			return nil, fmt.Errorf("duplicate passive key %q", p.Key)
		}
		passiveKeys[p.Key] = struct{}{}
		if !p.Kind.Valid() {
			return nil, fmt.Errorf("passive %s: unknown kind %q", p.Key, p.Kind)
		}
		if p.Tier != game.TierCommon && p.Tier != game.TierElite {
			return nil, fmt.Errorf("passive %s: unknown tier %q", p.Key, p.Tier)
		}
	}

	if len(t.Enemies) == 0 {
		return nil, fmt.Errorf("catalog has no enemies")
	}
	enemyKeys := make(map[string]struct{}, len(t.Enemies))
	for _, e := range t.Enemies {
		if e.Key == "" {
			return nil, fmt.Errorf("enemy missing key")
		}
		if _, dup := enemyKeys[e.Key]; dup {
			return nil, fmt.Errorf("duplicate enemy key %q", e.Key)
		}
		enemyKeys[e.Key] = struct{}{}
		if e.Quota <= 0 {
			return nil, fmt.Errorf("enemy %s: quota must be positive", e.Key)
		}
		if e.FloorMin < 1 || e.FloorMax < e.FloorMin {
			return nil, fmt.Errorf("enemy %s: invalid floor range %d-%d", e.Key, e.FloorMin, e.FloorMax)
		}
		if e.TraitKey != "" {
			if _, ok := c.traits[e.TraitKey]; !ok {
				return nil, fmt.Errorf("enemy %s: unknown trait %q", e.Key, e.TraitKey)
			}
		}
		switch e.DropTier {
		case game.DropNone, game.DropCommon, game.DropElite:
		default:
			return nil, fmt.Errorf("enemy %s: unknown drop tier %q", e.Key, e.DropTier)
		}
		if e.FloorMax > c.maxFloor {
			c.maxFloor = e.FloorMax
		}
	}
	for floor := 1; floor <= c.maxFloor; floor++ {
		if len(c.enemiesOn(floor)) == 0 {
			return nil, fmt.Errorf("no enemy covers floor %d", floor)
		}
	}

	total := 0
	for _, e := range t.StarterDeck {
		s, ok := c.skills[e.SkillKey]
		if !ok {
			return nil, fmt.Errorf("starter deck: %w %q", ErrUnknownSkill, e.SkillKey)
		}
		if s.Filler {
			return nil, fmt.Errorf("starter deck: %s is a filler card", e.SkillKey)
		}
		if e.Copies < 1 {
			return nil, fmt.Errorf("starter deck: %s needs at least one copy", e.SkillKey)
		}
		total += e.Copies
	}
	if total == 0 {
		return nil, fmt.Errorf("starter deck is empty")
	}
	return c, nil
}

func (c *Catalog) validateSkill(s game.SkillTemplate) error {
	if s.Key == "" {
		return fmt.Errorf("skill missing key")
	}
	if _, dup := c.skills[s.Key]; dup {
		return fmt.Errorf("duplicate skill key %q", s.Key)
	}
	if s.Category != game.CategoryAttack && s.Category != game.CategorySupport {
		return fmt.Errorf("skill %s: unknown category %q", s.Key, s.Category)
	}
	switch s.Rarity {
	case game.RarityCommon, game.RarityRare, game.RarityEpic:
	default:
		return fmt.Errorf("skill %s: unknown rarity %q", s.Key, s.Rarity)
	}
	if s.ManaCost < 0 || s.Delay < 0 {
		return fmt.Errorf("skill %s: costs must not be negative", s.Key)
	}
	eff, err := game.ParseEffect(s.Effect)
	if err != nil {
		return fmt.Errorf("skill %s effect %s: %w", s.Key, s.Effect, err)
	}
	if ab, ok := eff.(game.AddBuff); ok {
		if _, known := c.buffs[ab.BuffKey]; !known {
			return fmt.Errorf("skill %s: unknown buff %q", s.Key, ab.BuffKey)
		}
	}
	return nil
}

// SkillTemplate looks a skill up by key.
func (c *Catalog) SkillTemplate(key string) (game.SkillTemplate, bool) {
	s, ok := c.skills[key]
	return s, ok
}

// BuffDefinition looks a buff definition up by key.
func (c *Catalog) BuffDefinition(key string) (game.BuffDefinition, bool) {
	b, ok := c.buffs[key]
	return b, ok
}

// Trait looks a trait up by key.
func (c *Catalog) Trait(key string) (game.Trait, bool) {
	t, ok := c.traits[key]
	return t, ok
}

func (c *Catalog) Tables() Tables { return c.tables }

func (c *Catalog) Skills() []game.SkillTemplate { return c.tables.Skills }

func (c *Catalog) Enemies() []game.Enemy { return c.tables.Enemies }

func (c *Catalog) Passives() []game.Passive { return c.tables.Passives }

// MaxFloor is the last floor any enemy appears on.
func (c *Catalog) MaxFloor() int { return c.maxFloor }

// Rewardable returns the skills that may be offered as rewards or sold in
// the shop, in key order.
func (c *Catalog) Rewardable() []game.SkillTemplate {
	out := make([]game.SkillTemplate, 0, len(c.tables.Skills))
	for _, s := range c.tables.Skills {
		if !s.Filler {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// PassivesUpTo returns the passives available for tier. Common drops only
// see common passives; elite drops see every passive.
func (c *Catalog) PassivesUpTo(tier game.PassiveTier) []game.Passive {
	out := make([]game.Passive, 0, len(c.tables.Passives))
	for _, p := range c.tables.Passives {
		if tier == game.TierElite || p.Tier == game.TierCommon {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) enemiesOn(floor int) []game.Enemy {
	var out []game.Enemy
	for _, e := range c.tables.Enemies {
		if floor >= e.FloorMin && floor <= e.FloorMax {
			out = append(out, e)
		}
	}
	return out
}

// EnemyForFloor picks the enemy for floor deterministically: when several
// enemies share a floor they rotate in file order. Floors past the last one
// reuse the last floor's enemies.
func (c *Catalog) EnemyForFloor(floor int) (game.Enemy, *game.Trait, error) {
	if floor < 1 {
		return game.Enemy{}, nil, fmt.Errorf("%w %d", ErrNoEnemy, floor)
	}
	lookup := floor
	if lookup > c.maxFloor {
		lookup = c.maxFloor
	}
	candidates := c.enemiesOn(lookup)
	if len(candidates) == 0 {
		return game.Enemy{}, nil, fmt.Errorf("%w %d", ErrNoEnemy, floor)
	}
	e := candidates[(floor-candidates[0].FloorMin)%len(candidates)]
	if e.TraitKey == "" {
		return e, nil, nil
	}
	t := c.traits[e.TraitKey]
	return e, &t, nil
}

// NewCard instantiates the skill key as a fresh card with a unique id.
func (c *Catalog) NewCard(key string) (game.Skill, error) {
	tmpl, ok := c.skills[key]
	if !ok {
		return game.Skill{}, fmt.Errorf("%w %q", ErrUnknownSkill, key)
	}
	return game.NewSkill(uuid.NewString(), tmpl)
}

// StarterDeck builds the opening deck of a run.
func (c *Catalog) StarterDeck() ([]game.Skill, error) {
	var deck []game.Skill
	for _, e := range c.tables.StarterDeck {
		for i := 0; i < e.Copies; i++ {
			card, err := c.NewCard(e.SkillKey)
			if err != nil {
				return nil, err
			}
			deck = append(deck, card)
		}
	}
	return deck, nil
}
