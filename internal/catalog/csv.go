package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/ericogr/combo-chronicle/internal/game"
	"github.com/ericogr/combo-chronicle/internal/keys"
)

// File names of the catalog tables.
const (
	SkillsFile      = "skills.csv"
	EnemiesFile     = "enemies.csv"
	TraitsFile      = "traits.csv"
	PassivesFile    = "passives.csv"
	BuffsFile       = "buffs.csv"
	StarterDeckFile = "starter_deck.csv"
)

// row is one CSV record addressed by header name.
type row struct {
	file   string
	line   int
	fields map[string]string
}

func (r row) str(col string) string { return strings.TrimSpace(r.fields[col]) }

// key reads a column holding a content key in canonical form.
func (r row) key(col string) string { return keys.Normalize(r.fields[col]) }

func (r row) int(col string, def int) (int, error) {
	s := r.str(col)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %s: %w", r.file, r.line, col, err)
	}
	return v, nil
}

func (r row) bool(col string) (bool, error) {
	s := r.str(col)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s line %d: column %s: %w", r.file, r.line, col, err)
	}
	return v, nil
}

// readTable reads name from fsys. The first record is the header; required
// columns must be present in it.
func readTable(fsys fs.FS, name string, required ...string) ([]row, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", name, err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, req := range required {
		found := false
		for _, c := range cols {
			if c == req {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%s: missing column %q", name, req)
		}
	}

	var rows []row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		r := row{file: name, line: line, fields: make(map[string]string, len(cols))}
		for i, c := range cols {
			if i < len(record) {
				r.fields[c] = record[i]
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// LoadFS reads every catalog table from fsys.
func LoadFS(fsys fs.FS) (Tables, error) {
	var t Tables
	var err error
	if t.Buffs, err = loadBuffs(fsys); err != nil {
		return Tables{}, err
	}
	if t.Traits, err = loadTraits(fsys); err != nil {
		return Tables{}, err
	}
	if t.Skills, err = loadSkills(fsys); err != nil {
		return Tables{}, err
	}
	if t.Enemies, err = loadEnemies(fsys); err != nil {
		return Tables{}, err
	}
	if t.Passives, err = loadPassives(fsys); err != nil {
		return Tables{}, err
	}
	if t.StarterDeck, err = loadStarterDeck(fsys); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func loadSkills(fsys fs.FS) ([]game.SkillTemplate, error) {
	rows, err := readTable(fsys, SkillsFile, "key", "name", "category")
	if err != nil {
		return nil, err
	}
	out := make([]game.SkillTemplate, 0, len(rows))
	for _, r := range rows {
		s := game.SkillTemplate{
			Key:         r.key("key"),
			Name:        r.str("name"),
			Description: r.str("description"),
			Category:    game.SkillCategory(strings.ToLower(r.str("category"))),
			Rarity:      game.Rarity(strings.ToLower(r.str("rarity"))),
		}
		if s.Rarity == "" {
			s.Rarity = game.RarityCommon
		}
		for col, dst := range map[string]*int{
			"base_damage":      &s.BaseDamage,
			"employee_ratio":   &s.EmployeeRatio,
			"mana_cost":        &s.ManaCost,
			"delay":            &s.Delay,
			"work_style_delta": &s.WorkStyleDelta,
			"price":            &s.Price,
		} {
			if *dst, err = r.int(col, 0); err != nil {
				return nil, err
			}
		}
		if s.Filler, err = r.bool("filler"); err != nil {
			return nil, err
		}
		if t := r.str("effect_type"); t != "" {
			params, err := game.ParseEffectParams(r.str("effect_params"))
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", r.file, r.line, err)
			}
			s.Effect = game.EffectSpec{
				Type:    t,
				Trigger: game.EffectTrigger(r.str("effect_trigger")),
				Params:  params,
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func loadEnemies(fsys fs.FS) ([]game.Enemy, error) {
	rows, err := readTable(fsys, EnemiesFile, "key", "name", "quota", "floor_min", "floor_max")
	if err != nil {
		return nil, err
	}
	out := make([]game.Enemy, 0, len(rows))
	for _, r := range rows {
		e := game.Enemy{
			Key:         r.key("key"),
			Name:        r.str("name"),
			Description: r.str("description"),
			TraitKey:    r.key("trait"),
			DropTier:    game.DropTier(strings.ToLower(r.str("drop_tier"))),
		}
		if e.DropTier == "" {
			e.DropTier = game.DropNone
		}
		if e.Quota, err = r.int("quota", 0); err != nil {
			return nil, err
		}
		if e.FloorMin, err = r.int("floor_min", 1); err != nil {
			return nil, err
		}
		if e.FloorMax, err = r.int("floor_max", e.FloorMin); err != nil {
			return nil, err
		}
		if e.Boss, err = r.bool("boss"); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func loadTraits(fsys fs.FS) ([]game.Trait, error) {
	rows, err := readTable(fsys, TraitsFile, "key", "name")
	if err != nil {
		return nil, err
	}
	out := make([]game.Trait, 0, len(rows))
	for _, r := range rows {
		t := game.Trait{Key: r.key("key"), Name: r.str("name"), Description: r.str("description")}
		if t.ArmorThreshold, err = r.int("armor_threshold", 0); err != nil {
			return nil, err
		}
		if t.DisableSupportEffects, err = r.bool("disable_support_effects"); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func loadPassives(fsys fs.FS) ([]game.Passive, error) {
	rows, err := readTable(fsys, PassivesFile, "key", "name", "kind", "value")
	if err != nil {
		return nil, err
	}
	out := make([]game.Passive, 0, len(rows))
	for _, r := range rows {
		p := game.Passive{
			Key:         r.key("key"),
			Name:        r.str("name"),
			Description: r.str("description"),
			Kind:        game.PassiveKind(strings.ToLower(r.str("kind"))),
			Tier:        game.PassiveTier(strings.ToLower(r.str("tier"))),
		}
		if p.Tier == "" {
			p.Tier = game.TierCommon
		}
		if p.Value, err = r.int("value", 0); err != nil {
			return nil, err
		}
		if p.Price, err = r.int("price", 0); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func loadBuffs(fsys fs.FS) ([]game.BuffDefinition, error) {
	rows, err := readTable(fsys, BuffsFile, "key", "type")
	if err != nil {
		return nil, err
	}
	out := make([]game.BuffDefinition, 0, len(rows))
	for _, r := range rows {
		d := game.BuffDefinition{
			Key:         r.key("key"),
			Type:        game.BuffType(strings.ToLower(r.str("type"))),
			Name:        r.str("name"),
			Description: r.str("description"),
		}
		if d.DefaultValue, err = r.int("default_value", 1); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func loadStarterDeck(fsys fs.FS) ([]game.StarterDeckEntry, error) {
	rows, err := readTable(fsys, StarterDeckFile, "skill_key")
	if err != nil {
		return nil, err
	}
	out := make([]game.StarterDeckEntry, 0, len(rows))
	for _, r := range rows {
		e := game.StarterDeckEntry{SkillKey: r.key("skill_key")}
		if e.Copies, err = r.int("copies", 1); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
