package progression

import (
	"github.com/ericogr/combo-chronicle/internal/game"
)

const (
	cardOfferCount    = 3
	passiveOfferCount = 3
)

// rarityWeights weight each rewardable card by its rarity.
var rarityWeights = map[game.Rarity]int{
	game.RarityCommon: 60,
	game.RarityRare:   30,
	game.RarityEpic:   10,
}

func rarityWeight(r game.Rarity) int {
	if w, ok := rarityWeights[r]; ok {
		return w
	}
	return 1
}

// OpenNextReward presents the head of the reward queue. Entries with
// nothing to offer are dropped; an empty queue opens the shop.
func (f *Flow) OpenNextReward() error {
	r := f.run
	r.CardOffers = nil
	r.PassiveOffers = nil
	for len(r.RewardQueue) > 0 {
		kind := r.RewardQueue[0]
		if kind == game.RewardCard {
			offers, err := f.cardOffers(cardOfferCount)
			if err != nil {
				return err
			}
			if len(offers) > 0 {
				r.CardOffers = offers
				r.State = kind.State()
				return nil
			}
		} else {
			tier := game.TierElite
			if kind == game.RewardAbilityCommon {
				tier = game.TierCommon
			}
			if offers := f.passiveOffers(tier, passiveOfferCount); len(offers) > 0 {
				r.PassiveOffers = offers
				r.State = kind.State()
				return nil
			}
		}
		r.RewardQueue = r.RewardQueue[1:]
	}
	return f.openShop()
}

// ChooseCard adds the offered card to the deck and moves on.
func (f *Flow) ChooseCard(cardID string) error {
	r := f.run
	if r.State != game.StateCardReward {
		return ErrWrongState
	}
	i := game.IndexOfSkill(r.CardOffers, cardID)
	if i < 0 {
		return ErrNotOffered
	}
	r.Deck = append(r.Deck, r.CardOffers[i])
	return f.popReward()
}

// ChooseAbility adds the offered passive to the run and moves on.
func (f *Flow) ChooseAbility(key string) error {
	r := f.run
	if r.State != game.StateAbilityReward {
		return ErrWrongState
	}
	i := indexOfPassive(r.PassiveOffers, key)
	if i < 0 {
		return ErrNotOffered
	}
	r.Passives = append(r.Passives, r.PassiveOffers[i])
	return f.popReward()
}

// SkipReward declines the current reward.
func (f *Flow) SkipReward() error {
	if s := f.run.State; s != game.StateCardReward && s != game.StateAbilityReward {
		return ErrWrongState
	}
	return f.popReward()
}

func (f *Flow) popReward() error {
	if len(f.run.RewardQueue) > 0 {
		f.run.RewardQueue = f.run.RewardQueue[1:]
	}
	return f.OpenNextReward()
}

// cardOffers draws up to n distinct rewardable templates, weighted by
// rarity, and instantiates them.
func (f *Flow) cardOffers(n int) ([]game.Skill, error) {
	pool := f.cat.Rewardable()
	var out []game.Skill
	for len(out) < n && len(pool) > 0 {
		total := 0
		for _, t := range pool {
			total += rarityWeight(t.Rarity)
		}
		roll := f.rng.Intn(total)
		for i, t := range pool {
			roll -= rarityWeight(t.Rarity)
			if roll >= 0 {
				continue
			}
			card, err := f.cat.NewCard(t.Key)
			if err != nil {
				return nil, err
			}
			out = append(out, card)
			pool = append(pool[:i], pool[i+1:]...)
			break
		}
	}
	return out, nil
}

// passiveOffers picks up to n distinct passives of tier. Passives the run
// already owns are only offered again once nothing else is left.
func (f *Flow) passiveOffers(tier game.PassiveTier, n int) []game.Passive {
	all := f.cat.PassivesUpTo(tier)
	pool := make([]game.Passive, 0, len(all))
	for _, p := range all {
		if indexOfPassive(f.run.Passives, p.Key) < 0 {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		pool = all
	}
	var out []game.Passive
	for _, i := range f.rng.Perm(len(pool)) {
		if len(out) == n {
			break
		}
		out = append(out, pool[i])
	}
	return out
}

func indexOfPassive(ps []game.Passive, key string) int {
	for i := range ps {
		if ps[i].Key == key {
			return i
		}
	}
	return -1
}
