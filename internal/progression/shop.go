package progression

import (
	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/engine"
	"github.com/ericogr/combo-chronicle/internal/game"
	"github.com/ericogr/combo-chronicle/internal/logging"
)

const (
	shopCardCount    = 3
	shopPassiveCount = 2
)

func (f *Flow) openShop() error {
	r := f.run
	cards, err := f.cardOffers(shopCardCount)
	if err != nil {
		return err
	}
	r.RewardQueue = nil
	r.ShopCards = cards
	r.ShopPassives = f.passiveOffers(game.TierElite, shopPassiveCount)
	r.State = game.StateShop
	return nil
}

// BuyCard pays for a shop card and adds it to the deck.
func (f *Flow) BuyCard(cardID string) error {
	r := f.run
	if r.State != game.StateShop {
		return ErrWrongState
	}
	i := game.IndexOfSkill(r.ShopCards, cardID)
	if i < 0 {
		return ErrNotOffered
	}
	card := r.ShopCards[i]
	if err := f.pay(card.Price); err != nil {
		return err
	}
	r.Deck = append(r.Deck, card)
	r.ShopCards = append(r.ShopCards[:i:i], r.ShopCards[i+1:]...)
	logging.Info("card bought", logging.Fields{
		constants.LogFieldRunID: r.ID,
		constants.LogFieldKey:   card.TemplateKey,
		constants.LogFieldGold:  r.Gold,
	})
	return nil
}

// BuyPassive pays for a shop passive and adds it to the run.
func (f *Flow) BuyPassive(key string) error {
	r := f.run
	if r.State != game.StateShop {
		return ErrWrongState
	}
	i := indexOfPassive(r.ShopPassives, key)
	if i < 0 {
		return ErrNotOffered
	}
	p := r.ShopPassives[i]
	if err := f.pay(p.Price); err != nil {
		return err
	}
	r.Passives = append(r.Passives, p)
	r.ShopPassives = append(r.ShopPassives[:i:i], r.ShopPassives[i+1:]...)
	logging.Info("passive bought", logging.Fields{
		constants.LogFieldRunID: r.ID,
		constants.LogFieldKey:   p.Key,
		constants.LogFieldGold:  r.Gold,
	})
	return nil
}

// RemoveCard permanently removes a card from the deck. Each removal raises
// the price of the next one.
func (f *Flow) RemoveCard(cardID string) error {
	r := f.run
	if r.State != game.StateShop {
		return ErrWrongState
	}
	i := r.FindDeckCard(cardID)
	if i < 0 {
		return ErrUnknownCard
	}
	if len(r.Deck) <= 1 {
		return ErrLastCard
	}
	if err := f.pay(engine.RemovalPrice(r.Removals)); err != nil {
		return err
	}
	key := r.Deck[i].TemplateKey
	r.Deck = append(r.Deck[:i:i], r.Deck[i+1:]...)
	r.Removals++
	logging.Info("card removed", logging.Fields{
		constants.LogFieldRunID: r.ID,
		constants.LogFieldKey:   key,
		constants.LogFieldGold:  r.Gold,
	})
	return nil
}

// LeaveShop moves on to the next floor.
func (f *Flow) LeaveShop() error {
	if f.run.State != game.StateShop {
		return ErrWrongState
	}
	return f.StartLevel(f.run.Floor + 1)
}

func (f *Flow) pay(price int) error {
	if f.run.Gold < price {
		return ErrNotEnoughGold
	}
	f.run.Gold -= price
	return nil
}
