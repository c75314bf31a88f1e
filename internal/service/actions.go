package service

import (
	"errors"
	"fmt"

	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/engine"
	"github.com/ericogr/combo-chronicle/internal/logging"
	"github.com/ericogr/combo-chronicle/internal/progression"
)

// wrap maps progression errors onto the service sentinels while keeping
// the original error in the chain.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, progression.ErrWrongState):
		return fmt.Errorf("%s: %w: %w", op, ErrWrongState, err)
	case errors.Is(err, progression.ErrNotEnoughGold),
		errors.Is(err, progression.ErrNotOffered),
		errors.Is(err, progression.ErrUnknownCard),
		errors.Is(err, progression.ErrLastCard):
		return fmt.Errorf("%s: %w: %w", op, ErrActionRejected, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func rejection(op string, out engine.Outcome) error {
	if out.Accepted {
		return nil
	}
	if out.Reason == engine.RejectNotPlaying {
		return fmt.Errorf("%s: %w", op, ErrWrongState)
	}
	return fmt.Errorf("%s: %w (%s)", op, ErrActionRejected, out.Reason)
}

// PlayCard plays cardID. A staged play only commits the card; Advance then
// resolves it one step at a time.
func (s *Runs) PlayCard(runID, cardID string, staged bool) (engine.Outcome, engine.View, error) {
	var out engine.Outcome
	v, err := s.with(runID, func(f *progression.Flow) error {
		if staged {
			out = f.Begin(cardID)
			return rejection("play card", out)
		}
		var err error
		out, err = f.PlayCard(cardID)
		if err != nil {
			return wrap("play card", err)
		}
		return rejection("play card", out)
	})
	if errors.Is(err, ErrActionRejected) {
		logging.Warn("play rejected", logging.Fields{
			constants.LogFieldRunID:  runID,
			constants.LogFieldCardID: cardID,
			constants.LogFieldReason: string(out.Reason),
		})
	}
	return out, v, err
}

// Rest spends rest haste on runID.
func (s *Runs) Rest(runID string) (engine.Outcome, engine.View, error) {
	var out engine.Outcome
	v, err := s.with(runID, func(f *progression.Flow) error {
		var err error
		out, err = f.Rest()
		if err != nil {
			return wrap("rest", err)
		}
		return rejection("rest", out)
	})
	return out, v, err
}

// Advance runs one step of a staged resolution. It reports whether more
// steps remain.
func (s *Runs) Advance(runID string) (bool, engine.View, error) {
	var more bool
	v, err := s.with(runID, func(f *progression.Flow) error {
		var err error
		more, err = f.Advance()
		return wrap("advance", err)
	})
	return more, v, err
}

func (s *Runs) ChooseCard(runID, cardID string) (engine.View, error) {
	return s.with(runID, func(f *progression.Flow) error {
		return wrap("choose card", f.ChooseCard(cardID))
	})
}

func (s *Runs) ChooseAbility(runID, key string) (engine.View, error) {
	return s.with(runID, func(f *progression.Flow) error {
		return wrap("choose ability", f.ChooseAbility(key))
	})
}

func (s *Runs) SkipReward(runID string) (engine.View, error) {
	return s.with(runID, func(f *progression.Flow) error {
		return wrap("skip reward", f.SkipReward())
	})
}

func (s *Runs) BuyCard(runID, cardID string) (engine.View, error) {
	return s.with(runID, func(f *progression.Flow) error {
		return wrap("buy card", f.BuyCard(cardID))
	})
}

func (s *Runs) BuyPassive(runID, key string) (engine.View, error) {
	return s.with(runID, func(f *progression.Flow) error {
		return wrap("buy passive", f.BuyPassive(key))
	})
}

func (s *Runs) RemoveCard(runID, cardID string) (engine.View, error) {
	return s.with(runID, func(f *progression.Flow) error {
		return wrap("remove card", f.RemoveCard(cardID))
	})
}

func (s *Runs) LeaveShop(runID string) (engine.View, error) {
	return s.with(runID, func(f *progression.Flow) error {
		return wrap("leave shop", f.LeaveShop())
	})
}

// Restart begins a new run under runID once the current one is finished.
func (s *Runs) Restart(runID string) (engine.View, error) {
	return s.with(runID, func(f *progression.Flow) error {
		return wrap("restart", f.Restart())
	})
}
