package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/combo-chronicle/internal/catalog"
	"github.com/ericogr/combo-chronicle/internal/engine"
	"github.com/ericogr/combo-chronicle/internal/game"
	"github.com/ericogr/combo-chronicle/internal/progression"
)

type mockResultRepo struct {
	mu    sync.Mutex
	saved []game.RunResult
	err   error
}

func (m *mockResultRepo) SaveRunResult(r *game.RunResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, *r)
	return m.err
}

type capturePublisher struct {
	mu    sync.Mutex
	views []engine.View
}

func (c *capturePublisher) Publish(v engine.View) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views = append(c.views, v)
	return 1
}

func (c *capturePublisher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.views)
}

func newRuns(t *testing.T, opts Options) (*Runs, *mockResultRepo, *capturePublisher) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	repo := &mockResultRepo{}
	pub := &capturePublisher{}
	if opts.Seed == 0 {
		opts.Seed = 11
	}
	return NewRuns(cat, repo, pub, opts), repo, pub
}

func runOf(t *testing.T, s *Runs, id string) *game.Run {
	t.Helper()
	sess, err := s.lookup(id)
	require.NoError(t, err)
	return sess.flow.Run()
}

func TestCreateAndGet(t *testing.T) {
	s, _, pub := newRuns(t, Options{})
	v, err := s.Create()
	require.NoError(t, err)
	assert.Equal(t, game.StatePlaying, v.State)
	assert.Len(t, v.Hand, game.BaseHandSize)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 1, pub.count())

	got, err := s.Get(v.RunID)
	require.NoError(t, err)
	assert.Equal(t, v.RunID, got.RunID)

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, _, err = s.PlayCard("nope", "x", false)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSeededRunsAreReproducible(t *testing.T) {
	a, _, _ := newRuns(t, Options{Seed: 42})
	b, _, _ := newRuns(t, Options{Seed: 42})
	va, err := a.Create()
	require.NoError(t, err)
	vb, err := b.Create()
	require.NoError(t, err)

	keys := func(v engine.View) []string {
		var out []string
		for _, c := range v.Hand {
			out = append(out, c.TemplateKey)
		}
		return out
	}
	assert.Equal(t, keys(va), keys(vb))
	assert.NotEqual(t, va.RunID, vb.RunID)
}

func TestPlayCard(t *testing.T) {
	s, _, pub := newRuns(t, Options{})
	v, err := s.Create()
	require.NoError(t, err)

	out, after, err := s.PlayCard(v.RunID, "missing", false)
	assert.ErrorIs(t, err, ErrActionRejected)
	assert.Equal(t, engine.RejectCardNotInHand, out.Reason)
	assert.Equal(t, v.Hand, after.Hand)
	assert.Equal(t, 1, pub.count(), "rejections are not published")

	card := v.Hand[0]
	out, after, err = s.PlayCard(v.RunID, card.ID, false)
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Equal(t, game.StepIdle, after.Step)
	assert.Equal(t, card.Delay, after.HasteUsed)
	assert.NotEmpty(t, after.Summary)
	assert.Equal(t, 2, pub.count())
}

func TestStagedPlayAndAdvance(t *testing.T) {
	s, _, _ := newRuns(t, Options{})
	v, err := s.Create()
	require.NoError(t, err)

	out, after, err := s.PlayCard(v.RunID, v.Hand[0].ID, true)
	require.NoError(t, err)
	require.True(t, out.Accepted)
	assert.Equal(t, game.StepPayCost, after.Step)

	_, _, err = s.PlayCard(v.RunID, after.Hand[0].ID, false)
	assert.ErrorIs(t, err, ErrActionRejected)

	for i := 0; ; i++ {
		require.Less(t, i, 20)
		more, _, err := s.Advance(v.RunID)
		require.NoError(t, err)
		if !more {
			break
		}
	}
	got, err := s.Get(v.RunID)
	require.NoError(t, err)
	assert.Equal(t, game.StepIdle, got.Step)
}

func TestWrongStateIsMapped(t *testing.T) {
	s, _, _ := newRuns(t, Options{})
	v, err := s.Create()
	require.NoError(t, err)

	_, err = s.ChooseCard(v.RunID, "x")
	assert.ErrorIs(t, err, ErrWrongState)
	assert.ErrorIs(t, err, progression.ErrWrongState)

	_, err = s.LeaveShop(v.RunID)
	assert.ErrorIs(t, err, ErrWrongState)
	_, err = s.Restart(v.RunID)
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestShopRefusalKeepsGold(t *testing.T) {
	s, _, _ := newRuns(t, Options{})
	v, err := s.Create()
	require.NoError(t, err)
	r := runOf(t, s, v.RunID)

	r.Gold = r.Enemy.Quota
	_, after, err := s.Rest(v.RunID)
	require.NoError(t, err)
	require.Equal(t, game.StateCardReward, after.State)

	after, err = s.SkipReward(v.RunID)
	require.NoError(t, err)
	require.Equal(t, game.StateShop, after.State)
	require.NotEmpty(t, after.ShopCards)

	r.Gold = 0
	_, err = s.BuyCard(v.RunID, after.ShopCards[0].ID)
	assert.ErrorIs(t, err, ErrActionRejected)
	assert.True(t, errors.Is(err, progression.ErrNotEnoughGold))
	assert.Zero(t, r.Gold)

	_, err = s.RemoveCard(v.RunID, "missing")
	assert.ErrorIs(t, err, progression.ErrUnknownCard)

	r.Gold = 1000
	after, err = s.BuyCard(v.RunID, after.ShopCards[0].ID)
	require.NoError(t, err)
	assert.Len(t, after.Deck, 11)

	after, err = s.LeaveShop(v.RunID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Floor)
}

func TestFinishedRunIsRecordedOnce(t *testing.T) {
	s, repo, _ := newRuns(t, Options{})
	v, err := s.Create()
	require.NoError(t, err)

	lose := func() {
		r := runOf(t, s, v.RunID)
		r.Life = 1
		r.Battle.HasteUsed = 95
		_, after, err := s.Rest(v.RunID)
		require.NoError(t, err)
		require.Equal(t, game.StateGameOver, after.State)
	}

	lose()
	require.Len(t, repo.saved, 1)
	assert.Equal(t, v.RunID, repo.saved[0].RunID)
	assert.Equal(t, game.StateGameOver, repo.saved[0].Outcome)
	assert.Equal(t, 10, repo.saved[0].DeckSize)

	_, _, err = s.Rest(v.RunID)
	assert.ErrorIs(t, err, ErrWrongState)
	_, err = s.Get(v.RunID)
	require.NoError(t, err)
	assert.Len(t, repo.saved, 1)

	after, err := s.Restart(v.RunID)
	require.NoError(t, err)
	assert.Equal(t, game.StatePlaying, after.State)
	assert.Equal(t, v.RunID, after.RunID)

	lose()
	assert.Len(t, repo.saved, 2)
}

func TestSaveFailureDoesNotFailAction(t *testing.T) {
	s, repo, _ := newRuns(t, Options{})
	repo.err = errors.New("disk full")
	v, err := s.Create()
	require.NoError(t, err)

	r := runOf(t, s, v.RunID)
	r.Life = 1
	r.Battle.HasteUsed = 95
	_, after, err := s.Rest(v.RunID)
	require.NoError(t, err)
	assert.Equal(t, game.StateGameOver, after.State)
}

func TestEvictIdleRuns(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s, _, _ := newRuns(t, Options{IdleTimeout: time.Minute, Now: clock})

	old, err := s.Create()
	require.NoError(t, err)
	now = now.Add(50 * time.Second)
	fresh, err := s.Create()
	require.NoError(t, err)

	now = now.Add(20 * time.Second)
	assert.Equal(t, []string{old.RunID}, s.Evict())
	assert.Equal(t, 1, s.Count())
	_, err = s.Get(fresh.RunID)
	require.NoError(t, err)
	_, err = s.Get(old.RunID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestEvictDisabled(t *testing.T) {
	s, _, _ := newRuns(t, Options{})
	_, err := s.Create()
	require.NoError(t, err)
	assert.Nil(t, s.Evict())
	assert.Equal(t, 1, s.Count())
}
