package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/engine"
	"github.com/ericogr/combo-chronicle/internal/game"
	"github.com/ericogr/combo-chronicle/internal/logging"
	"github.com/ericogr/combo-chronicle/internal/progression"
)

var (
	ErrRunNotFound    = errors.New("run not found")
	ErrActionRejected = errors.New("action rejected")
	ErrWrongState     = errors.New("action not allowed in current state")
)

// ResultRepo stores the outcome of finished runs.
type ResultRepo interface {
	SaveRunResult(r *game.RunResult) error
}

// Publisher receives a snapshot after every accepted transition.
type Publisher interface {
	Publish(v engine.View) int
}

// Options tune a Runs registry.
type Options struct {
	// Seed makes run randomness reproducible. Zero seeds from the clock.
	Seed int64
	// IdleTimeout evicts runs untouched for this long. Zero keeps runs
	// until the process exits.
	IdleTimeout time.Duration
	Now         func() time.Time
}

type session struct {
	mu       sync.Mutex
	flow     *progression.Flow
	lastSeen time.Time
	recorded bool
}

// Runs is the in-memory registry of live runs. Operations on one run are
// serialized; different runs proceed independently.
type Runs struct {
	mu    sync.RWMutex
	runs  map[string]*session
	cat   progression.Content
	repo  ResultRepo
	pub   Publisher
	opts  Options
	seeds int64
}

// NewRuns builds a registry. repo and pub may be nil.
func NewRuns(cat progression.Content, repo ResultRepo, pub Publisher, opts Options) *Runs {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runs{
		runs: make(map[string]*session),
		cat:  cat,
		repo: repo,
		pub:  pub,
		opts: opts,
	}
}

func (s *Runs) newRand() *rand.Rand {
	s.mu.Lock()
	s.seeds++
	n := s.seeds
	s.mu.Unlock()
	if s.opts.Seed != 0 {
		return rand.New(rand.NewSource(s.opts.Seed + n))
	}
	return rand.New(rand.NewSource(s.opts.Now().UnixNano() + n))
}

// Create starts a new run and registers it.
func (s *Runs) Create() (engine.View, error) {
	flow, err := progression.NewRun(s.cat, s.newRand())
	if err != nil {
		return engine.View{}, fmt.Errorf("create run: %w", err)
	}
	sess := &session{flow: flow, lastSeen: s.opts.Now()}
	s.mu.Lock()
	s.runs[flow.ID()] = sess
	s.mu.Unlock()

	logging.Info("run created", logging.Fields{constants.LogFieldRunID: flow.ID()})
	v := flow.Snapshot()
	s.publish(v)
	return v, nil
}

// Get returns the current snapshot of runID.
func (s *Runs) Get(runID string) (engine.View, error) {
	sess, err := s.lookup(runID)
	if err != nil {
		return engine.View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.opts.Now()
	return sess.flow.Snapshot(), nil
}

// Count is the number of registered runs.
func (s *Runs) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

func (s *Runs) lookup(runID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.runs[runID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return sess, nil
}

// with runs fn under the run's lock, then records and publishes the result.
func (s *Runs) with(runID string, fn func(f *progression.Flow) error) (engine.View, error) {
	sess, err := s.lookup(runID)
	if err != nil {
		return engine.View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.opts.Now()

	before := sess.flow.State()
	if err := fn(sess.flow); err != nil {
		return sess.flow.Snapshot(), err
	}
	if before.Finished() && !sess.flow.State().Finished() {
		sess.recorded = false
	}
	s.record(sess)
	v := sess.flow.Snapshot()
	s.publish(v)
	return v, nil
}

func (s *Runs) record(sess *session) {
	r := sess.flow.Run()
	if sess.recorded || !r.State.Finished() {
		return
	}
	sess.recorded = true
	if s.repo == nil {
		return
	}
	res := r.Result(s.opts.Now())
	if err := s.repo.SaveRunResult(&res); err != nil {
		logging.Error("failed to save run result", err, logging.Fields{constants.LogFieldRunID: r.ID})
	}
}

func (s *Runs) publish(v engine.View) {
	if s.pub != nil {
		s.pub.Publish(v)
	}
}

// Evict removes runs idle for longer than the configured timeout and
// returns their ids.
func (s *Runs) Evict() []string {
	if s.opts.IdleTimeout <= 0 {
		return nil
	}
	cutoff := s.opts.Now().Add(-s.opts.IdleTimeout)
	s.mu.Lock()
	defer s.mu.Unlock()
	var evicted []string
	for id, sess := range s.runs {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.runs, id)
			evicted = append(evicted, id)
		}
	}
	if len(evicted) > 0 {
		logging.Info("evicted idle runs", logging.Fields{"count": len(evicted)})
	}
	return evicted
}
