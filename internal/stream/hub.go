// Package stream fans run snapshots out to live subscribers. Publishing
// never blocks: a subscriber that falls behind loses frames.
package stream

import (
	"sync"

	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/engine"
	"github.com/ericogr/combo-chronicle/internal/logging"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 16

// Subscription receives snapshots for one run until Close is called.
type Subscription struct {
	C <-chan engine.View

	ch    chan engine.View
	runID string
	hub   *Hub
	once  sync.Once
}

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.remove(s) })
}

// Hub keeps the subscribers of every run.
type Hub struct {
	mu     sync.Mutex
	buffer int
	subs   map[string]map[*Subscription]struct{}
	closed bool
}

// NewHub builds a hub. buffer <= 0 selects DefaultBuffer.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{buffer: buffer, subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a subscriber for runID.
func (h *Hub) Subscribe(runID string) *Subscription {
	ch := make(chan engine.View, h.buffer)
	s := &Subscription{C: ch, ch: ch, runID: runID, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return s
	}
	set, ok := h.subs[runID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[runID] = set
	}
	set[s] = struct{}{}
	return s
}

// Publish delivers v to every subscriber of its run. It returns the number
// of subscribers that received the frame.
func (h *Hub) Publish(v engine.View) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for s := range h.subs[v.RunID] {
		select {
		case s.ch <- v:
			delivered++
		default:
			logging.Warn("stream subscriber lagging; frame dropped", logging.Fields{
				constants.LogFieldRunID: v.RunID,
			})
		}
	}
	return delivered
}

// Subscribers counts the live subscribers of runID.
func (h *Hub) Subscribers(runID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[runID])
}

// Drop closes every subscription of runID.
func (h *Hub) Drop(runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[runID] {
		close(s.ch)
	}
	delete(h.subs, runID)
}

// Close shuts every subscription down. Later subscriptions are closed
// immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, set := range h.subs {
		for s := range set {
			close(s.ch)
		}
		delete(h.subs, id)
	}
	h.closed = true
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[s.runID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	close(s.ch)
	if len(set) == 0 {
		delete(h.subs, s.runID)
	}
}
