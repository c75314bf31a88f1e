package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/combo-chronicle/internal/engine"
)

func TestPublishReachesRunSubscribers(t *testing.T) {
	h := NewHub(4)
	a := h.Subscribe("r1")
	b := h.Subscribe("r1")
	other := h.Subscribe("r2")

	assert.Equal(t, 2, h.Publish(engine.View{RunID: "r1", Gold: 10}))

	for _, s := range []*Subscription{a, b} {
		v := <-s.C
		assert.Equal(t, 10, v.Gold)
	}
	assert.Len(t, other.C, 0)
}

func TestSlowSubscriberDropsFrames(t *testing.T) {
	h := NewHub(2)
	s := h.Subscribe("r1")

	for i := 0; i < 5; i++ {
		h.Publish(engine.View{RunID: "r1", Gold: i})
	}
	require.Len(t, s.C, 2)
	assert.Equal(t, 0, (<-s.C).Gold)
	assert.Equal(t, 1, (<-s.C).Gold)
	assert.Equal(t, 1, h.Publish(engine.View{RunID: "r1", Gold: 9}))
}

func TestCloseSubscription(t *testing.T) {
	h := NewHub(0)
	s := h.Subscribe("r1")
	assert.Equal(t, 1, h.Subscribers("r1"))

	s.Close()
	s.Close()
	_, open := <-s.C
	assert.False(t, open)
	assert.Zero(t, h.Subscribers("r1"))
	assert.Zero(t, h.Publish(engine.View{RunID: "r1"}))
}

func TestDropAndCloseHub(t *testing.T) {
	h := NewHub(1)
	a := h.Subscribe("r1")
	b := h.Subscribe("r2")

	h.Drop("r1")
	_, open := <-a.C
	assert.False(t, open)
	a.Close()

	h.Close()
	_, open = <-b.C
	assert.False(t, open)

	late := h.Subscribe("r3")
	_, open = <-late.C
	assert.False(t, open)
	assert.Zero(t, h.Subscribers("r3"))
}
