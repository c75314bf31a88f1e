package dedupe

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSharesInFlightCall(t *testing.T) {
	var g Group
	var calls int32
	release := make(chan struct{})
	started := make(chan struct{})

	const callers = 5
	var wg sync.WaitGroup
	results := make([]int, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, _, err := Do(&g, "top", func() (int, error) {
			atomic.AddInt32(&calls, 1)
			close(started)
			<-release
			return 42, nil
		})
		assert.NoError(t, err)
		results[0] = v
	}()
	<-started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := Do(&g, "top", func() (int, error) {
				atomic.AddInt32(&calls, 1)
				return -1, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, 42, results[0])
	for i := 1; i < callers; i++ {
		assert.Contains(t, []int{42, -1}, results[i])
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestDoReturnsError(t *testing.T) {
	var g Group
	boom := errors.New("boom")
	v, _, err := Do(&g, "k", func() ([]string, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, v)

	v, shared, err := Do(&g, "k", func() ([]string, error) { return []string{"ok"}, nil })
	require.NoError(t, err)
	assert.False(t, shared)
	assert.Equal(t, []string{"ok"}, v)
}
