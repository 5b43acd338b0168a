package syncutil

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlerResolveOnce(t *testing.T) {
	s := NewSettler[string]()

	assert.True(t, s.Resolve("first"))
	assert.False(t, s.Resolve("second"))
	assert.False(t, s.Reject(errors.New("late error")))

	<-s.Done()
	v, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestSettlerRejectOnce(t *testing.T) {
	s := NewSettler[int]()
	sentinel := errors.New("boom")

	assert.True(t, s.Reject(sentinel))
	assert.False(t, s.Resolve(42))

	_, err := s.Result()
	assert.ErrorIs(t, err, sentinel)
}

func TestSettlerConcurrentSingleWinner(t *testing.T) {
	s := NewSettler[int]()

	var wg sync.WaitGroup
	wins := make(chan int, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if s.Resolve(n) {
				wins <- n
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []int
	for w := range wins {
		winners = append(winners, w)
	}
	require.Len(t, winners, 1, "exactly one goroutine may win")

	v, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, winners[0], v)
}
