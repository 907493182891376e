package eventcounter

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotRecord(t *testing.T) {
	var s slot
	s.reset(0, 100)

	require.True(t, s.record(100))
	require.True(t, s.record(100))
	count, lastReset := s.read()
	require.Equal(t, uint32(2), count)
	require.Equal(t, int64(100), lastReset)

	// a newer second starts a new generation
	require.True(t, s.record(100+secondsPerDay))
	count, lastReset = s.read()
	require.Equal(t, uint32(1), count)
	require.Equal(t, 100+secondsPerDay, lastReset)

	// an older generation never overwrites a newer one
	require.False(t, s.record(100))
	count, lastReset = s.read()
	require.Equal(t, uint32(1), count)
	require.Equal(t, 100+secondsPerDay, lastReset)
}

func TestSlotIncrementSaturates(t *testing.T) {
	var s slot
	s.reset(math.MaxUint32-1, 7)

	s.increment()
	count, _ := s.read()
	require.Equal(t, uint32(math.MaxUint32), count)

	s.increment()
	require.True(t, s.record(7))
	count, lastReset := s.read()
	require.Equal(t, uint32(math.MaxUint32), count)
	require.Equal(t, int64(7), lastReset)
}

func TestSlotConcurrentFirstTouch(t *testing.T) {
	const writers = 200
	var s slot
	s.reset(0, -secondsPerDay)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.record(42)
		}()
	}
	wg.Wait()

	count, lastReset := s.read()
	require.Equal(t, uint32(writers), count)
	require.Equal(t, int64(42), lastReset)
}
