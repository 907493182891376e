package eventcounter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIndexFor(t *testing.T) {
	const start = int64(1_700_000_000)
	tests := []struct {
		sec  int64
		want int
	}{
		{start, 0},
		{start + 1, 1},
		{start + secondsPerDay - 1, int(secondsPerDay) - 1},
		{start + secondsPerDay, 0},
		{start + 3*secondsPerDay + 5, 5},
		{start - 1, int(secondsPerDay) - 1},
		{start - secondsPerDay, 0},
		{start - secondsPerDay - 1, int(secondsPerDay) - 1},
		{0, indexFor(secondsPerDay, start)},
	}
	for _, tt := range tests {
		got := indexFor(tt.sec, start)
		require.Equal(t, tt.want, got, "sec=%d", tt.sec)
		require.GreaterOrEqual(t, got, 0)
		require.Less(t, got, int(secondsPerDay))
	}
}

func TestFresh(t *testing.T) {
	require.True(t, fresh(100, 100))
	require.True(t, fresh(100+secondsPerDay-1, 100))
	require.False(t, fresh(100+secondsPerDay, 100))
	require.False(t, fresh(99, 100))
}

func TestCountWindowVisitsExactlyWindowSlots(t *testing.T) {
	for _, offset := range []time.Duration{0, 10 * time.Second, 59 * time.Second, 60 * time.Second, 30 * time.Minute, 23 * time.Hour} {
		t.Run(offset.String(), func(t *testing.T) {
			r, mock := newTestRecorder(t)
			mock.Add(offset)
			now := mock.Now().Unix()

			// one event in every second of the last day
			for age := int64(0); age < secondsPerDay; age++ {
				sec := now - age
				r.slots[indexFor(sec, r.startTime)].reset(1, sec)
			}

			require.Equal(t, uint64(WindowMinute), r.countWindow(now, WindowMinute.Seconds()))
			require.Equal(t, uint64(WindowHour), r.countWindow(now, WindowHour.Seconds()))
			require.Equal(t, uint64(WindowDay), r.countWindow(now, WindowDay.Seconds()))
		})
	}
}

func TestWindow(t *testing.T) {
	require.Equal(t, int64(60), WindowMinute.Seconds())
	require.Equal(t, time.Hour, WindowHour.Duration())
	require.Equal(t, 24*time.Hour, WindowDay.Duration())
	require.Equal(t, "day", WindowDay.String())
	require.Equal(t, "unknown", Window(5).String())
	require.False(t, Window(5).valid())
}
