package eventcounter

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

var _ Recorder = (*MemoryRecorder)(nil)

// MemoryRecorder counts events of the last 24 hours in a fixed ring of
// per-second slots. Memory use does not depend on load or uptime.
type MemoryRecorder struct {
	// slots holds one slot per second of the day, indexed by seconds since startTime
	slots []slot
	// startTime is the Unix second the recorder was created at
	startTime int64
	clock     clock.Clock
	logger    *zap.Logger
	// queries is nil unless MemoryRecorderWithQueryCache is set
	queries *queryCache

	queryCacheCapacity uint64
	queryCacheTTL      time.Duration
}

type MemoryRecorderOption func(*MemoryRecorder) error

// MemoryRecorderWithClock sets the time source
func MemoryRecorderWithClock(c clock.Clock) MemoryRecorderOption {
	return func(r *MemoryRecorder) error {
		if c == nil {
			return ErrNilClock
		}
		r.clock = c
		return nil
	}
}

// MemoryRecorderWithLogger sets the logger
func MemoryRecorderWithLogger(l *zap.Logger) MemoryRecorderOption {
	return func(r *MemoryRecorder) error {
		if l == nil {
			return ErrNilLogger
		}
		r.logger = l
		return nil
	}
}

// MemoryRecorderWithQueryCache memoises query results within the same second
// until the next accepted write. At most capacity results are kept.
func MemoryRecorderWithQueryCache(capacity uint64, ttl time.Duration) MemoryRecorderOption {
	return func(r *MemoryRecorder) error {
		if capacity == 0 {
			return fmt.Errorf("query cache: %w", ErrInvalidCapacity)
		}
		if ttl <= 0 {
			return fmt.Errorf("query cache: %w", ErrInvalidTTL)
		}
		r.queryCacheCapacity = capacity
		r.queryCacheTTL = ttl
		return nil
	}
}

// NewMemoryRecorder creates a new MemoryRecorder starting now
func NewMemoryRecorder(opts ...MemoryRecorderOption) (*MemoryRecorder, error) {
	r := &MemoryRecorder{
		clock:  clock.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.startTime = r.clock.Now().Unix()
	r.slots = make([]slot, secondsPerDay)
	for i := range r.slots {
		r.slots[i].reset(0, r.startTime-secondsPerDay)
	}
	if r.queryCacheCapacity > 0 {
		r.queries = newQueryCache(r.queryCacheCapacity, r.queryCacheTTL)
	}
	r.logger.Info("event recorder created",
		zap.Time("start_time", r.StartTime()),
		zap.Int("slots", len(r.slots)),
		zap.Uint64("query_cache_capacity", r.queryCacheCapacity),
	)
	return r, nil
}

// StartTime returns the instant slot 0 is anchored to
func (r *MemoryRecorder) StartTime() time.Time {
	return time.Unix(r.startTime, 0)
}

// RecordEvent records one event at the given Unix time in milliseconds.
// Events older than 24 hours or in the future are dropped silently.
func (r *MemoryRecorder) RecordEvent(milliseconds int64) {
	sec := floorSeconds(milliseconds)
	now := r.now()
	age := now - sec
	if age >= secondsPerDay {
		r.dropped(sec, age, "too_old")
		return
	}
	if age < 0 {
		r.dropped(sec, age, "future")
		return
	}
	if !r.slots[indexFor(sec, r.startTime)].record(sec) {
		r.dropped(sec, age, "newer_generation")
		return
	}
	if r.queries != nil {
		r.queries.bump()
	}
}

// Record records one event at t
func (r *MemoryRecorder) Record(t time.Time) {
	r.RecordEvent(t.UnixMilli())
}

// LastMinuteEvents returns the number of events in the last minute
func (r *MemoryRecorder) LastMinuteEvents() uint64 {
	return r.Count(WindowMinute)
}

// LastHourEvents returns the number of events in the last hour
func (r *MemoryRecorder) LastHourEvents() uint64 {
	return r.Count(WindowHour)
}

// LastDayEvents returns the number of events in the last day
func (r *MemoryRecorder) LastDayEvents() uint64 {
	return r.Count(WindowDay)
}

// Count returns the number of events in w. Unknown windows count nothing.
func (r *MemoryRecorder) Count(w Window) uint64 {
	return r.count(w, r.now())
}

// Stats returns all three aggregates for a single instant
func (r *MemoryRecorder) Stats() Stats {
	now := r.now()
	return Stats{
		At:     time.Unix(now, 0),
		Minute: r.count(WindowMinute, now),
		Hour:   r.count(WindowHour, now),
		Day:    r.count(WindowDay, now),
	}
}

func (r *MemoryRecorder) count(w Window, now int64) uint64 {
	if !w.valid() {
		return 0
	}
	if r.queries == nil {
		return r.countWindow(now, w.Seconds())
	}
	return r.queries.count(w, now, func() uint64 {
		return r.countWindow(now, w.Seconds())
	})
}

func (r *MemoryRecorder) now() int64 {
	return r.clock.Now().Unix()
}

func (r *MemoryRecorder) dropped(sec, age int64, reason string) {
	if ce := r.logger.Check(zap.DebugLevel, "event dropped"); ce != nil {
		ce.Write(
			zap.Int64("event_seconds", sec),
			zap.Int64("age", age),
			zap.String("reason", reason),
		)
	}
}

// floorSeconds converts milliseconds to seconds rounding towards negative
// infinity, so -1ms belongs to second -1 and not second 0.
func floorSeconds(milliseconds int64) int64 {
	sec := milliseconds / 1000
	if milliseconds%1000 < 0 {
		sec--
	}
	return sec
}
