package eventcounter

import (
	"math"
	"sync"
)

// slot counts the events of one second of the cycle.
// lastReset is the absolute second (Unix) whose events count holds.
type slot struct {
	mu        sync.Mutex
	count     uint32
	lastReset int64
}

func (s *slot) read() (count uint32, lastReset int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count, s.lastReset
}

func (s *slot) reset(count uint32, lastReset int64) {
	s.mu.Lock()
	s.resetLocked(count, lastReset)
	s.mu.Unlock()
}

func (s *slot) increment() {
	s.mu.Lock()
	s.incrementLocked()
	s.mu.Unlock()
}

// record adds one event of second sec. The staleness check and the write
// happen under one lock so two writers cannot both start a new generation.
// It returns false when the slot already belongs to a newer generation.
func (s *slot) record(sec int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.lastReset < sec:
		s.resetLocked(1, sec)
	case s.lastReset == sec:
		s.incrementLocked()
	default:
		return false
	}
	return true
}

func (s *slot) resetLocked(count uint32, lastReset int64) {
	s.count = count
	s.lastReset = lastReset
}

func (s *slot) incrementLocked() {
	if s.count < math.MaxUint32 {
		s.count++
	}
}
