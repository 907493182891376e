package eventcounter

const secondsPerDay = int64(WindowDay)

// indexFor maps an absolute second to its slot. Slot assignment depends only
// on the seconds elapsed since start, never on wall-clock midnight.
func indexFor(sec, start int64) int {
	return int(((sec-start)%secondsPerDay + secondsPerDay) % secondsPerDay)
}

// fresh reports whether a slot stamped lastReset still belongs to the
// generation visible at now.
func fresh(now, lastReset int64) bool {
	age := now - lastReset
	return age >= 0 && age < secondsPerDay
}

// countWindow sums the windowSeconds slots ending at now's slot, walking
// backwards and wrapping past index 0 to the end of the array.
func (r *MemoryRecorder) countWindow(now, windowSeconds int64) uint64 {
	if windowSeconds >= secondsPerDay {
		return r.countRange(now, 0, len(r.slots)-1)
	}
	current := indexFor(now, r.startTime)
	first := current - int(windowSeconds) + 1
	if first >= 0 {
		return r.countRange(now, first, current)
	}
	remaining := -first
	return r.countRange(now, 0, current) + r.countRange(now, len(r.slots)-remaining, len(r.slots)-1)
}

// countRange sums slots from..to inclusive. Each slot is locked only for its
// own read.
func (r *MemoryRecorder) countRange(now int64, from, to int) uint64 {
	var sum uint64
	for i := from; i <= to; i++ {
		count, lastReset := r.slots[i].read()
		if fresh(now, lastReset) {
			sum += uint64(count)
		}
	}
	return sum
}
