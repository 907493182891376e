package eventcounter

import "time"

type Recorder interface {
	// RecordEvent records one event that happened at the given Unix time in milliseconds
	RecordEvent(milliseconds int64)
	// Record records one event that happened at t
	Record(t time.Time)
	// LastMinuteEvents returns the number of events in the last 60 seconds
	LastMinuteEvents() uint64
	// LastHourEvents returns the number of events in the last 3600 seconds
	LastHourEvents() uint64
	// LastDayEvents returns the number of events in the last 86400 seconds
	LastDayEvents() uint64
	// Count returns the number of events in the given window
	Count(w Window) uint64
	// Stats returns the minute, hour and day counts for the same instant
	Stats() Stats
}

// Window is the trailing span a query aggregates over.
type Window int64

const (
	WindowMinute Window = 60
	WindowHour   Window = 60 * WindowMinute
	WindowDay    Window = 24 * WindowHour
)

// Seconds returns the window length in seconds.
func (w Window) Seconds() int64 {
	return int64(w)
}

// Duration returns the window length as a time.Duration.
func (w Window) Duration() time.Duration {
	return time.Duration(w) * time.Second
}

func (w Window) String() string {
	switch w {
	case WindowMinute:
		return "minute"
	case WindowHour:
		return "hour"
	case WindowDay:
		return "day"
	default:
		return "unknown"
	}
}

func (w Window) valid() bool {
	return w == WindowMinute || w == WindowHour || w == WindowDay
}

// Stats holds the three aggregates computed against one instant.
type Stats struct {
	At     time.Time
	Minute uint64
	Hour   uint64
	Day    uint64
}
