package eventcounter

import "errors"

var (
	ErrInvalidCapacity = errors.New("capacity must be greater than zero")
	ErrInvalidTTL      = errors.New("ttl must be greater than zero")
	ErrNilClock        = errors.New("clock is nil")
	ErrNilLogger       = errors.New("logger is nil")
)
