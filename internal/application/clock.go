package application

import "time"

// Clock interface so record timestamps can be pinned in tests
type Clock interface {
	Now() time.Time
}

// SystemClock is the default implementation, backed by time.Now().UTC()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
