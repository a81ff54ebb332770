package utils

import "time"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

// Today returns the calendar date (YYYY-MM-DD) of clock's now as seen in loc.
func Today(clock Clock, loc *time.Location) string {
	return clock.Now().In(loc).Format("2006-01-02")
}

type MockClock struct {
	FixedNow time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{FixedNow: now}
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
