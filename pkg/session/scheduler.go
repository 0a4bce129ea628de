package session

import "time"

// Scheduler fires a callback after a delay. The returned stop function
// cancels the pending fire and reports whether it won the race; the
// restore driver uses it to drop the timeout fallback once a tab-ready
// acknowledgment arrives.
type Scheduler interface {
	After(d time.Duration, fn func()) (stop func() bool)
}

// TimerScheduler is the production Scheduler on time.AfterFunc.
type TimerScheduler struct{}

// After implements Scheduler.
func (TimerScheduler) After(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
