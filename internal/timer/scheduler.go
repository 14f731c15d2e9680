package timer

import (
	"sync"
	"time"
)

// Scheduler runs fn every d until the returned cancel func is called.
type Scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
}

// TickerScheduler drives callbacks from a time.Ticker goroutine.
type TickerScheduler struct{}

// Every implements Scheduler. Cancel is synchronous with respect to the
// ticker but does not wait for a callback already in flight; the engine
// guards against that itself.
func (TickerScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// IdleScheduler never fires. One-shot commands use it to restore and
// inspect the timer without ticking it.
type IdleScheduler struct{}

// Every implements Scheduler.
func (IdleScheduler) Every(time.Duration, func()) func() {
	return func() {}
}
