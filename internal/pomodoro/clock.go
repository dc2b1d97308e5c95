package pomodoro

import (
	"sync"
	"time"
)

// Clock supplies the current time and a periodic tick source.
type Clock interface {
	Now() time.Time
	// Every calls fn every d until stop is called. stop must not block.
	Every(d time.Duration, fn func()) (stop func())
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
