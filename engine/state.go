package engine

import (
	"sync/atomic"
	"time"
)

// PlaybackState holds the transport counters shared between the event
// goroutine (sole writer) and everyone else (readers). Each field is
// independently atomic; readers may observe a position update that postdates
// a duration update or vice versa. Both are monotonically refreshed,
// display-only quantities, so no cross-field snapshot is offered.
type PlaybackState struct {
	position atomic.Int64 // nanoseconds
	duration atomic.Int64 // nanoseconds
	paused   atomic.Bool
}

// Position returns the last position reported by the engine.
func (s *PlaybackState) Position() time.Duration {
	return time.Duration(s.position.Load())
}

// Duration returns the last duration reported by the engine, zero before
// any file has been loaded.
func (s *PlaybackState) Duration() time.Duration {
	return time.Duration(s.duration.Load())
}

// Paused reports the last pause flag reported by the engine.
func (s *PlaybackState) Paused() bool {
	return s.paused.Load()
}

func (s *PlaybackState) setPosition(d time.Duration) {
	s.position.Store(int64(d))
}

func (s *PlaybackState) setDuration(d time.Duration) {
	s.duration.Store(int64(d))
}

func (s *PlaybackState) setPaused(v bool) {
	s.paused.Store(v)
}

// secondsToDuration converts mpv's float seconds into nanosecond time.
func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
