package viewport

import (
	"slices"
	"time"
)

// ImmediateScheduler runs every callback synchronously.
type ImmediateScheduler struct{}

// AfterFunc runs fn immediately.
func (ImmediateScheduler) AfterFunc(_ time.Duration, fn func()) { fn() }

// NextFrame runs fn immediately.
func (ImmediateScheduler) NextFrame(fn func()) { fn() }

// ManualScheduler queues callbacks against a virtual clock. A host loop calls
// Advance as time passes and Frame after presenting a frame.
//
// The zero value is ready to use.
type ManualScheduler struct {
	now    time.Duration
	seq    int
	timers []timer
	frames []func()
}

type timer struct {
	due time.Duration
	seq int
	fn  func()
}

// AfterFunc queues fn to run once the clock has advanced by d.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) {
	s.seq++
	s.timers = append(s.timers, timer{due: s.now + d, seq: s.seq, fn: fn})
}

// NextFrame queues fn for the next call to Frame.
func (s *ManualScheduler) NextFrame(fn func()) {
	s.frames = append(s.frames, fn)
}

// Advance moves the clock forward by d and runs every timer that became due,
// in due-time order. Timers with equal due times run in the order they were
// queued. Timers queued by a callback run in the same call if already due.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.now += d
	ran := 0
	for {
		i := s.nextDue()
		if i < 0 {
			return ran
		}
		t := s.timers[i]
		s.timers = slices.Delete(s.timers, i, i+1)
		t.fn()
		ran++
	}
}

func (s *ManualScheduler) nextDue() int {
	best := -1
	for i, t := range s.timers {
		if t.due > s.now {
			continue
		}
		if best < 0 || t.due < s.timers[best].due || (t.due == s.timers[best].due && t.seq < s.timers[best].seq) {
			best = i
		}
	}
	return best
}

// Frame runs the callbacks queued before this call. Callbacks queued while
// running wait for the following frame.
func (s *ManualScheduler) Frame() int {
	pending := s.frames
	s.frames = nil
	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// Flush runs every queued frame callback and timer, advancing the clock as
// far as needed.
func (s *ManualScheduler) Flush() {
	for s.Pending() > 0 {
		s.Frame()
		if len(s.timers) == 0 {
			continue
		}
		latest := s.now
		for _, t := range s.timers {
			latest = max(latest, t.due)
		}
		s.Advance(latest - s.now)
	}
}

// Pending returns the number of queued timers and frame callbacks.
func (s *ManualScheduler) Pending() int { return len(s.timers) + len(s.frames) }

// Now returns the virtual clock.
func (s *ManualScheduler) Now() time.Duration { return s.now }
