package hologram

import (
	"runtime/debug"
	"sort"
	"time"
)

// Frame is the timing snapshot handed to every component on a tick.
type Frame struct {
	// Now is the absolute host time passed to Tick.
	Now time.Duration
	// Elapsed is the time since the last Restart (the seed epoch).
	Elapsed time.Duration
	// Delta is the time since the previous tick.
	Delta time.Duration
}

// Seconds returns Now in seconds, the time base of the wave motion.
func (f Frame) Seconds() float64 {
	return f.Now.Seconds()
}

type timer struct {
	at  time.Duration
	seq int
	fn  func()
}

// Clock drives the per-frame callback. It never reads the wall clock itself:
// the host passes the current time into Tick, which keeps every component
// deterministic under test.
type Clock struct {
	running bool
	started bool
	epoch   time.Duration
	last    time.Duration
	now     time.Duration
	timers  []timer
	seq     int
	debug   bool // dump stacks for panicking timers
}

// Start begins ticking at time now. Calling Start on a running clock is a no-op.
func (c *Clock) Start(now time.Duration) {
	if c.running {
		return
	}
	c.running = true
	if !c.started {
		c.started = true
		c.epoch = now
	}
	c.last = now
	c.now = now
}

// Stop halts ticking and drops every pending timer.
func (c *Clock) Stop() {
	c.running = false
	c.Cancel()
}

// Running reports whether the clock is ticking.
func (c *Clock) Running() bool {
	return c.running
}

// Restart moves the seed epoch to the clock's current time, so Frame.Elapsed
// counts from zero again.
func (c *Clock) Restart() {
	c.epoch = c.now
}

// Elapsed returns the time from the seed epoch to the latest tick.
func (c *Clock) Elapsed() time.Duration {
	return c.now - c.epoch
}

// Tick advances the clock to now, fires every timer whose deadline has passed
// (in deadline order), and returns the frame. Timers scheduled by a firing
// timer run no earlier than the next tick. A stopped clock returns the zero
// Frame.
func (c *Clock) Tick(now time.Duration) Frame {
	if !c.running {
		return Frame{}
	}
	if now < c.last {
		now = c.last
	}
	c.now = now
	f := Frame{Now: now, Elapsed: now - c.epoch, Delta: now - c.last}
	c.last = now

	if len(c.timers) > 0 {
		due := c.timers[:0:0]
		keep := c.timers[:0]
		for _, t := range c.timers {
			if t.at <= now {
				due = append(due, t)
			} else {
				keep = append(keep, t)
			}
		}
		c.timers = keep
		sort.Slice(due, func(i, j int) bool {
			if due[i].at != due[j].at {
				return due[i].at < due[j].at
			}
			return due[i].seq < due[j].seq
		})
		for _, t := range due {
			safeCall("timer", c.debug, t.fn)
		}
	}
	return f
}

// After schedules fn to run on the first tick at or after d from the clock's
// current time.
func (c *Clock) After(d time.Duration, fn func()) {
	c.seq++
	c.timers = append(c.timers, timer{at: c.now + d, seq: c.seq, fn: fn})
}

// Pending returns the number of scheduled timers.
func (c *Clock) Pending() int {
	return len(c.timers)
}

// Cancel drops every pending timer.
func (c *Clock) Cancel() {
	c.timers = nil
}

// Ticker is an explicit time accumulator for work that should run at a
// fixed cadence regardless of frame rate.
type Ticker struct {
	Interval time.Duration
	acc      time.Duration
}

// Add accumulates dt and reports whether an interval boundary was crossed.
// Multiple crossings in one call collapse into one.
func (t *Ticker) Add(dt time.Duration) bool {
	if t.Interval <= 0 {
		return true
	}
	t.acc += dt
	if t.acc < t.Interval {
		return false
	}
	t.acc %= t.Interval
	return true
}

// Reset clears the accumulator.
func (t *Ticker) Reset() {
	t.acc = 0
}

// SafeCall runs fn, recovering and logging any panic so one bad frame does
// not stop the loop. It reports whether fn returned normally.
func SafeCall(name string, fn func()) (ok bool) {
	return safeCall(name, false, fn)
}

// safeCall is SafeCall with an optional stack dump for recovered panics.
func safeCall(name string, stack bool, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logf("recovered panic in %s: %v", name, r)
			if stack {
				logf("%s", debug.Stack())
			}
			ok = false
		}
	}()
	fn()
	return true
}
