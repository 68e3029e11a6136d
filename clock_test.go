package hologram

import (
	"bytes"
	"io"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

func silenceLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	LogOutput = &buf
	t.Cleanup(func() { LogOutput = os.Stderr })
	return &buf
}

func TestClockTimersFireInDeadlineOrder(t *testing.T) {
	var c Clock
	c.Start(0)
	var got []int
	c.After(300*time.Millisecond, func() { got = append(got, 3) })
	c.After(100*time.Millisecond, func() { got = append(got, 1) })
	c.After(200*time.Millisecond, func() { got = append(got, 2) })
	c.After(100*time.Millisecond, func() { got = append(got, 11) })

	c.Tick(50 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("fired early: %v", got)
	}
	c.Tick(time.Second)
	if want := []int{1, 11, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", c.Pending())
	}
}

func TestClockTimerScheduledByTimerWaitsForNextTick(t *testing.T) {
	var c Clock
	c.Start(0)
	fired := 0
	c.After(0, func() {
		c.After(0, func() { fired++ })
	})
	c.Tick(10 * time.Millisecond)
	if fired != 0 || c.Pending() != 1 {
		t.Fatalf("fired = %d pending = %d, want 0 and 1", fired, c.Pending())
	}
	c.Tick(20 * time.Millisecond)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestClockFrame(t *testing.T) {
	var c Clock
	c.Start(time.Second)
	f := c.Tick(3 * time.Second)
	if f.Now != 3*time.Second || f.Elapsed != 2*time.Second || f.Delta != 2*time.Second {
		t.Errorf("frame = %+v", f)
	}
	if f.Seconds() != 3 {
		t.Errorf("Seconds = %v, want 3", f.Seconds())
	}

	c.Restart()
	if c.Elapsed() != 0 {
		t.Errorf("Elapsed after Restart = %v, want 0", c.Elapsed())
	}
	f = c.Tick(4 * time.Second)
	if f.Elapsed != time.Second || c.Elapsed() != time.Second {
		t.Errorf("Elapsed = %v / %v, want 1s", f.Elapsed, c.Elapsed())
	}

	f = c.Tick(2 * time.Second)
	if f.Delta != 0 || f.Now != 4*time.Second {
		t.Errorf("backwards tick = %+v, want clamped to 4s", f)
	}
}

func TestClockStop(t *testing.T) {
	var c Clock
	c.Start(0)
	fired := false
	c.After(time.Millisecond, func() { fired = true })
	c.Stop()
	if c.Running() || c.Pending() != 0 {
		t.Errorf("running = %v pending = %d after Stop", c.Running(), c.Pending())
	}
	if f := c.Tick(time.Second); f != (Frame{}) || fired {
		t.Errorf("stopped clock ticked: %+v fired %v", f, fired)
	}

	c.Start(2 * time.Second)
	c.Tick(3 * time.Second)
	if c.Elapsed() != 3*time.Second {
		t.Errorf("Elapsed = %v, want epoch kept across Stop/Start", c.Elapsed())
	}
}

func TestClockPanickingTimer(t *testing.T) {
	buf := silenceLogs(t)
	var c Clock
	c.Start(0)
	ran := false
	c.After(0, func() { panic("boom") })
	c.After(0, func() { ran = true })
	c.Tick(time.Millisecond)
	if !ran {
		t.Error("timer after a panicking timer did not run")
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("log = %q, want the panic value", buf.String())
	}
}

func TestTicker(t *testing.T) {
	tk := Ticker{Interval: time.Second}
	steps := []struct {
		dt   time.Duration
		want bool
	}{
		{400 * time.Millisecond, false},
		{400 * time.Millisecond, false},
		{400 * time.Millisecond, true},
		{700 * time.Millisecond, false},
		{2500 * time.Millisecond, true},
		{100 * time.Millisecond, false},
	}
	for i, s := range steps {
		if got := tk.Add(s.dt); got != s.want {
			t.Errorf("step %d: Add(%v) = %v, want %v", i, s.dt, got, s.want)
		}
	}

	tk.Reset()
	if tk.Add(900 * time.Millisecond) {
		t.Error("Add after Reset crossed early")
	}
	if !(&Ticker{}).Add(0) {
		t.Error("zero interval should fire every call")
	}
}

func TestSafeCall(t *testing.T) {
	silenceLogs(t)
	if !SafeCall("ok", func() {}) {
		t.Error("SafeCall = false for a normal return")
	}
	if SafeCall("panics", func() { panic("x") }) {
		t.Error("SafeCall = true for a panic")
	}
}

func TestLogfDisabled(t *testing.T) {
	LogOutput = nil
	t.Cleanup(func() { LogOutput = os.Stderr })
	logf("dropped %d", 1)

	LogOutput = io.Discard
	logf("dropped %d", 2)
}
