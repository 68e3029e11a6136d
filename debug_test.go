package hologram

import (
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestSetDebugMode(t *testing.T) {
	s := NewScene(DefaultConfig())
	defer s.Dispose()
	s.SetDebugMode(true)
	if !s.debug || !s.clock.debug {
		t.Error("debug flags not set")
	}
	s.SetDebugMode(false)
	if s.debug || s.clock.debug {
		t.Error("debug flags not cleared")
	}
}

func TestDebugModeIsPerScene(t *testing.T) {
	buf := silenceLogs(t)
	quiet := NewScene(DefaultConfig())
	defer quiet.Dispose()
	loud := NewScene(DefaultConfig())
	defer loud.Dispose()
	loud.SetDebugMode(true)

	quiet.safeCall("quiet", func() { panic("boom") })
	if strings.Contains(buf.String(), "goroutine ") {
		t.Errorf("stack dumped for a scene without debug mode:\n%s", buf.String())
	}
	buf.Reset()
	loud.safeCall("loud", func() { panic("boom") })
	if !strings.Contains(buf.String(), "goroutine ") {
		t.Errorf("no stack dumped in debug mode:\n%s", buf.String())
	}
}

func TestDebugLog(t *testing.T) {
	buf := silenceLogs(t)
	s := NewScene(DefaultConfig())
	defer s.Dispose()

	s.debugLog(debugStats{fieldCount: 3})
	if buf.Len() != 0 {
		t.Errorf("logged with debug off: %q", buf.String())
	}

	s.debug = true
	s.debugLog(debugStats{updateTime: time.Millisecond, fieldCount: 42, drawCalls: 9})
	out := buf.String()
	if !strings.Contains(out, "field: 42") || !strings.Contains(out, "draw calls: 9") {
		t.Errorf("debug log = %q", out)
	}
}

func TestDebugStatsRecorded(t *testing.T) {
	silenceLogs(t)
	s, _ := newLoadedScene(t, DefaultConfig())
	s.debug = true
	s.Step(tick)
	s.Draw(ebiten.NewImage(800, 600))
	if s.stats.fieldCount != s.Field().Len() || s.stats.drawCalls == 0 {
		t.Errorf("stats = %+v", s.stats)
	}
}

func TestSetShowFPS(t *testing.T) {
	s := NewScene(DefaultConfig())
	defer s.Dispose()
	s.SetShowFPS(true)
	if s.fps == nil {
		t.Fatal("overlay not created")
	}
	first := s.fps
	s.SetShowFPS(true)
	if s.fps != first {
		t.Error("overlay recreated")
	}
	if !strings.HasPrefix(s.fps.text(), "FPS:") {
		t.Errorf("overlay text = %q", s.fps.text())
	}
	s.SetShowFPS(false)
	if s.fps != nil {
		t.Error("overlay not removed")
	}
}
