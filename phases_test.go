package hologram

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"
)

func TestNewPhaseCyclerNoFrames(t *testing.T) {
	if _, err := NewPhaseCycler(nil, PhaseConfig{}, NewRand(1)); !errors.Is(err, ErrNoFrames) {
		t.Errorf("err = %v, want ErrNoFrames", err)
	}
}

func TestPhaseCyclerParticles(t *testing.T) {
	cfg := PhaseConfig{Size: 12, Stride: 3}
	c, err := NewPhaseCycler([]image.Image{solidImage(10, 10, white)}, cfg, NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 16 {
		t.Fatalf("Len = %d, want 16", c.Len())
	}
	for i, p := range c.Particles() {
		if int(p.TargetX)%3 != 0 || int(p.TargetY)%3 != 0 {
			t.Errorf("particle %d target (%v, %v) off the stride grid", i, p.TargetX, p.TargetY)
		}
		if math.Abs(p.X-p.TargetX) > 30 || math.Abs(p.Y-p.TargetY) > 30 {
			t.Errorf("particle %d scattered too far: (%v, %v)", i, p.X, p.Y)
		}
		if p.Opacity != 0 {
			t.Errorf("particle %d opacity = %v, want 0", i, p.Opacity)
		}
		if p.Color != ColorWhite || p.Size != 3 {
			t.Errorf("particle %d color %v size %v", i, p.Color, p.Size)
		}
	}
}

func TestPhaseCyclerOpacityThreshold(t *testing.T) {
	frames := []image.Image{
		solidImage(12, 12, color.NRGBA{255, 255, 255, 102}),
		solidImage(12, 12, color.NRGBA{255, 255, 255, 200}),
		nil,
	}
	c, err := NewPhaseCycler(frames, PhaseConfig{Size: 12, Stride: 3}, NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("frame 0 (alpha 0.4): Len = %d, want 0", c.Len())
	}
	c.SetFrame(1, NewRand(1))
	if c.Len() != 16 {
		t.Errorf("frame 1: Len = %d, want 16", c.Len())
	}
	c.SetFrame(2, NewRand(1))
	if c.Len() != 0 {
		t.Errorf("nil frame: Len = %d, want 0", c.Len())
	}
	if c.Frames() != 3 || c.Size() != 12 {
		t.Errorf("Frames %d Size %d", c.Frames(), c.Size())
	}
}

func TestPhaseCyclerSetFrameWraps(t *testing.T) {
	frames := []image.Image{nil, nil, nil}
	c, err := NewPhaseCycler(frames, PhaseConfig{}, NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct{ in, want int }{{3, 0}, {4, 1}, {-1, 2}, {-4, 2}}
	for _, tt := range tests {
		c.SetFrame(tt.in, NewRand(1))
		if c.Frame() != tt.want {
			t.Errorf("SetFrame(%d) -> %d, want %d", tt.in, c.Frame(), tt.want)
		}
	}
}

func TestPhaseCyclerUpdate(t *testing.T) {
	frames := []image.Image{solidImage(12, 12, white), solidImage(12, 12, white)}
	c, err := NewPhaseCycler(frames, PhaseConfig{Size: 12, Stride: 3, FrameDuration: time.Second}, NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	before := c.Particles()[0]
	c.Update(500*time.Millisecond, NewRand(2))
	if c.Frame() != 0 {
		t.Fatalf("Frame = %d before the duration elapsed", c.Frame())
	}
	after := c.Particles()[0]
	if math.Abs(after.Opacity-0.03) > 1e-12 {
		t.Errorf("opacity = %v, want 0.03", after.Opacity)
	}
	wantX := before.X + (before.TargetX-before.X)*0.05
	if math.Abs(after.X-wantX) > 1e-12 {
		t.Errorf("X = %v, want %v", after.X, wantX)
	}

	c.Update(600*time.Millisecond, NewRand(2))
	if c.Frame() != 1 {
		t.Errorf("Frame = %d after the duration, want 1", c.Frame())
	}

	for i := 0; i < 100; i++ {
		c.Update(time.Millisecond, NewRand(2))
	}
	for _, p := range c.Particles() {
		if p.Opacity != 1 {
			t.Fatalf("opacity = %v, want capped at 1", p.Opacity)
		}
	}
}
