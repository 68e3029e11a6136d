package hologram

import (
	"math"
	"testing"
	"time"
)

func fixedField() *Field {
	return NewField(FieldConfig{ArrivalDuration: Range{Min: 1, Max: 1}})
}

func whiteSamples(pts ...Vec2) []Sample {
	out := make([]Sample, len(pts))
	for i, p := range pts {
		out[i] = Sample{X: p.X, Y: p.Y, Color: ColorWhite, Alpha: 1}
	}
	return out
}

func TestFieldSeedSpawnsOutsideViewport(t *testing.T) {
	s := Sampler{Stride: 1, ScaleFactor: 1}
	samples := s.Sample(solidImage(2, 2, white), PlacementRect{Width: 2, Height: 2}, NewRand(1))

	f := NewField(FieldConfig{})
	f.Seed(samples, Vec2{10, 10}, NewRand(3))
	if f.Len() != 4 {
		t.Fatalf("Len = %d, want 4", f.Len())
	}
	for i, p := range f.Particles() {
		onEdge := p.SpawnX == -20 || p.SpawnX == 30 || p.SpawnY == -20 || p.SpawnY == 30
		if !onEdge {
			t.Errorf("particle %d spawned at (%v, %v), want 20px outside the viewport", i, p.SpawnX, p.SpawnY)
		}
		if p.X != p.SpawnX || p.Y != p.SpawnY {
			t.Errorf("particle %d starts at (%v, %v), want spawn point", i, p.X, p.Y)
		}
		if p.Phase != PhaseArriving {
			t.Errorf("particle %d phase = %v, want arriving", i, p.Phase)
		}
		if p.Size < 0.8 || p.Size >= 2 {
			t.Errorf("particle %d size = %v, want [0.8, 2)", i, p.Size)
		}
		if p.ArrivalDuration < time.Second || p.ArrivalDuration >= 3*time.Second {
			t.Errorf("particle %d arrival = %v, want [1s, 3s)", i, p.ArrivalDuration)
		}
	}
}

func TestFieldSeedEmpty(t *testing.T) {
	f := fixedField()
	f.Seed(whiteSamples(Vec2{1, 1}), Vec2{10, 10}, NewRand(1))
	f.Seed(nil, Vec2{10, 10}, NewRand(1))
	if f.Len() != 0 || len(f.Particles()) != 0 {
		t.Errorf("Len = %d, want 0", f.Len())
	}
	if f.Settled() {
		t.Error("empty field reported settled")
	}
}

func TestFieldArrival(t *testing.T) {
	f := fixedField()
	f.Seed(whiteSamples(Vec2{100, 50}), Vec2{200, 200}, NewRand(1))
	p := &f.Particles()[0]
	sx, sy := p.SpawnX, p.SpawnY

	f.Tick(500*time.Millisecond, 0, nil)
	wantX := sx + (100-sx)*0.5
	wantY := sy + (50-sy)*0.5
	if math.Abs(p.X-wantX) > 1e-6 || math.Abs(p.Y-wantY) > 1e-6 {
		t.Errorf("halfway = (%v, %v), want (%v, %v)", p.X, p.Y, wantX, wantY)
	}
	if f.Settled() {
		t.Error("settled halfway")
	}

	f.Tick(time.Second, 0, nil)
	if p.X != 100 || p.Y != 50 {
		t.Errorf("at arrival = (%v, %v), want origin (100, 50)", p.X, p.Y)
	}
	if p.Phase != PhaseSettled || !f.Settled() {
		t.Errorf("phase = %v settled = %v, want settled", p.Phase, f.Settled())
	}
}

func TestFieldIdleStaysNearOrigin(t *testing.T) {
	f := fixedField()
	f.Seed(whiteSamples(Vec2{100, 100}, Vec2{300, 40}), Vec2{400, 400}, NewRand(1))
	f.Tick(time.Second, 0, nil)
	for i := 1; i <= 1000; i++ {
		now := float64(i) / 60
		f.Tick(time.Second+time.Duration(i)*time.Second/60, now, nil)
		for _, p := range f.Particles() {
			if math.Abs(p.X-p.OriginX) > waveAmplitude || math.Abs(p.Y-p.OriginY) > waveAmplitude {
				t.Fatalf("tick %d: (%v, %v) strayed from origin (%v, %v)", i, p.X, p.Y, p.OriginX, p.OriginY)
			}
		}
	}
}

func TestFieldPointerRepels(t *testing.T) {
	calm := fixedField()
	pushed := fixedField()
	for _, f := range []*Field{calm, pushed} {
		f.Seed(whiteSamples(Vec2{100, 100}), Vec2{200, 200}, NewRand(1))
		f.Tick(time.Second, 0, nil)
	}

	pointer := Vec2{110, 100}
	calm.Tick(time.Second, 0, nil)
	pushed.Tick(time.Second, 0, &pointer)

	c, p := calm.Particles()[0], pushed.Particles()[0]
	if p.X >= c.X {
		t.Errorf("pushed X = %v, want less than undisturbed %v", p.X, c.X)
	}
	if p.VX >= 0 {
		t.Errorf("VX = %v, want negative (away from pointer)", p.VX)
	}
}

func TestFieldPointerOutOfRange(t *testing.T) {
	calm := fixedField()
	far := fixedField()
	for _, f := range []*Field{calm, far} {
		f.Seed(whiteSamples(Vec2{100, 100}), Vec2{200, 200}, NewRand(1))
		f.Tick(time.Second, 0, nil)
	}
	pointer := Vec2{1000, 1000}
	calm.Tick(time.Second, 0, nil)
	far.Tick(time.Second, 0, &pointer)
	if c, f := calm.Particles()[0], far.Particles()[0]; c.X != f.X || c.Y != f.Y {
		t.Errorf("distant pointer moved particle: (%v, %v) vs (%v, %v)", f.X, f.Y, c.X, c.Y)
	}
}

func TestFieldPartialCull(t *testing.T) {
	pts := make([]Vec2, 10000)
	for i := range pts {
		pts[i] = Vec2{float64(i % 100), float64(i / 100)}
	}

	tests := []struct {
		name     string
		survival float64
		min, max int
	}{
		{"keep all", 1, 0, 0},
		{"drop all", 0, 10000, 10000},
		{"half", 0.5, 4700, 5300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fixedField()
			f.Seed(whiteSamples(pts...), Vec2{100, 100}, NewRand(1))
			dropped := f.PartialCull(tt.survival, NewRand(9))
			if dropped < tt.min || dropped > tt.max {
				t.Errorf("dropped = %d, want [%d, %d]", dropped, tt.min, tt.max)
			}
			if f.Len() != 10000-dropped {
				t.Errorf("Len = %d, want %d", f.Len(), 10000-dropped)
			}
			live := 0
			for _, p := range f.Particles() {
				if !p.Dead {
					live++
				}
			}
			if live != f.Len() {
				t.Errorf("live entries = %d, Len = %d", live, f.Len())
			}
		})
	}
}

func TestFieldCullWhileArriving(t *testing.T) {
	f := fixedField()
	f.Seed(whiteSamples(Vec2{1, 1}, Vec2{2, 2}), Vec2{10, 10}, NewRand(1))
	f.PartialCull(0, NewRand(1))
	if f.Settled() {
		t.Error("fully culled field reported settled")
	}
	f.Seed(whiteSamples(Vec2{1, 1}), Vec2{10, 10}, NewRand(1))
	f.Tick(time.Second, 0, nil)
	if !f.Settled() {
		t.Error("reseeded field did not settle")
	}
}

func TestFieldVisible(t *testing.T) {
	f := NewField(FieldConfig{ArrivalDuration: Range{Min: 1, Max: 1}, CullMargin: 5})
	f.Seed(whiteSamples(Vec2{1, 1}, Vec2{5, 5}, Vec2{9, 9}), Vec2{10, 10}, NewRand(1))

	count := func() int {
		n := 0
		f.Visible(Rect{Width: 10, Height: 10}, func(*MaterializationParticle) { n++ })
		return n
	}
	if n := count(); n != 0 {
		t.Errorf("visible at spawn = %d, want 0", n)
	}
	f.Tick(time.Second, 0, nil)
	if n := count(); n != 3 {
		t.Errorf("visible when settled = %d, want 3", n)
	}
	f.Particles()[1].Dead = true
	if n := count(); n != 2 {
		t.Errorf("visible after marking dead = %d, want 2", n)
	}
}

func TestMaterializationParticleAlpha(t *testing.T) {
	p := MaterializationParticle{SpawnX: 3}
	for _, now := range []float64{0, 1, 2.5, 100} {
		a := p.Alpha(now)
		if a < 0.9 || a > 1 {
			t.Errorf("Alpha(%v) = %v, want [0.9, 1]", now, a)
		}
	}
}

func TestFieldTickDoesNotAllocate(t *testing.T) {
	f := settledField(500)
	pointer := Vec2{50, 20}
	now := 0.0
	allocs := testing.AllocsPerRun(100, func() {
		now += 1.0 / 60
		f.Tick(2*time.Second, now, &pointer)
	})
	if allocs != 0 {
		t.Errorf("Tick allocated %v times per run, want 0", allocs)
	}
}
