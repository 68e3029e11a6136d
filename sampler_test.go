package hologram

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

var white = color.NRGBA{255, 255, 255, 255}

func TestSampleGridSize(t *testing.T) {
	g := NewSampleGrid(solidImage(10, 10, white), 200, 100, 0.5)
	if g.Width != 100 || g.Height != 50 {
		t.Errorf("grid = %dx%d, want 100x50", g.Width, g.Height)
	}
	if len(g.Pix) != 100*50*4 {
		t.Errorf("len(Pix) = %d, want %d", len(g.Pix), 100*50*4)
	}
	tiny := NewSampleGrid(solidImage(10, 10, white), 1, 1, 0.1)
	if tiny.Width != 1 || tiny.Height != 1 {
		t.Errorf("tiny grid = %dx%d, want 1x1", tiny.Width, tiny.Height)
	}
}

func TestSampleGridAtClamps(t *testing.T) {
	g := NewSampleGrid(solidImage(4, 4, color.NRGBA{10, 20, 30, 255}), 4, 4, 1)
	r, gg, b, a := g.At(-5, 100)
	if r != 10 || gg != 20 || b != 30 || a != 255 {
		t.Errorf("At(-5, 100) = (%d, %d, %d, %d), want (10, 20, 30, 255)", r, gg, b, a)
	}
}

func TestSampleGridPixelAtOutOfBounds(t *testing.T) {
	g := NewSampleGrid(solidImage(4, 4, white), 4, 4, 1)
	if _, err := g.PixelAt(4, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("PixelAt(4, 0) err = %v, want ErrOutOfBounds", err)
	}
	if _, err := g.PixelAt(-0.5, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("PixelAt(-0.5, 0) err = %v, want ErrOutOfBounds", err)
	}
	c, err := g.PixelAt(3.9, 3.9)
	if err != nil {
		t.Fatalf("PixelAt(3.9, 3.9): %v", err)
	}
	if c != ColorWhite {
		t.Errorf("PixelAt = %v, want white", c)
	}
}

func TestSamplerTwoByTwo(t *testing.T) {
	s := Sampler{Stride: 1, ScaleFactor: 1}
	rect := PlacementRect{X: 0, Y: 0, Width: 2, Height: 2}
	samples := s.Sample(solidImage(2, 2, white), rect, NewRand(1))
	if len(samples) != 4 {
		t.Fatalf("len = %d, want 4", len(samples))
	}
	want := map[[2]float64]bool{{0, 0}: true, {1, 0}: true, {0, 1}: true, {1, 1}: true}
	for _, sm := range samples {
		if !want[[2]float64{sm.X, sm.Y}] {
			t.Errorf("unexpected sample at (%v, %v)", sm.X, sm.Y)
		}
		delete(want, [2]float64{sm.X, sm.Y})
		if sm.Color != ColorWhite {
			t.Errorf("color = %v, want white", sm.Color)
		}
	}
	if len(want) != 0 {
		t.Errorf("missing samples: %v", want)
	}
}

func TestSamplerOffsetsByRect(t *testing.T) {
	s := Sampler{Stride: 1, ScaleFactor: 1}
	samples := s.Sample(solidImage(2, 2, white), PlacementRect{X: 100, Y: 50, Width: 2, Height: 2}, NewRand(1))
	for _, sm := range samples {
		if sm.X < 100 || sm.X > 101 || sm.Y < 50 || sm.Y > 51 {
			t.Errorf("sample (%v, %v) outside rect", sm.X, sm.Y)
		}
	}
}

func TestSamplerDropsTransparentAndDark(t *testing.T) {
	rect := PlacementRect{Width: 20, Height: 20}
	s := DefaultSampler()
	s.SkipProbability = 0

	if got := s.Sample(solidImage(20, 20, color.NRGBA{255, 255, 255, 80}), rect, NewRand(1)); len(got) != 0 {
		t.Errorf("alpha 80: %d samples, want 0", len(got))
	}
	if got := s.Sample(solidImage(20, 20, color.NRGBA{5, 5, 5, 255}), rect, NewRand(1)); len(got) != 0 {
		t.Errorf("rgb sum 15: %d samples, want 0", len(got))
	}
	if got := s.Sample(solidImage(20, 20, color.NRGBA{40, 40, 40, 200}), rect, NewRand(1)); len(got) != 16 {
		t.Errorf("above thresholds: %d samples, want 16", len(got))
	}
}

func TestSamplerSameSeedSameResult(t *testing.T) {
	img := solidImage(64, 64, white)
	rect := PlacementRect{Width: 300, Height: 300}
	s := DefaultSampler()
	a := s.Sample(img, rect, NewRand(7))
	b := s.Sample(img, rect, NewRand(7))
	if len(a) != len(b) {
		t.Fatalf("counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSamplerSkipProbabilityTolerance(t *testing.T) {
	img := solidImage(64, 64, white)
	rect := PlacementRect{Width: 500, Height: 500}
	s := DefaultSampler()
	total := float64((500 / 5) * (500 / 5))
	want := total * (1 - s.SkipProbability)
	// 4 standard deviations of a binomial with n=10000, p=0.6.
	tol := 4 * math.Sqrt(total*0.4*0.6)
	for seed := uint64(1); seed <= 5; seed++ {
		n := float64(len(s.Sample(img, rect, NewRand(seed))))
		if math.Abs(n-want) > tol {
			t.Errorf("seed %d: %v samples, want %v ± %v", seed, n, want, tol)
		}
	}
}

func TestSamplerEmptyRect(t *testing.T) {
	if got := DefaultSampler().Sample(solidImage(2, 2, white), PlacementRect{}, NewRand(1)); got != nil {
		t.Errorf("got %d samples for empty rect, want nil", len(got))
	}
}
