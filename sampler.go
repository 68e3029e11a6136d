package hologram

import (
	"errors"
	"image"
	"math"
	"math/rand/v2"

	xdraw "golang.org/x/image/draw"
)

// ErrOutOfBounds is returned by PixelSource implementations for coordinates
// outside the sampled image.
var ErrOutOfBounds = errors.New("hologram: pixel out of bounds")

// PixelSource reads a single pixel in placement-local coordinates. Reads may
// fail; callers skip the failed sample rather than abort a batch.
type PixelSource interface {
	PixelAt(x, y float64) (Color, error)
}

// Sample is one seed point produced by the Sampler, in surface coordinates.
type Sample struct {
	X, Y  float64
	Color Color
	Alpha float64
}

// SampleGrid is a downscaled straight-alpha RGBA copy of a source image sized
// to a placement rect. It is built once per load or resize and read-only
// afterward.
type SampleGrid struct {
	Width, Height int
	// Scale maps placement-local units to grid pixels.
	Scale float64
	Pix   []uint8
}

// NewSampleGrid draws img into a buffer of placementW*scale x placementH*scale
// pixels. The buffer is never smaller than 1x1.
func NewSampleGrid(img image.Image, placementW, placementH, scale float64) *SampleGrid {
	if scale <= 0 {
		scale = 1
	}
	w := max(1, int(math.Floor(placementW*scale)))
	h := max(1, int(math.Floor(placementH*scale)))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if img != nil {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	}
	return &SampleGrid{Width: w, Height: h, Scale: scale, Pix: dst.Pix}
}

// At returns the raw channels at grid pixel (x, y), clamped to the buffer.
func (g *SampleGrid) At(x, y int) (r, gg, b, a uint8) {
	x = min(max(x, 0), g.Width-1)
	y = min(max(y, 0), g.Height-1)
	i := (y*g.Width + x) * 4
	return g.Pix[i], g.Pix[i+1], g.Pix[i+2], g.Pix[i+3]
}

// PixelAt implements PixelSource. Coordinates are placement-local.
func (g *SampleGrid) PixelAt(x, y float64) (Color, error) {
	gx := int(math.Floor(x * g.Scale))
	gy := int(math.Floor(y * g.Scale))
	if gx < 0 || gy < 0 || gx >= g.Width || gy >= g.Height {
		return Color{}, ErrOutOfBounds
	}
	r, gg, b, a := g.At(gx, gy)
	c := RGB8(r, gg, b)
	c.A = float64(a) / 255
	return c, nil
}

// Sampler turns an image into a sparse set of seed points.
type Sampler struct {
	// Stride is the grid spacing in placement units. Default 5.
	Stride int `json:"stride"`
	// SkipProbability drops each grid point with this probability to thin the
	// field. DefaultSampler uses 0.4; zero keeps every point.
	SkipProbability float64 `json:"skipProbability"`
	// ScaleFactor is the resolution of the sampling buffer relative to the
	// placement rect. Default 0.5.
	ScaleFactor float64 `json:"scaleFactor"`
	// AlphaThreshold discards pixels whose alpha is at or below it.
	// DefaultSampler uses 100.
	AlphaThreshold uint8 `json:"alphaThreshold"`
	// MinRGBSum discards near-black pixels whose r+g+b is at or below it.
	// DefaultSampler uses 30.
	MinRGBSum int `json:"minRGBSum"`
}

// DefaultSampler returns the sampler used for full-image materialization.
func DefaultSampler() Sampler {
	return Sampler{
		Stride:          5,
		SkipProbability: 0.4,
		ScaleFactor:     0.5,
		AlphaThreshold:  100,
		MinRGBSum:       30,
	}
}

func (s Sampler) withDefaults() Sampler {
	d := DefaultSampler()
	if s.Stride <= 0 {
		s.Stride = d.Stride
	}
	if s.ScaleFactor <= 0 {
		s.ScaleFactor = d.ScaleFactor
	}
	return s
}

// Grid builds the sampling buffer for img at rect.
func (s Sampler) Grid(img image.Image, rect PlacementRect) *SampleGrid {
	s = s.withDefaults()
	return NewSampleGrid(img, rect.Width, rect.Height, s.ScaleFactor)
}

// Sample draws img into a reduced-resolution buffer sized to rect and walks
// rect at Stride, returning the surviving points in surface coordinates.
// Output order carries no meaning.
func (s Sampler) Sample(img image.Image, rect PlacementRect, rng *rand.Rand) []Sample {
	if img == nil || rect.Empty() {
		return nil
	}
	return s.SampleGrid(s.Grid(img, rect), rect, rng)
}

// SampleGrid walks an existing grid. The rng is consulted once per
// grid point when thinning is on, so the same seed yields the same result.
func (s Sampler) SampleGrid(grid *SampleGrid, rect PlacementRect, rng *rand.Rand) []Sample {
	if grid == nil || rect.Empty() {
		return nil
	}
	s = s.withDefaults()

	step := float64(s.Stride)
	var out []Sample
	for y := 0.0; y < rect.Height; y += step {
		for x := 0.0; x < rect.Width; x += step {
			if s.SkipProbability > 0 && rng.Float64() < s.SkipProbability {
				continue
			}
			r, g, b, a := grid.At(int(math.Floor(x*grid.Scale)), int(math.Floor(y*grid.Scale)))
			if a <= s.AlphaThreshold || int(r)+int(g)+int(b) <= s.MinRGBSum {
				continue
			}
			out = append(out, Sample{
				X:     rect.X + x,
				Y:     rect.Y + y,
				Color: RGB8(r, g, b),
				Alpha: float64(a) / 255,
			})
		}
	}
	return out
}
