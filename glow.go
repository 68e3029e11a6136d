package hologram

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// BlurFilter applies a Kawase iterative blur using downscale/upscale passes.
// Bilinear filtering during DrawImage does the smoothing.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius (in pixels).
func NewBlurFilter(radius int) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius}
}

// Passes returns how many downscale passes Apply performs: ceil(log2(radius)),
// minimum 1. A zero radius performs none.
func (f *BlurFilter) Passes() int {
	if f.Radius <= 0 {
		return 0
	}
	return max(int(math.Ceil(math.Log2(float64(f.Radius)))), 1)
}

// Apply renders a Kawase blur from src into dst using iterative downscale/upscale.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	passes := f.Passes()
	if passes == 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		op.Blend = ebiten.BlendSourceOver
		dst.DrawImage(src, op)
		return
	}

	srcBounds := src.Bounds()
	w, h := srcBounds.Dx(), srcBounds.Dy()

	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	// Deallocate excess temp images from a previous larger radius.
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	op.Blend = ebiten.BlendSourceOver

	// Downscale passes: each half-size.
	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		drawScaled(f.temps[i], current, op)
		current = f.temps[i]
	}

	// Upscale passes: draw each back up.
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		drawScaled(f.temps[i], current, op)
		current = f.temps[i]
	}

	drawScaled(dst, current, op)
}

// drawScaled stretches src over the whole of dst with linear filtering.
func drawScaled(dst, src *ebiten.Image, op *ebiten.DrawImageOptions) {
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sw := float64(src.Bounds().Dx())
	sh := float64(src.Bounds().Dy())
	tw := float64(dst.Bounds().Dx())
	th := float64(dst.Bounds().Dy())
	op.GeoM.Scale(tw/sw, th/sh)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// Dispose releases the intermediate images.
func (f *BlurFilter) Dispose() {
	for i, img := range f.temps {
		if img != nil {
			img.Deallocate()
		}
		f.temps[i] = nil
	}
	f.temps = f.temps[:0]
}

// glowLayer renders quads into an offscreen image, blurs it, and composites
// the blurred result additively. One layer exists per blur radius so the
// blur state is set once per pass, not once per particle.
type glowLayer struct {
	shapes  *ebiten.Image
	blurred *ebiten.Image
	blur    *BlurFilter
	op      ebiten.DrawImageOptions
}

func newGlowLayer(w, h, radius int) *glowLayer {
	return &glowLayer{
		shapes:  ebiten.NewImage(w, h),
		blurred: ebiten.NewImage(w, h),
		blur:    NewBlurFilter(radius),
	}
}

func (g *glowLayer) resize(w, h int) {
	b := g.shapes.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return
	}
	g.shapes.Deallocate()
	g.blurred.Deallocate()
	g.shapes = ebiten.NewImage(w, h)
	g.blurred = ebiten.NewImage(w, h)
}

// render draws batch into the layer, blurs it, and composites onto dst. The
// unblurred shapes are drawn too so the glow has a visible core. Returns the
// draw calls issued.
func (g *glowLayer) render(dst *ebiten.Image, batch *quadBatch) int {
	if batch.quads() == 0 {
		return 0
	}
	g.shapes.Clear()
	g.blurred.Clear()
	calls := batch.submit(g.shapes, BlendNormal)
	calls += batch.submit(dst, BlendNormal)
	g.blur.Apply(g.shapes, g.blurred)

	g.op.GeoM.Reset()
	g.op.ColorScale.Reset()
	g.op.Filter = ebiten.FilterNearest
	g.op.Blend = BlendAdd.EbitenBlend()
	dst.DrawImage(g.blurred, &g.op)
	return calls + 1 + 2*g.blur.Passes()
}

func (g *glowLayer) dispose() {
	g.shapes.Deallocate()
	g.blurred.Deallocate()
	g.blur.Dispose()
}
