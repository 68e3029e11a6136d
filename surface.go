package hologram

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// SurfaceConfig controls how particles are painted.
type SurfaceConfig struct {
	// TrailAlpha is the opacity of the black fill laid over the previous
	// frame, leaving short motion trails. Default 0.2.
	TrailAlpha float64 `json:"trailAlpha"`
	// FieldGlowRadius is the blur radius of the materialization glow. Default 3.
	FieldGlowRadius int `json:"fieldGlowRadius"`
	// FieldGlowAlpha is the opacity of each glow square. Default 0.3.
	FieldGlowAlpha float64 `json:"fieldGlowAlpha"`
	// MeltGlowRadius is the blur radius of the tight melting glow. Default 12.
	MeltGlowRadius int `json:"meltGlowRadius"`
	// MeltGlowAlpha scales the tight glow by life ratio. Default 0.8.
	MeltGlowAlpha float64 `json:"meltGlowAlpha"`
	// MeltHaloRadius is the blur radius of the wide melting glow. Default 20.
	MeltHaloRadius int `json:"meltHaloRadius"`
	// MeltHaloAlpha scales the wide glow by life ratio. Default 0.4.
	MeltHaloAlpha float64 `json:"meltHaloAlpha"`
	// StreakAlpha is the opacity of velocity streaks. Default 0.1.
	StreakAlpha float64 `json:"streakAlpha"`
	// StreakMinSpeed is the per-axis speed above which a streak is drawn. Default 0.1.
	StreakMinSpeed float64 `json:"streakMinSpeed"`
}

// DefaultSurfaceConfig returns the standard paint settings.
func DefaultSurfaceConfig() SurfaceConfig {
	return SurfaceConfig{
		TrailAlpha:      0.2,
		FieldGlowRadius: 3,
		FieldGlowAlpha:  0.3,
		MeltGlowRadius:  12,
		MeltGlowAlpha:   0.8,
		MeltHaloRadius:  20,
		MeltHaloAlpha:   0.4,
		StreakAlpha:     0.1,
		StreakMinSpeed:  0.1,
	}
}

func (c SurfaceConfig) withDefaults() SurfaceConfig {
	d := DefaultSurfaceConfig()
	if c.TrailAlpha <= 0 {
		c.TrailAlpha = d.TrailAlpha
	}
	if c.FieldGlowRadius <= 0 {
		c.FieldGlowRadius = d.FieldGlowRadius
	}
	if c.FieldGlowAlpha <= 0 {
		c.FieldGlowAlpha = d.FieldGlowAlpha
	}
	if c.MeltGlowRadius <= 0 {
		c.MeltGlowRadius = d.MeltGlowRadius
	}
	if c.MeltGlowAlpha <= 0 {
		c.MeltGlowAlpha = d.MeltGlowAlpha
	}
	if c.MeltHaloRadius <= 0 {
		c.MeltHaloRadius = d.MeltHaloRadius
	}
	if c.MeltHaloAlpha <= 0 {
		c.MeltHaloAlpha = d.MeltHaloAlpha
	}
	if c.StreakAlpha <= 0 {
		c.StreakAlpha = d.StreakAlpha
	}
	if c.StreakMinSpeed <= 0 {
		c.StreakMinSpeed = d.StreakMinSpeed
	}
	return c
}

// Surface is the offscreen canvas particles are painted onto. It is sized to
// the viewport; particle coordinates are absolute so resizing never touches
// particle state.
type Surface struct {
	config SurfaceConfig
	image  *ebiten.Image
	w, h   int

	fill quadBatch
	glow quadBatch
	halo quadBatch

	fieldGlow *glowLayer
	meltGlow  *glowLayer
	meltHalo  *glowLayer

	op ebiten.DrawImageOptions

	// drawCalls counts GPU submissions since the last BeginFrame.
	drawCalls int
}

// NewSurface allocates a surface of w x h pixels. Zero fields in cfg take
// their defaults. Sizes below 1 are clamped to 1.
func NewSurface(w, h int, cfg SurfaceConfig) *Surface {
	cfg = cfg.withDefaults()
	w, h = max(w, 1), max(h, 1)
	return &Surface{
		config:    cfg,
		image:     ebiten.NewImage(w, h),
		w:         w,
		h:         h,
		fieldGlow: newGlowLayer(w, h, cfg.FieldGlowRadius),
		meltGlow:  newGlowLayer(w, h, cfg.MeltGlowRadius),
		meltHalo:  newGlowLayer(w, h, cfg.MeltHaloRadius),
	}
}

// Config returns a pointer to the surface's config. Glow radii are read
// at construction.
func (s *Surface) Config() *SurfaceConfig {
	return &s.config
}

// Image returns the underlying canvas.
func (s *Surface) Image() *ebiten.Image {
	return s.image
}

// Bounds returns the surface area in viewport coordinates.
func (s *Surface) Bounds() Rect {
	return Rect{Width: float64(s.w), Height: float64(s.h)}
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (int, int) {
	return s.w, s.h
}

// DrawCalls returns the number of GPU submissions since the last BeginFrame.
func (s *Surface) DrawCalls() int {
	return s.drawCalls
}

// Resize reallocates the canvas when the size changes and reports whether it
// did. The previous frame's trails are lost.
func (s *Surface) Resize(w, h int) bool {
	w, h = max(w, 1), max(h, 1)
	if w == s.w && h == s.h {
		return false
	}
	s.image.Deallocate()
	s.image = ebiten.NewImage(w, h)
	s.w, s.h = w, h
	s.fieldGlow.resize(w, h)
	s.meltGlow.resize(w, h)
	s.meltHalo.resize(w, h)
	return true
}

// BeginFrame fades the previous frame toward black.
func (s *Surface) BeginFrame() {
	s.drawCalls = 0
	s.fill.reset()
	s.fill.appendRect(0, 0, float64(s.w), float64(s.h), ColorBlack, s.config.TrailAlpha)
	s.drawCalls += s.fill.flush(s.image, BlendNormal)
}

// Clear erases the canvas entirely.
func (s *Surface) Clear() {
	s.image.Clear()
}

// DrawField paints the visible materialization particles: a fill pass of
// shimmering squares, then a glow pass. When streaks is set, particles moving
// faster than the streak threshold also get a faint trailing line.
func (s *Surface) DrawField(f *Field, now float64, streaks bool) {
	cfg := &s.config
	s.fill.reset()
	s.glow.reset()
	f.Visible(s.Bounds(), func(p *MaterializationParticle) {
		appendFieldFill(&s.fill, p, now)
		if streaks {
			appendStreak(&s.fill, p, cfg.StreakMinSpeed, cfg.StreakAlpha)
		}
		appendFieldGlow(&s.glow, p, cfg.FieldGlowAlpha)
	})
	s.drawCalls += s.fill.flush(s.image, BlendNormal)
	s.drawCalls += s.fieldGlow.render(s.image, &s.glow)
	s.glow.reset()
}

// DrawMelting paints every live melting particle as an elongated rect aligned
// with its velocity, followed by a tight and a wide glow.
func (s *Surface) DrawMelting(e *EdgeEmitter) {
	cfg := &s.config
	s.fill.reset()
	s.glow.reset()
	s.halo.reset()
	e.Visible(s.Bounds(), func(p *MeltingParticle) {
		appendMeltFill(&s.fill, p)
		appendMeltGlow(&s.glow, &s.halo, p, cfg.MeltGlowAlpha, cfg.MeltHaloAlpha)
	})
	s.drawCalls += s.fill.flush(s.image, BlendNormal)
	s.drawCalls += s.meltGlow.render(s.image, &s.glow)
	s.drawCalls += s.meltHalo.render(s.image, &s.halo)
	s.glow.reset()
	s.halo.reset()
}

// DrawTextField paints glyph particles as plain squares offset by (x, y).
func (s *Surface) DrawTextField(t *TextField, x, y float64) {
	s.fill.reset()
	for i := range t.particles {
		p := &t.particles[i]
		s.fill.appendRect(x+p.X, y+p.Y, p.Size, p.Size, p.Color, 1)
	}
	s.drawCalls += s.fill.flush(s.image, BlendNormal)
}

// DrawPhases paints pixel-art particles at their current opacity, offset by
// (x, y).
func (s *Surface) DrawPhases(c *PhaseCycler, x, y float64) {
	s.fill.reset()
	for i := range c.particles {
		p := &c.particles[i]
		if p.Opacity <= 0 {
			continue
		}
		s.fill.appendRect(x+math.Floor(p.X), y+math.Floor(p.Y), p.Size, p.Size, p.Color, p.Opacity)
	}
	s.drawCalls += s.fill.flush(s.image, BlendNormal)
}

// drawImageInRect draws img scaled into rect at the given alpha. The scene
// uses it to lay the revealed source image beneath the particles.
func drawImageInRect(dst, img *ebiten.Image, rect PlacementRect, alpha float64, op *ebiten.DrawImageOptions) {
	if img == nil || alpha <= 0 || rect.Empty() {
		return
	}
	b := img.Bounds()
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.GeoM.Scale(rect.Width/float64(b.Dx()), rect.Height/float64(b.Dy()))
	op.GeoM.Translate(rect.X, rect.Y)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	op.Blend = ebiten.BlendSourceOver
	dst.DrawImage(img, op)
}

// Present composites the surface onto dst.
func (s *Surface) Present(dst *ebiten.Image, blend BlendMode) {
	s.op.GeoM.Reset()
	s.op.ColorScale.Reset()
	s.op.Filter = ebiten.FilterNearest
	s.op.Blend = blend.EbitenBlend()
	dst.DrawImage(s.image, &s.op)
}

// Dispose releases every image owned by the surface.
func (s *Surface) Dispose() {
	s.image.Deallocate()
	s.fieldGlow.dispose()
	s.meltGlow.dispose()
	s.meltHalo.dispose()
}

// appendFieldFill appends a size x size square centred on the particle.
func appendFieldFill(b *quadBatch, p *MaterializationParticle, now float64) {
	b.appendRect(p.X-p.Size/2, p.Y-p.Size/2, p.Size, p.Size, p.Color, p.Alpha(now))
}

// appendFieldGlow appends a 2size x 2size square centred on the particle.
func appendFieldGlow(b *quadBatch, p *MaterializationParticle, alpha float64) {
	b.appendRect(p.X-p.Size, p.Y-p.Size, p.Size*2, p.Size*2, p.Color, alpha)
}

// appendStreak appends a one pixel line from the particle back along twice
// its velocity, when either velocity component exceeds minSpeed.
func appendStreak(b *quadBatch, p *MaterializationParticle, minSpeed, alpha float64) {
	if math.Abs(p.VX) <= minSpeed && math.Abs(p.VY) <= minSpeed {
		return
	}
	b.appendLine(p.X, p.Y, p.X-p.VX*2, p.Y-p.VY*2, 1, p.Color, alpha)
}

// meltAngle is the heading of a melting particle.
func meltAngle(p *MeltingParticle) float64 {
	return math.Atan2(p.VY, p.VX)
}

func appendMeltFill(b *quadBatch, p *MeltingParticle) {
	a := math.Min(1, p.Opacity*p.LifeRatio()*1.5)
	sz := p.Size
	b.appendRotatedRect(p.X, p.Y, meltAngle(p), -sz/2, -sz/4, sz*2, sz/1.5, p.Color, a)
}

func appendMeltGlow(glow, halo *quadBatch, p *MeltingParticle, glowAlpha, haloAlpha float64) {
	lr := p.LifeRatio()
	sz := p.Size
	angle := meltAngle(p)
	glow.appendRotatedRect(p.X, p.Y, angle, -sz*1.2, -sz/1.5, sz*2.4, sz*1.2, p.Color, math.Min(1, glowAlpha*lr))
	halo.appendRotatedRect(p.X, p.Y, angle, -sz*1.5, -sz/1.2, sz*3, sz*1.5, p.Color, math.Min(1, haloAlpha*lr))
}
