package hologram

import (
	"errors"
	"image"
	"math/rand/v2"
	"time"

	xdraw "golang.org/x/image/draw"
)

// ErrNoFrames is returned when a PhaseCycler is built without frames.
var ErrNoFrames = errors.New("hologram: no frames")

// PhaseParticle is one pixel of a pixel-art frame.
type PhaseParticle struct {
	X, Y             float64
	TargetX, TargetY float64
	Size             float64
	Opacity          float64
	Color            Color
}

// PhaseConfig controls the frame cycler.
type PhaseConfig struct {
	// Size is the side every frame is resampled to. Default 96.
	Size int `json:"size"`
	// Stride is the spacing between sampled pixels. Default 3.
	Stride int `json:"stride"`
	// MinOpacity is the alpha a pixel must exceed to become a particle. Default 0.4.
	MinOpacity float64 `json:"minOpacity"`
	// Scatter is the width of the random offset new particles start from. Default 60.
	Scatter float64 `json:"scatter"`
	// Transition is the fraction of the distance to the target covered per tick. Default 0.05.
	Transition float64 `json:"transition"`
	// FadeStep is added to opacity per tick. Default 0.03.
	FadeStep float64 `json:"fadeStep"`
	// ParticleSize is the side of each drawn square. Default 3.
	ParticleSize float64 `json:"particleSize"`
	// FrameDuration is how long each frame is shown. Default 3s.
	FrameDuration time.Duration `json:"frameDuration"`
}

// DefaultPhaseConfig returns the standard cycler settings.
func DefaultPhaseConfig() PhaseConfig {
	return PhaseConfig{
		Size:          96,
		Stride:        3,
		MinOpacity:    0.4,
		Scatter:       60,
		Transition:    0.05,
		FadeStep:      0.03,
		ParticleSize:  3,
		FrameDuration: 3 * time.Second,
	}
}

func (c PhaseConfig) withDefaults() PhaseConfig {
	d := DefaultPhaseConfig()
	if c.Size <= 0 {
		c.Size = d.Size
	}
	if c.Stride <= 0 {
		c.Stride = d.Stride
	}
	if c.MinOpacity <= 0 {
		c.MinOpacity = d.MinOpacity
	}
	if c.Scatter <= 0 {
		c.Scatter = d.Scatter
	}
	if c.Transition <= 0 {
		c.Transition = d.Transition
	}
	if c.FadeStep <= 0 {
		c.FadeStep = d.FadeStep
	}
	if c.ParticleSize <= 0 {
		c.ParticleSize = d.ParticleSize
	}
	if c.FrameDuration <= 0 {
		c.FrameDuration = d.FrameDuration
	}
	return c
}

// PhaseCycler steps through a looped sequence of pixel-art frames. Every frame
// change replaces the particles with the new frame's pixels, scattered and
// transparent, which then gather and fade in.
type PhaseCycler struct {
	config    PhaseConfig
	frames    []*image.NRGBA
	frame     int
	particles []PhaseParticle
	ticker    Ticker
}

// NewPhaseCycler resamples frames to the configured size and shows frame 0.
// Nil frames are kept as blank so frame numbering is stable.
func NewPhaseCycler(frames []image.Image, cfg PhaseConfig, rng *rand.Rand) (*PhaseCycler, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	cfg = cfg.withDefaults()
	c := &PhaseCycler{
		config: cfg,
		frames: make([]*image.NRGBA, len(frames)),
		ticker: Ticker{Interval: cfg.FrameDuration},
	}
	for i, f := range frames {
		dst := image.NewNRGBA(image.Rect(0, 0, cfg.Size, cfg.Size))
		if f != nil {
			xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), f, f.Bounds(), xdraw.Src, nil)
		}
		c.frames[i] = dst
	}
	c.SetFrame(0, rng)
	return c, nil
}

// Frame returns the index of the frame being shown.
func (c *PhaseCycler) Frame() int {
	return c.frame
}

// Frames returns the number of frames in the cycle.
func (c *PhaseCycler) Frames() int {
	return len(c.frames)
}

// Len returns the number of particles in the current frame.
func (c *PhaseCycler) Len() int {
	return len(c.particles)
}

// Particles returns the backing slice. It MUST NOT be resized.
func (c *PhaseCycler) Particles() []PhaseParticle {
	return c.particles
}

// Size returns the side of the square the frames occupy.
func (c *PhaseCycler) Size() int {
	return c.config.Size
}

// SetFrame switches to frame i (wrapped into range) and regenerates particles.
func (c *PhaseCycler) SetFrame(i int, rng *rand.Rand) {
	n := len(c.frames)
	c.frame = ((i % n) + n) % n
	img := c.frames[c.frame]
	cfg := &c.config
	c.particles = c.particles[:0]
	for y := 0; y < cfg.Size; y += cfg.Stride {
		for x := 0; x < cfg.Size; x += cfg.Stride {
			off := img.PixOffset(x, y)
			px := img.Pix[off : off+4 : off+4]
			if float64(px[3])/255 <= cfg.MinOpacity {
				continue
			}
			c.particles = append(c.particles, PhaseParticle{
				X:       float64(x) + (rng.Float64()-0.5)*cfg.Scatter,
				Y:       float64(y) + (rng.Float64()-0.5)*cfg.Scatter,
				TargetX: float64(x),
				TargetY: float64(y),
				Size:    cfg.ParticleSize,
				Color:   RGB8(px[0], px[1], px[2]),
			})
		}
	}
}

// Update advances to the next frame when the frame duration has elapsed, then
// moves every particle toward its target and fades it in.
func (c *PhaseCycler) Update(dt time.Duration, rng *rand.Rand) {
	if c.ticker.Add(dt) {
		c.SetFrame(c.frame+1, rng)
	}
	cfg := &c.config
	for i := range c.particles {
		p := &c.particles[i]
		p.X += (p.TargetX - p.X) * cfg.Transition
		p.Y += (p.TargetY - p.Y) * cfg.Transition
		p.Opacity = min(p.Opacity+cfg.FadeStep, 1)
	}
}
