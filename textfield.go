package hologram

import (
	"fmt"
	"math"
	"strings"
)

// Falloff shapes how pointer influence decays with distance.
type Falloff uint8

const (
	FalloffLinear      Falloff = iota // 1 - d/r
	FalloffExponential                // (1 - d/r)^2
	FalloffGaussian                   // exp(-4 (d/r)^2), cut at r
)

func (f Falloff) String() string {
	switch f {
	case FalloffLinear:
		return "linear"
	case FalloffExponential:
		return "exponential"
	case FalloffGaussian:
		return "gaussian"
	default:
		return "unknown"
	}
}

// ParseFalloff maps "linear", "exponential" or "gaussian" to a Falloff.
func ParseFalloff(s string) (Falloff, error) {
	switch strings.ToLower(s) {
	case "linear", "":
		return FalloffLinear, nil
	case "exponential":
		return FalloffExponential, nil
	case "gaussian":
		return FalloffGaussian, nil
	}
	return 0, fmt.Errorf("hologram: unknown falloff %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Falloff) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Falloff) UnmarshalText(b []byte) error {
	v, err := ParseFalloff(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// weight returns the influence in [0, 1] at normalized distance t = d/r.
func (f Falloff) weight(t float64) float64 {
	if t >= 1 {
		return 0
	}
	switch f {
	case FalloffExponential:
		return (1 - t) * (1 - t)
	case FalloffGaussian:
		return math.Exp(-4 * t * t)
	default:
		return 1 - t
	}
}

// TextParticle is one grid point of rasterized text.
type TextParticle struct {
	X, Y               float64
	InitialX, InitialY float64
	Size               float64
	Color              Color
}

// TextFieldConfig controls glyph particle motion.
type TextFieldConfig struct {
	// WaveAmplitude is the vertical swing of the travelling wave. Default 6.
	WaveAmplitude float64 `json:"waveAmplitude"`
	// TimeStep advances the wave phase per tick. Default 0.01.
	TimeStep float64 `json:"timeStep"`
	// Radius is the pointer influence radius. Default 150.
	Radius float64 `json:"radius"`
	// Force scales the displacement at zero distance. Default 5.
	Force float64 `json:"force"`
	// Ease is the fraction of the distance to the target covered per tick. Default 0.15.
	Ease float64 `json:"ease"`
	// Falloff shapes pointer influence. Default linear.
	Falloff Falloff `json:"falloff"`
	// ParticleSize is the side of each drawn square. Default 3.
	ParticleSize float64 `json:"particleSize"`
}

// DefaultTextFieldConfig returns the standard glyph tuning.
func DefaultTextFieldConfig() TextFieldConfig {
	return TextFieldConfig{
		WaveAmplitude: 6,
		TimeStep:      0.01,
		Radius:        150,
		Force:         5,
		Ease:          0.15,
		Falloff:       FalloffLinear,
		ParticleSize:  3,
	}
}

func (c TextFieldConfig) withDefaults() TextFieldConfig {
	d := DefaultTextFieldConfig()
	if c.WaveAmplitude == 0 {
		c.WaveAmplitude = d.WaveAmplitude
	}
	if c.TimeStep <= 0 {
		c.TimeStep = d.TimeStep
	}
	if c.Radius <= 0 {
		c.Radius = d.Radius
	}
	if c.Force == 0 {
		c.Force = d.Force
	}
	if c.Ease <= 0 {
		c.Ease = d.Ease
	}
	if c.ParticleSize <= 0 {
		c.ParticleSize = d.ParticleSize
	}
	return c
}

// TextField animates particles laid out on the ink of a text string. A
// travelling sine wave runs along the baseline and the pointer pushes
// particles away from itself.
type TextField struct {
	config    TextFieldConfig
	particles []TextParticle
	width     float64
	time      float64
}

// NewTextField rasterizes s with gf in a w x h canvas and lays out particles
// on its ink, colored by scheme.Text.
func NewTextField(gf *GlyphFont, s string, w, h int, scheme ColorScheme, cfg TextFieldConfig) (*TextField, error) {
	mask, err := gf.RasterizeText(s, w, h)
	if err != nil {
		return nil, err
	}
	tf := &TextField{config: cfg.withDefaults(), width: float64(w)}
	tf.setPoints(DefaultGlyphSampler().Sample(mask), scheme.Text)
	return tf, nil
}

func (t *TextField) setPoints(points []Vec2, c Color) {
	t.particles = make([]TextParticle, len(points))
	for i, pt := range points {
		t.particles[i] = TextParticle{
			X:        pt.X,
			Y:        pt.Y,
			InitialX: pt.X,
			InitialY: pt.Y,
			Size:     t.config.ParticleSize,
			Color:    c,
		}
	}
}

// SetColor recolors every particle, as when the color scheme changes.
func (t *TextField) SetColor(c Color) {
	for i := range t.particles {
		t.particles[i].Color = c
	}
}

// Len returns the number of particles.
func (t *TextField) Len() int {
	return len(t.particles)
}

// Particles returns the backing slice. It MUST NOT be resized.
func (t *TextField) Particles() []TextParticle {
	return t.particles
}

// Config returns a pointer to the field's config for live tuning.
func (t *TextField) Config() *TextFieldConfig {
	return &t.config
}

// Update advances the wave by one step and eases every particle toward its
// target. pointer is in field-local coordinates; nil disables interaction.
func (t *TextField) Update(pointer *Vec2) {
	cfg := &t.config
	t.time += cfg.TimeStep
	wavelength := t.width / 2
	for i := range t.particles {
		p := &t.particles[i]
		baseX := p.InitialX
		baseY := p.InitialY
		if wavelength > 0 {
			progress := p.InitialX/wavelength - t.time/2
			baseY += math.Sin(progress*2*math.Pi) * cfg.WaveAmplitude
		}

		tx, ty := baseX, baseY
		if pointer != nil {
			dx, dy := p.X-pointer.X, p.Y-pointer.Y
			d := math.Hypot(dx, dy)
			if d < cfg.Radius {
				force := cfg.Falloff.weight(d/cfg.Radius) * cfg.Force
				tx += dx * force
				ty += dy * force
			}
		}
		p.X += (tx - p.X) * cfg.Ease
		p.Y += (ty - p.Y) * cfg.Ease
	}
}
