package hologram

import (
	"math"
	"math/rand/v2"
	"time"
)

// MeltingParticle is a short-lived particle shed from the image silhouette.
// Its velocity is fixed at spawn; Life only ever decreases.
type MeltingParticle struct {
	X, Y    float64
	VX, VY  float64
	Color   Color
	Size    float64
	Opacity float64
	Life    float64
	MaxLife float64
}

// Alive reports whether the particle still has life left.
func (p *MeltingParticle) Alive() bool {
	return p.Life > 0
}

// LifeRatio returns remaining life as a fraction of MaxLife.
func (p *MeltingParticle) LifeRatio() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return p.Life / p.MaxLife
}

// EmitterConfig controls how melting particles are spawned and expire.
type EmitterConfig struct {
	// MaxParticles caps the stored population, including expired entries
	// awaiting the next sweep. Default 24000.
	MaxParticles int `json:"maxParticles"`
	// MaxPerTick caps how many particles are spawned per Update. Default 150.
	MaxPerTick int `json:"maxPerTick"`
	// Inset keeps spawn points this far inside the image edge. Default 5.
	Inset float64 `json:"inset"`
	// EdgeVariation is the extra random inset on the top and right edges. Default 15.
	EdgeVariation float64 `json:"edgeVariation"`
	// NormalJitter is the maximum sideways tilt of the top and right normals. Default 0.2.
	NormalJitter float64 `json:"normalJitter"`
	// BaseSpeed is the range of base speeds in pixels per tick. Default 4..5.
	BaseSpeed Range `json:"baseSpeed"`
	// SpeedJitter is added on top of BaseSpeed. Default 0..2.
	SpeedJitter Range `json:"speedJitter"`
	// Size is the range of particle sizes. Default 2.5..5.5.
	Size Range `json:"size"`
	// Life is the range of initial life values. Default 100..150.
	Life Range `json:"life"`
	// Decay is subtracted from Life every tick. Default 16.67.
	Decay float64 `json:"decay"`
	// SweepInterval is how often expired particles are removed from storage.
	// Default 1s.
	SweepInterval time.Duration `json:"sweepInterval"`
	// CullMargin is how far outside the surface a particle may be and still draw.
	CullMargin float64 `json:"cullMargin"`
}

// DefaultEmitterConfig returns the standard melting tuning.
func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		MaxParticles:  24000,
		MaxPerTick:    150,
		Inset:         5,
		EdgeVariation: 15,
		NormalJitter:  0.2,
		BaseSpeed:     Range{Min: 4, Max: 5},
		SpeedJitter:   Range{Min: 0, Max: 2},
		Size:          Range{Min: 2.5, Max: 5.5},
		Life:          Range{Min: 100, Max: 150},
		Decay:         16.67,
		SweepInterval: time.Second,
		CullMargin:    50,
	}
}

func (c EmitterConfig) withDefaults() EmitterConfig {
	d := DefaultEmitterConfig()
	if c.MaxParticles <= 0 {
		c.MaxParticles = d.MaxParticles
	}
	if c.MaxPerTick <= 0 {
		c.MaxPerTick = d.MaxPerTick
	}
	if c.Inset == 0 {
		c.Inset = d.Inset
	}
	if c.EdgeVariation == 0 {
		c.EdgeVariation = d.EdgeVariation
	}
	if c.NormalJitter == 0 {
		c.NormalJitter = d.NormalJitter
	}
	c.BaseSpeed = c.BaseSpeed.or(d.BaseSpeed)
	c.SpeedJitter = c.SpeedJitter.or(d.SpeedJitter)
	c.Size = c.Size.or(d.Size)
	c.Life = c.Life.or(d.Life)
	if c.Decay <= 0 {
		c.Decay = d.Decay
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = d.SweepInterval
	}
	if c.CullMargin == 0 {
		c.CullMargin = d.CullMargin
	}
	return c
}

// EdgeEmitter sheds particles outward from the four edges of the image. Its
// population is independent of the Field's.
type EdgeEmitter struct {
	config    EmitterConfig
	particles []MeltingParticle
	alive     int
	sweep     Ticker
	active    bool
}

// NewEdgeEmitter creates a stopped emitter. Zero fields in cfg take their
// defaults.
func NewEdgeEmitter(cfg EmitterConfig) *EdgeEmitter {
	cfg = cfg.withDefaults()
	return &EdgeEmitter{
		config: cfg,
		sweep:  Ticker{Interval: cfg.SweepInterval},
	}
}

// Start begins emitting particles.
func (e *EdgeEmitter) Start() {
	e.active = true
}

// Stop stops emitting new particles. Existing particles live out their life.
func (e *EdgeEmitter) Stop() {
	e.active = false
}

// Reset stops emitting and discards every particle.
func (e *EdgeEmitter) Reset() {
	e.active = false
	e.particles = e.particles[:0]
	e.alive = 0
	e.sweep.Reset()
}

// IsActive reports whether the emitter is currently emitting new particles.
func (e *EdgeEmitter) IsActive() bool {
	return e.active
}

// AliveCount returns the number of particles with life left.
func (e *EdgeEmitter) AliveCount() int {
	return e.alive
}

// Len returns the stored population, including expired particles that have
// not been swept yet.
func (e *EdgeEmitter) Len() int {
	return len(e.particles)
}

// Config returns a pointer to the emitter's config for live tuning.
func (e *EdgeEmitter) Config() *EmitterConfig {
	return &e.config
}

// Update advances existing particles by one tick, sweeps expired ones when
// the sweep interval has elapsed, then spawns new particles along the edges
// of rect. src supplies colors in rect-local coordinates; a failed read skips
// that one particle.
func (e *EdgeEmitter) Update(dt time.Duration, src PixelSource, rect PlacementRect, rng *rand.Rand) {
	decay := e.config.Decay
	for i := range e.particles {
		p := &e.particles[i]
		if p.Life <= 0 {
			continue
		}
		p.X += p.VX
		p.Y += p.VY
		p.Life -= decay
		if p.Life <= 0 {
			e.alive--
		}
	}

	if e.sweep.Add(dt) {
		e.Sweep()
	}

	if !e.active || src == nil || rect.Empty() {
		return
	}
	n := min(e.config.MaxPerTick, e.config.MaxParticles-len(e.particles))
	for i := 0; i < n; i++ {
		e.spawn(src, rect, rng)
	}
}

// Sweep removes expired particles from storage.
func (e *EdgeEmitter) Sweep() {
	n := 0
	for i := range e.particles {
		if e.particles[i].Life > 0 {
			e.particles[n] = e.particles[i]
			n++
		}
	}
	clear(e.particles[n:])
	e.particles = e.particles[:n]
	e.alive = n
}

// spawn picks a point near one edge of rect and appends a particle moving
// along that edge's outward normal.
func (e *EdgeEmitter) spawn(src PixelSource, rect PlacementRect, rng *rand.Rand) {
	cfg := &e.config
	w, h := rect.Width, rect.Height
	jitter := func() float64 { return rng.Float64()*2*cfg.NormalJitter - cfg.NormalJitter }

	var sx, sy, nx, ny float64
	switch Edge(rng.IntN(4)) {
	case EdgeTop:
		sx = math.Floor(rng.Float64() * w)
		sy = cfg.Inset + rng.Float64()*cfg.EdgeVariation
		nx, ny = jitter(), -1
	case EdgeRight:
		sx = w - 1 - (cfg.Inset + rng.Float64()*cfg.EdgeVariation)
		sy = math.Floor(rng.Float64() * h)
		nx, ny = 1, jitter()
	case EdgeBottom:
		sx = math.Floor(rng.Float64() * w)
		sy = h - 1 - cfg.Inset
		nx, ny = 0, 1
	default:
		sx = cfg.Inset
		sy = math.Floor(rng.Float64() * h)
		nx, ny = -1, 0
	}

	c, err := src.PixelAt(sx, sy)
	if err != nil {
		return
	}
	c.A = 1

	speed := cfg.BaseSpeed.Random(rng) + cfg.SpeedJitter.Random(rng)
	life := cfg.Life.Random(rng)
	e.particles = append(e.particles, MeltingParticle{
		X:       rect.X + sx,
		Y:       rect.Y + sy,
		VX:      nx * speed,
		VY:      ny * speed,
		Color:   c,
		Size:    cfg.Size.Random(rng),
		Opacity: 1,
		Life:    life,
		MaxLife: life,
	})
	e.alive++
}

// Visible calls fn for every particle with life left inside bounds grown by
// the cull margin.
func (e *EdgeEmitter) Visible(bounds Rect, fn func(p *MeltingParticle)) {
	b := bounds.Inflate(e.config.CullMargin)
	for i := range e.particles {
		p := &e.particles[i]
		if p.Life <= 0 || !b.Contains(p.X, p.Y) {
			continue
		}
		fn(p)
	}
}
