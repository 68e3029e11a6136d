package hologram

import (
	"math"
	"math/rand/v2"
	"time"
)

// Phase is the lifecycle state of a MaterializationParticle.
type Phase uint8

const (
	PhaseArriving Phase = iota // travelling from its spawn point to its origin
	PhaseSettled               // idling around its origin
)

func (p Phase) String() string {
	switch p {
	case PhaseArriving:
		return "arriving"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// MaterializationParticle is one point of the image. Origin and spawn are
// fixed once seeded; the spawn point is only read while arriving.
type MaterializationParticle struct {
	X, Y             float64
	OriginX, OriginY float64
	SpawnX, SpawnY   float64
	// VX and VY accumulate pointer impulses once settled.
	VX, VY          float64
	Color           Color
	Size            float64
	ArrivalDuration time.Duration
	Phase           Phase
	Dead            bool
}

// Alpha returns the particle's shimmering draw alpha at absolute time now
// (seconds).
func (p *MaterializationParticle) Alpha(now float64) float64 {
	return 0.95 + math.Sin(now+p.SpawnX)*0.05
}

// FieldConfig controls the materialization field.
type FieldConfig struct {
	// ArrivalDuration is the range of per-particle travel times in seconds.
	ArrivalDuration Range `json:"arrivalDuration"`
	// Size is the range of particle sizes in pixels.
	Size Range `json:"size"`
	// SpawnMargin is how far beyond the viewport edge particles spawn.
	SpawnMargin float64 `json:"spawnMargin"`
	// Damping is the fraction of the distance to the wave target covered per tick.
	Damping float64 `json:"damping"`
	// InteractionRadius is the pointer influence radius in pixels.
	InteractionRadius float64 `json:"interactionRadius"`
	// RepelForce is the impulse magnitude at zero pointer distance.
	RepelForce float64 `json:"repelForce"`
	// RepelGain scales each impulse before it is added to the velocity.
	RepelGain float64 `json:"repelGain"`
	// VelocityRetain is the fraction of velocity kept when a new impulse lands.
	VelocityRetain float64 `json:"velocityRetain"`
	// SpringK pulls the velocity back toward the wave target.
	SpringK float64 `json:"springK"`
	// Friction multiplies the velocity every tick.
	Friction float64 `json:"friction"`
	// CullMargin is how far outside the surface a particle may be and still draw.
	CullMargin float64 `json:"cullMargin"`
}

// DefaultFieldConfig returns the standard materialization tuning.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		ArrivalDuration:   Range{Min: 1, Max: 3},
		Size:              Range{Min: 0.8, Max: 2.0},
		SpawnMargin:       20,
		Damping:           0.03,
		InteractionRadius: 200,
		RepelForce:        8,
		RepelGain:         0.4,
		VelocityRetain:    0.9,
		SpringK:           0.05,
		Friction:          0.95,
		CullMargin:        50,
	}
}

func (c FieldConfig) withDefaults() FieldConfig {
	d := DefaultFieldConfig()
	c.ArrivalDuration = c.ArrivalDuration.or(d.ArrivalDuration)
	c.Size = c.Size.or(d.Size)
	if c.SpawnMargin == 0 {
		c.SpawnMargin = d.SpawnMargin
	}
	if c.Damping <= 0 {
		c.Damping = d.Damping
	}
	if c.InteractionRadius <= 0 {
		c.InteractionRadius = d.InteractionRadius
	}
	if c.RepelForce == 0 {
		c.RepelForce = d.RepelForce
	}
	if c.RepelGain == 0 {
		c.RepelGain = d.RepelGain
	}
	if c.VelocityRetain <= 0 {
		c.VelocityRetain = d.VelocityRetain
	}
	if c.SpringK <= 0 {
		c.SpringK = d.SpringK
	}
	if c.Friction <= 0 {
		c.Friction = d.Friction
	}
	if c.CullMargin == 0 {
		c.CullMargin = d.CullMargin
	}
	return c
}

// Edge identifies one side of a rectangle.
type Edge uint8

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Field owns the materialization particles of one image.
type Field struct {
	config    FieldConfig
	particles []MaterializationParticle
	live      int
	arriving  int
}

// NewField creates an empty field. Zero fields in cfg take their defaults.
func NewField(cfg FieldConfig) *Field {
	return &Field{config: cfg.withDefaults()}
}

// Config returns a pointer to the field's config for live tuning.
func (f *Field) Config() *FieldConfig {
	return &f.config
}

// Seed replaces the field with one particle per sample. Each particle spawns
// on a uniformly chosen edge just outside viewport. An empty sample set leaves
// the field empty.
func (f *Field) Seed(samples []Sample, viewport Vec2, rng *rand.Rand) {
	f.particles = f.particles[:0]
	f.live = 0
	f.arriving = 0
	if len(samples) == 0 {
		return
	}
	if cap(f.particles) < len(samples) {
		f.particles = make([]MaterializationParticle, 0, len(samples))
	}
	m := f.config.SpawnMargin
	for _, s := range samples {
		var sx, sy float64
		switch Edge(rng.IntN(4)) {
		case EdgeTop:
			sx, sy = rng.Float64()*viewport.X, -m
		case EdgeRight:
			sx, sy = viewport.X+m, rng.Float64()*viewport.Y
		case EdgeBottom:
			sx, sy = rng.Float64()*viewport.X, viewport.Y+m
		default:
			sx, sy = -m, rng.Float64()*viewport.Y
		}
		secs := f.config.ArrivalDuration.Random(rng)
		f.particles = append(f.particles, MaterializationParticle{
			X:               sx,
			Y:               sy,
			OriginX:         s.X,
			OriginY:         s.Y,
			SpawnX:          sx,
			SpawnY:          sy,
			Color:           s.Color,
			Size:            f.config.Size.Random(rng),
			ArrivalDuration: time.Duration(secs * float64(time.Second)),
			Phase:           PhaseArriving,
		})
	}
	f.live = len(f.particles)
	f.arriving = f.live
}

// Clear discards every particle.
func (f *Field) Clear() {
	f.particles = f.particles[:0]
	f.live = 0
	f.arriving = 0
}

// Len returns the number of live particles.
func (f *Field) Len() int {
	return f.live
}

// Settled reports whether the field is non-empty and every live particle has
// finished arriving.
func (f *Field) Settled() bool {
	return f.live > 0 && f.arriving == 0
}

// Particles returns the backing slice, including culled entries flagged Dead.
// The returned slice MUST NOT be resized.
func (f *Field) Particles() []MaterializationParticle {
	return f.particles
}

// Tick advances every live particle. elapsed is the time since Seed, now is
// absolute time in seconds used by the wave motion, and pointer is nil when
// pointer interaction is disabled.
func (f *Field) Tick(elapsed time.Duration, now float64, pointer *Vec2) {
	cfg := &f.config
	for i := range f.particles {
		p := &f.particles[i]
		if p.Dead {
			continue
		}

		if p.Phase == PhaseArriving {
			if elapsed < p.ArrivalDuration {
				e := EaseInOutCubic(float64(elapsed) / float64(p.ArrivalDuration))
				p.X = p.SpawnX + (p.OriginX-p.SpawnX)*e
				p.Y = p.SpawnY + (p.OriginY-p.SpawnY)*e
				continue
			}
			p.Phase = PhaseSettled
			p.X, p.Y = p.OriginX, p.OriginY
			f.arriving--
			continue
		}

		tx, ty := waveTarget(p.OriginX, p.OriginY, now)
		p.X += (tx - p.X) * cfg.Damping
		p.Y += (ty - p.Y) * cfg.Damping

		if pointer == nil {
			p.VX *= cfg.Friction
			p.VY *= cfg.Friction
			p.X += p.VX
			p.Y += p.VY
			continue
		}

		dx := pointer.X - p.X
		dy := pointer.Y - p.Y
		dist := math.Hypot(dx, dy)
		if dist < cfg.InteractionRadius {
			force := (1 - dist/cfg.InteractionRadius) * cfg.RepelForce
			ux, uy := 1.0, 0.0
			if dist > 0 {
				ux, uy = dx/dist, dy/dist
			}
			p.VX = p.VX*cfg.VelocityRetain - ux*force*cfg.RepelGain
			p.VY = p.VY*cfg.VelocityRetain - uy*force*cfg.RepelGain
		}

		p.X += p.VX
		p.Y += p.VY

		p.VX += (tx - p.X) * cfg.SpringK
		p.VY += (ty - p.Y) * cfg.SpringK
		p.VX *= cfg.Friction
		p.VY *= cfg.Friction
	}
}

// waveAmplitude bounds the wave offset on each axis.
const waveAmplitude = 8 + 4 + 3 + 2

// waveTarget returns origin plus four superposed sinusoids per axis. The X
// and Y sums use swapped coordinates and sin/cos so the axes decorrelate.
func waveTarget(ox, oy, t float64) (float64, float64) {
	d := (ox + oy) * 0.02
	wx := math.Sin(t*0.5+oy*0.02)*8 +
		math.Sin(t*0.3+ox*0.01)*4 +
		math.Cos(t*0.7+oy*0.03)*3 +
		math.Sin(t*1.1+d)*2
	wy := math.Cos(t*0.5+ox*0.02)*8 +
		math.Cos(t*0.3+oy*0.01)*4 +
		math.Sin(t*0.7+ox*0.03)*3 +
		math.Cos(t*1.1+d)*2
	return ox + wx, oy + wy
}

// PartialCull drops each live particle independently with probability
// 1-survival and returns how many were dropped.
func (f *Field) PartialCull(survival float64, rng *rand.Rand) int {
	dropped := 0
	for i := range f.particles {
		p := &f.particles[i]
		if p.Dead {
			continue
		}
		if rng.Float64() >= survival {
			p.Dead = true
			if p.Phase == PhaseArriving {
				f.arriving--
			}
			dropped++
		}
	}
	f.live -= dropped
	if f.live < len(f.particles)/2 {
		f.compact()
	}
	return dropped
}

// compact removes dead entries in place, preserving order.
func (f *Field) compact() {
	n := 0
	for i := range f.particles {
		if !f.particles[i].Dead {
			f.particles[n] = f.particles[i]
			n++
		}
	}
	f.particles = f.particles[:n]
}

// Visible calls fn for every live particle within bounds grown by the cull
// margin. Off-surface particles are skipped, not removed.
func (f *Field) Visible(bounds Rect, fn func(p *MaterializationParticle)) {
	b := bounds.Inflate(f.config.CullMargin)
	for i := range f.particles {
		p := &f.particles[i]
		if p.Dead || !b.Contains(p.X, p.Y) {
			continue
		}
		fn(p)
	}
}
