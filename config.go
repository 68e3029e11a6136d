package hologram

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// RevealConfig controls what happens once the field has materialized.
type RevealConfig struct {
	// Delay is the time from seeding until the source image starts fading in.
	// Default 3s.
	Delay time.Duration `json:"delay"`
	// FadeDuration is how long the image takes to reach Opacity. Default 3s.
	FadeDuration time.Duration `json:"fadeDuration"`
	// Opacity is the final image opacity. Default 0.7.
	Opacity float64 `json:"opacity"`
	// CullDelay is the time after the reveal starts until the partial cull.
	// Default 500ms.
	CullDelay time.Duration `json:"cullDelay"`
	// CullSurvival is the probability each particle survives the cull.
	// Default 0.5. Set to 1 to disable the cull.
	CullSurvival float64 `json:"cullSurvival"`
	// Disabled skips the reveal entirely; the field idles forever.
	Disabled bool `json:"disabled"`
}

// DefaultRevealConfig returns the standard reveal timings.
func DefaultRevealConfig() RevealConfig {
	return RevealConfig{
		Delay:        3 * time.Second,
		FadeDuration: 3 * time.Second,
		Opacity:      0.7,
		CullDelay:    500 * time.Millisecond,
		CullSurvival: 0.5,
	}
}

func (c RevealConfig) withDefaults() RevealConfig {
	d := DefaultRevealConfig()
	if c.Delay <= 0 {
		c.Delay = d.Delay
	}
	if c.FadeDuration <= 0 {
		c.FadeDuration = d.FadeDuration
	}
	if c.Opacity <= 0 {
		c.Opacity = d.Opacity
	}
	if c.CullDelay <= 0 {
		c.CullDelay = d.CullDelay
	}
	if c.CullSurvival <= 0 {
		c.CullSurvival = d.CullSurvival
	}
	return c
}

// Config aggregates every tunable of a Scene. Zero-valued fields in the
// nested configs fall back to their defaults, except that a partially set
// Sampler keeps zero SkipProbability, AlphaThreshold and MinRGBSum as given;
// an entirely zero Sampler becomes DefaultSampler. Durations are encoded in
// JSON as integer nanoseconds.
type Config struct {
	Sampler   Sampler         `json:"sampler"`
	Placement PlacementConfig `json:"placement"`
	Field     FieldConfig     `json:"field"`
	Emitter   EmitterConfig   `json:"emitter"`
	Surface   SurfaceConfig   `json:"surface"`
	Reveal    RevealConfig    `json:"reveal"`

	// Seed feeds every random choice. Zero picks a seed from the load
	// generation, so reloads differ but runs are reproducible.
	Seed uint64 `json:"seed"`
	// PointerEnabled turns on pointer repulsion and velocity streaks.
	PointerEnabled bool `json:"pointerEnabled"`
	// MeltEnabled starts edge emission when the image is revealed.
	MeltEnabled bool `json:"meltEnabled"`
	// PresentBlend composites the particle surface onto the screen.
	// Default BlendScreen.
	PresentBlend BlendMode `json:"presentBlend"`
}

// DefaultConfig returns the standard configuration: pointer interaction on,
// melting off.
func DefaultConfig() Config {
	return Config{
		Sampler:        DefaultSampler(),
		Placement:      DefaultPlacementConfig(),
		Field:          DefaultFieldConfig(),
		Emitter:        DefaultEmitterConfig(),
		Surface:        DefaultSurfaceConfig(),
		Reveal:         DefaultRevealConfig(),
		PointerEnabled: true,
		PresentBlend:   BlendScreen,
	}
}

// ParseConfig overlays JSON onto DefaultConfig. Keys absent from data keep
// their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("hologram: parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses a JSON config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("hologram: read config: %w", err)
	}
	return ParseConfig(data)
}

// MarshalText implements encoding.TextMarshaler.
func (b BlendMode) MarshalText() ([]byte, error) {
	switch b {
	case BlendNormal:
		return []byte("normal"), nil
	case BlendAdd:
		return []byte("add"), nil
	case BlendScreen:
		return []byte("screen"), nil
	case BlendNone:
		return []byte("none"), nil
	}
	return nil, fmt.Errorf("hologram: unknown blend mode %d", b)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BlendMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal":
		*b = BlendNormal
	case "add":
		*b = BlendAdd
	case "screen":
		*b = BlendScreen
	case "none":
		*b = BlendNone
	default:
		return fmt.Errorf("hologram: unknown blend mode %q", text)
	}
	return nil
}
