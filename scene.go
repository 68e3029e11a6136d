package hologram

import (
	"context"
	"image"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// Scene is the top-level object that owns one image's particle systems, the
// animation clock, input state and render surface. All methods must be called
// from the goroutine running the ebiten game loop.
type Scene struct {
	config Config
	clock  Clock
	now    time.Duration
	loader *loader
	gen    uint64
	rng    *rand.Rand

	// Loaded image
	source  image.Image
	grid    *SampleGrid
	texture *ebiten.Image

	// Layout
	container Container
	viewport  Vec2
	rect      PlacementRect
	// layoutDirty requests a reseed on the next Update. It stays set while
	// the container or viewport has zero area.
	layoutDirty bool

	// Particle systems
	field        *Field
	emitter      *EdgeEmitter
	surface      *Surface
	reveal       *Fade
	revealAlpha  float64
	materialized bool

	// Input
	pointer     pointerState
	injectQueue []syntheticPointerEvent
	touchIDs    []ebiten.TouchID
	liveInput   bool

	// Callbacks
	onColor    func(hex string)
	dominant   string
	sink       EventSink
	testRunner *TestRunner
	updateFunc func() error

	// Debug and tooling
	debug           bool
	stats           debugStats
	fps             *fpsOverlay
	screenshotQueue []string
	// ScreenshotDir is where Screenshot writes PNG files. Default "screenshots".
	ScreenshotDir string

	imgOp    ebiten.DrawImageOptions
	disposed bool
}

// NewScene creates an empty scene. Nothing is drawn until Load succeeds and
// the scene has a non-zero viewport.
func NewScene(cfg Config) *Scene {
	if cfg.PresentBlend == BlendNormal {
		cfg.PresentBlend = BlendScreen
	}
	if cfg.Sampler == (Sampler{}) {
		cfg.Sampler = DefaultSampler()
	}
	cfg.Reveal = cfg.Reveal.withDefaults()
	s := &Scene{
		config:        cfg,
		loader:        newLoader(),
		rng:           NewRand(cfg.Seed),
		field:         NewField(cfg.Field),
		emitter:       NewEdgeEmitter(cfg.Emitter),
		ScreenshotDir: "screenshots",
	}
	s.clock.Start(0)
	return s
}

// Config returns the scene's configuration. Changes to the nested configs
// apply from the next Load or reseed.
func (s *Scene) Config() *Config {
	return &s.config
}

// Load starts decoding src in the background and discards the current image
// and both particle populations. A result from an earlier Load that arrives
// later is ignored. It returns the new load generation.
func (s *Scene) Load(ctx context.Context, src ImageSource) uint64 {
	if s.disposed {
		return 0
	}
	s.gen = s.loader.start(ctx, src)
	s.resetImage()
	return s.gen
}

// Generation returns the current load generation.
func (s *Scene) Generation() uint64 {
	return s.gen
}

// resetImage drops the current image and everything derived from it.
func (s *Scene) resetImage() {
	s.clock.Cancel()
	s.field.Clear()
	s.emitter.Reset()
	s.reveal = nil
	s.revealAlpha = 0
	s.materialized = false
	s.source = nil
	s.grid = nil
	s.dominant = ""
	s.rect = PlacementRect{}
	s.layoutDirty = false
	if s.texture != nil {
		s.texture.Deallocate()
		s.texture = nil
	}
}

// SetContainer sets the rectangle the image is laid out in. A zero container
// lays the image out in the whole viewport. Changing it reseeds the field.
func (s *Scene) SetContainer(c Container) {
	if c == s.container {
		return
	}
	s.container = c
	s.layoutDirty = s.source != nil
}

// SetPointerEnabled turns pointer repulsion and velocity streaks on or off.
func (s *Scene) SetPointerEnabled(enabled bool) {
	s.config.PointerEnabled = enabled
}

// SetMeltEnabled turns edge emission on or off. Enabling it after the reveal
// starts the emitter immediately.
func (s *Scene) SetMeltEnabled(enabled bool) {
	s.config.MeltEnabled = enabled
	switch {
	case !enabled:
		s.emitter.Stop()
	case s.reveal != nil && !s.emitter.IsActive():
		s.startMelting()
	}
}

// OnColorExtracted registers fn to receive the dominant color of each loaded
// image as "#rrggbb". It fires once per load. If the current image has
// already been analyzed, fn is called immediately.
func (s *Scene) OnColorExtracted(fn func(hex string)) {
	s.onColor = fn
	if fn != nil && s.dominant != "" {
		s.safeCall("color callback", func() { fn(s.dominant) })
	}
}

// DominantColor returns the current image's dominant color, or "" before one
// has been extracted.
func (s *Scene) DominantColor() string {
	return s.dominant
}

// SetEventSink sets the optional ECS bridge.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// Field returns the materialization field.
func (s *Scene) Field() *Field {
	return s.field
}

// Emitter returns the edge emitter.
func (s *Scene) Emitter() *EdgeEmitter {
	return s.emitter
}

// Placement returns the current placement rect. It is empty until the field
// has been seeded.
func (s *Scene) Placement() PlacementRect {
	return s.rect
}

// RevealAlpha returns the current opacity of the source image.
func (s *Scene) RevealAlpha() float64 {
	return s.revealAlpha
}

// Now returns the scene clock time.
func (s *Scene) Now() time.Duration {
	return s.now
}

// Update advances the scene by one ebiten tick.
func (s *Scene) Update() {
	s.Step(tickDuration(ebiten.TPS(), ebiten.ActualTPS()))
}

// tickDuration is the simulated length of one Update. With
// ebiten.SyncWithFPS, or any other non-positive TPS, ticks follow the display
// and the measured rate is used, falling back to 60 Hz until one is known.
func tickDuration(tps int, actualTPS float64) time.Duration {
	if tps > 0 {
		return time.Second / time.Duration(tps)
	}
	if actualTPS >= 1 {
		return time.Duration(float64(time.Second) / actualTPS)
	}
	return time.Second / 60
}

// Step advances the scene by dt. A panic inside the step is recovered and
// logged; the next step runs normally. Negative durations count as zero.
func (s *Scene) Step(dt time.Duration) {
	if s.disposed {
		return
	}
	dt = max(dt, 0)
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.safeCall("update", func() { s.step(dt) })
	if s.debug {
		s.stats.updateTime = time.Since(t0)
	}
}

func (s *Scene) step(dt time.Duration) {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()

	if r, ok := s.loader.poll(); ok {
		if r.err != nil {
			logf("load failed: %v", r.err)
			s.emit(Event{Type: EventLoadFailed, Err: r.err})
		} else {
			s.setImage(r.img)
		}
	}

	s.now += dt
	s.clock.Tick(s.now)

	if s.layoutDirty {
		s.reseed()
	}

	if s.field.Len() > 0 {
		s.field.Tick(s.clock.Elapsed(), s.now.Seconds(), s.fieldPointer())
		if !s.materialized && s.field.Settled() {
			s.materialized = true
			s.emit(Event{Type: EventMaterialized})
		}
	}

	if s.reveal != nil {
		s.revealAlpha = s.reveal.Update(dt)
	}

	if s.grid != nil {
		s.emitter.Update(dt, s.grid, s.rect, s.rng)
	}
}

// setImage installs a freshly decoded image and fires the dominant color.
func (s *Scene) setImage(img image.Image) {
	s.source = img
	b := img.Bounds()
	s.emit(Event{Type: EventImageLoaded, Width: b.Dx(), Height: b.Dy()})

	s.dominant = ExtractDominantColor(img)
	s.emit(Event{Type: EventColorExtracted, Color: s.dominant})
	if fn := s.onColor; fn != nil {
		s.safeCall("color callback", func() { fn(s.dominant) })
	}

	s.texture = ebiten.NewImageFromImage(img)
	s.layoutDirty = true
}

// layoutContainer returns the container to lay out in: the configured one,
// or the whole viewport.
// placementChanged reports whether the current layout places the image
// somewhere other than the seeded rect. An unplaceable layout reports false
// so the existing field survives a transient zero-size viewport.
func (s *Scene) placementChanged() bool {
	b := s.source.Bounds()
	rect, ok := ComputePlacement(b.Dx(), b.Dy(), s.layoutContainer(), s.viewport, s.config.Placement)
	return ok && rect != s.rect
}

func (s *Scene) layoutContainer() Container {
	if s.container != (Container{}) {
		return s.container
	}
	return Container{Width: s.viewport.X, Height: s.viewport.Y}
}

// reseed recomputes the placement and restarts the materialization. With a
// zero-area container or viewport it leaves layoutDirty set and retries on
// the next step.
func (s *Scene) reseed() {
	if s.source == nil {
		s.layoutDirty = false
		return
	}
	b := s.source.Bounds()
	rect, ok := ComputePlacement(b.Dx(), b.Dy(), s.layoutContainer(), s.viewport, s.config.Placement)
	if !ok {
		return
	}
	s.layoutDirty = false
	s.rect = rect

	seed := s.config.Seed
	if seed == 0 {
		seed = s.gen
	}
	s.rng = NewRand(seed)

	sampler := s.config.Sampler
	s.grid = sampler.Grid(s.source, rect)
	samples := sampler.SampleGrid(s.grid, rect, s.rng)

	s.clock.Cancel()
	s.clock.Restart()
	// In-flight melting particles decay out; spawning waits for the reveal.
	s.emitter.Stop()
	s.reveal = nil
	s.revealAlpha = 0
	s.materialized = false
	s.field.Seed(samples, s.viewport, s.rng)
	s.emit(Event{Type: EventSeeded, Count: s.field.Len()})

	if !s.config.Reveal.Disabled && s.field.Len() > 0 {
		s.clock.After(s.config.Reveal.Delay, s.beginReveal)
	}
}

// beginReveal fades the source image in, starts melting when enabled and
// schedules the partial cull.
func (s *Scene) beginReveal() {
	rc := s.config.Reveal
	s.reveal = NewFade(0, rc.Opacity, rc.FadeDuration, ease.Linear)
	s.emit(Event{Type: EventRevealed})
	if s.config.MeltEnabled {
		s.startMelting()
	}
	if rc.CullSurvival < 1 {
		s.clock.After(rc.CullDelay, func() {
			n := s.field.PartialCull(rc.CullSurvival, s.rng)
			s.emit(Event{Type: EventCulled, Count: n})
		})
	}
}

func (s *Scene) startMelting() {
	s.emitter.Start()
	s.emit(Event{Type: EventMeltStarted})
}

// Draw paints the revealed image and the particle surface onto screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.disposed {
		return
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	b := screen.Bounds()
	if s.surface == nil {
		s.surface = NewSurface(b.Dx(), b.Dy(), s.config.Surface)
	} else {
		s.surface.Resize(b.Dx(), b.Dy())
	}

	s.safeCall("draw", func() {
		s.surface.BeginFrame()
		s.surface.DrawField(s.field, s.now.Seconds(), s.config.PointerEnabled && s.pointer.present)
		s.surface.DrawMelting(s.emitter)
		drawImageInRect(screen, s.texture, s.rect, s.revealAlpha, &s.imgOp)
		s.surface.Present(screen, s.config.PresentBlend)
	})

	if s.fps != nil {
		s.fps.draw(screen, s.now)
	}
	s.flushScreenshots(screen)

	if s.debug {
		s.stats.drawTime = time.Since(t0)
		s.stats.fieldCount = s.field.Len()
		s.stats.meltCount = s.emitter.AliveCount()
		s.stats.drawCalls = s.surface.DrawCalls()
		s.debugLog(s.stats)
	}
}

// Layout records the viewport size. A change reseeds the field; particle
// state is never rescaled.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := Vec2{X: float64(outsideWidth), Y: float64(outsideHeight)}
	if vp != s.viewport {
		s.viewport = vp
		if s.source != nil && !s.layoutDirty {
			s.layoutDirty = s.placementChanged()
		}
	}
	return outsideWidth, outsideHeight
}

// Dispose cancels any load in flight, stops the clock and releases every
// image. Later calls to Update and Draw do nothing.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.loader.invalidate()
	s.resetImage()
	s.clock.Stop()
	s.injectQueue = nil
	s.pointer = pointerState{}
	if s.surface != nil {
		s.surface.Dispose()
		s.surface = nil
	}
	if s.fps != nil {
		s.fps.dispose()
		s.fps = nil
	}
	s.disposed = true
}

// Disposed reports whether Dispose has been called.
func (s *Scene) Disposed() bool {
	return s.disposed
}

// SetDebugMode enables or disables debug mode. When enabled, recovered
// panics print a stack trace and per-frame timing stats are logged.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.clock.debug = enabled
}
