package hologram

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// EaseInOutCubic maps arrival progress p in [0, 1] onto the standard cubic
// in/out curve: 4p³ for the first half, 1-(-2p+2)³/2 for the second.
// Values outside [0, 1] are clamped, so EaseInOutCubic(0) == 0 and
// EaseInOutCubic(1) == 1 exactly.
func EaseInOutCubic(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q/2
}

// Fade animates a single opacity value. It is used to cross-fade the source
// image in beneath the particles once they have arrived.
//
// There is no global animation manager; the owner calls Update each frame.
type Fade struct {
	tween *gween.Tween
	value float64
	Done  bool
}

// NewFade creates a fade from one value to another over duration using fn.
// A nil fn uses ease.Linear.
func NewFade(from, to float64, duration time.Duration, fn ease.TweenFunc) *Fade {
	if fn == nil {
		fn = ease.Linear
	}
	d := float32(duration.Seconds())
	if d <= 0 {
		return &Fade{value: to, Done: true}
	}
	return &Fade{
		tween: gween.New(float32(from), float32(to), d, fn),
		value: from,
	}
}

// Update advances the fade by dt and returns the current value.
func (f *Fade) Update(dt time.Duration) float64 {
	if f == nil {
		return 0
	}
	if f.Done || f.tween == nil {
		return f.value
	}
	v, finished := f.tween.Update(float32(dt.Seconds()))
	f.value = float64(v)
	f.Done = finished
	return f.value
}

// Value returns the most recent value without advancing.
func (f *Fade) Value() float64 {
	if f == nil {
		return 0
	}
	return f.value
}
