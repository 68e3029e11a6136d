package hologram

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay shows FPS, TPS and particle counts in the top-left corner,
// refreshed every ~0.5 seconds.
type fpsOverlay struct {
	img  *ebiten.Image
	last time.Duration
	op   ebiten.DrawImageOptions
	text func() string
}

func newFPSOverlay(text func() string) *fpsOverlay {
	// 140x48 fits three lines of DebugPrint text.
	return &fpsOverlay{img: ebiten.NewImage(140, 48), last: -time.Second, text: text}
}

func (o *fpsOverlay) draw(screen *ebiten.Image, now time.Duration) {
	if now-o.last >= 500*time.Millisecond {
		o.last = now
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, o.text())
	}
	o.op.GeoM.Reset()
	screen.DrawImage(o.img, &o.op)
}

func (o *fpsOverlay) dispose() {
	o.img.Deallocate()
}

// SetShowFPS toggles an overlay with the current FPS, TPS and particle counts.
func (s *Scene) SetShowFPS(show bool) {
	if !show {
		if s.fps != nil {
			s.fps.dispose()
			s.fps = nil
		}
		return
	}
	if s.fps != nil {
		return
	}
	s.fps = newFPSOverlay(func() string {
		return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nP: %d M: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), s.field.Len(), s.emitter.AliveCount())
	})
}
