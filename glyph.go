package hologram

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrEmptyText is returned when there is nothing to rasterize.
var ErrEmptyText = errors.New("hologram: empty text")

// GlyphFont is a parsed font face used to rasterize text for particlisation.
type GlyphFont struct {
	face font.Face
	size float64
}

// LoadGlyphFont parses TTF/OTF data at the given pixel size. A nil ttf uses
// Go Bold.
func LoadGlyphFont(ttf []byte, size float64) (*GlyphFont, error) {
	if ttf == nil {
		ttf = gobold.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("hologram: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("hologram: create face: %w", err)
	}
	return &GlyphFont{face: face, size: size}, nil
}

// Size returns the font size in pixels.
func (g *GlyphFont) Size() float64 {
	return g.size
}

// Close releases the face.
func (g *GlyphFont) Close() error {
	return g.face.Close()
}

// RasterizeText draws s centred, horizontally and vertically, in a w x h
// canvas and returns it.
func (g *GlyphFont) RasterizeText(s string, w, h int) (*image.Alpha, error) {
	if s == "" {
		return nil, ErrEmptyText
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("hologram: rasterize %dx%d: %w", w, h, ErrEmptyImage)
	}
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	adv := font.MeasureString(g.face, s)
	m := g.face.Metrics()
	// Centre the ascent+descent box on the canvas midline.
	baseline := fixed.I(h)/2 + (m.Ascent-m.Descent)/2
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Alpha{A: 0xff}),
		Face: g.face,
		Dot:  fixed.Point26_6{X: (fixed.I(w) - adv) / 2, Y: baseline},
	}
	d.DrawString(s)
	return dst, nil
}

// GlyphSampler walks a rasterized text mask on a coarse grid. A grid point is
// kept when any pixel of the cell at its top-left corner is solid.
type GlyphSampler struct {
	// Grid is the spacing between grid points. Default 4.
	Grid int `json:"grid"`
	// Cell is the side of the square checked at each point. Default 2.
	Cell int `json:"cell"`
	// AlphaThreshold is the alpha a cell pixel must exceed. Default 128.
	AlphaThreshold uint8 `json:"alphaThreshold"`
}

// DefaultGlyphSampler returns the standard glyph sampling settings.
func DefaultGlyphSampler() GlyphSampler {
	return GlyphSampler{Grid: 4, Cell: 2, AlphaThreshold: 128}
}

func (s GlyphSampler) withDefaults() GlyphSampler {
	d := DefaultGlyphSampler()
	if s.Grid <= 0 {
		s.Grid = d.Grid
	}
	if s.Cell <= 0 {
		s.Cell = d.Cell
	}
	if s.AlphaThreshold == 0 {
		s.AlphaThreshold = d.AlphaThreshold
	}
	return s
}

// Sample returns the grid points of mask covered by glyph ink, in row-major
// order, in mask-local coordinates.
func (s GlyphSampler) Sample(mask *image.Alpha) []Vec2 {
	s = s.withDefaults()
	b := mask.Bounds()
	var out []Vec2
	for y := b.Min.Y; y < b.Max.Y; y += s.Grid {
		for x := b.Min.X; x < b.Max.X; x += s.Grid {
			if s.inked(mask, x, y) {
				out = append(out, Vec2{X: float64(x - b.Min.X), Y: float64(y - b.Min.Y)})
			}
		}
	}
	return out
}

func (s GlyphSampler) inked(mask *image.Alpha, x, y int) bool {
	b := mask.Bounds()
	for sy := y; sy < y+s.Cell && sy < b.Max.Y; sy++ {
		for sx := x; sx < x+s.Cell && sx < b.Max.X; sx++ {
			if mask.AlphaAt(sx, sy).A > s.AlphaThreshold {
				return true
			}
		}
	}
	return false
}
