package hologram

import (
	"fmt"
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
)

// FallbackColor is reported when an image has no pixel bright enough to
// average.
const FallbackColor = "#ff671f"

const (
	extractSize          = 50
	extractMinBrightness = 20
	extractMaxBoost      = 1.5
)

// ExtractDominantColor downscales img to 50x50, averages every pixel brighter
// than a near-black threshold, boosts the saturation of the average and
// returns it as "#rrggbb". Images with no qualifying pixel return
// FallbackColor.
func ExtractDominantColor(img image.Image) string {
	if img == nil || img.Bounds().Empty() {
		return FallbackColor
	}
	dst := image.NewNRGBA(image.Rect(0, 0, extractSize, extractSize))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	var sr, sg, sb, count int
	for i := 0; i < len(dst.Pix); i += 4 {
		r, g, b := int(dst.Pix[i]), int(dst.Pix[i+1]), int(dst.Pix[i+2])
		if r+g+b > 3*extractMinBrightness {
			sr += r
			sg += g
			sb += b
			count++
		}
	}
	if count == 0 {
		return FallbackColor
	}

	r := roundDiv(sr, count)
	g := roundDiv(sg, count)
	b := roundDiv(sb, count)
	r, g, b = boostSaturation(r, g, b)
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

// boostSaturation stretches each channel away from the minimum channel. The
// boost shrinks as the color gets more saturated and never exceeds 1.5x.
func boostSaturation(r, g, b int) (int, int, int) {
	hi := max(r, g, b)
	lo := min(r, g, b)
	s := 0.0
	if hi > 0 {
		s = float64(hi-lo) / float64(hi)
	}
	boost := math.Min(extractMaxBoost, 1+(1-s))
	ch := func(c int) int {
		return min(255, int(math.Round(float64(c-lo)*boost+float64(lo))))
	}
	return ch(r), ch(g), ch(b)
}

func roundDiv(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}

// ColorScheme supplies colors to the particle systems that do not sample an
// image (glyph text, decorative layers).
type ColorScheme struct {
	Text      Color
	Secondary Color
}

// DefaultColorScheme is a light-on-dark scheme.
var DefaultColorScheme = ColorScheme{
	Text:      Color{R: 0.96, G: 0.94, B: 0.88, A: 1},
	Secondary: Color{R: 1, G: 0.4, B: 0.12, A: 1},
}

// ParseColorScheme builds a scheme from two "#rrggbb" strings.
func ParseColorScheme(text, secondary string) (ColorScheme, error) {
	t, err := ParseHexColor(text)
	if err != nil {
		return ColorScheme{}, err
	}
	s, err := ParseHexColor(secondary)
	if err != nil {
		return ColorScheme{}, err
	}
	return ColorScheme{Text: t, Secondary: s}, nil
}

// ParseHexColor parses "#rrggbb" into an opaque Color.
func ParseHexColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("hologram: parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// Hex formats c as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
}
