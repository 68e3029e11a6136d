package hologram

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// quadBatch accumulates solid-color quads so a whole particle population is
// submitted with a single DrawTriangles32 call.
type quadBatch struct {
	verts []ebiten.Vertex
	inds  []uint32
}

func (b *quadBatch) reset() {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
}

// quads returns the number of quads currently batched.
func (b *quadBatch) quads() int {
	return len(b.verts) / 4
}

// appendRect appends an axis-aligned rectangle.
func (b *quadBatch) appendRect(x, y, w, h float64, c Color, alpha float64) {
	xs := [4]float64{x, x + w, x, x + w}
	ys := [4]float64{y, y, y + h, y + h}
	b.appendCorners(xs, ys, c, alpha)
}

// appendRotatedRect appends the local rectangle (lx, ly, w, h) rotated by
// angle radians about the origin and translated to (cx, cy).
func (b *quadBatch) appendRotatedRect(cx, cy, angle, lx, ly, w, h float64, c Color, alpha float64) {
	sin, cos := math.Sincos(angle)
	lxs := [4]float64{lx, lx + w, lx, lx + w}
	lys := [4]float64{ly, ly, ly + h, ly + h}
	var xs, ys [4]float64
	for i := 0; i < 4; i++ {
		xs[i] = cx + lxs[i]*cos - lys[i]*sin
		ys[i] = cy + lxs[i]*sin + lys[i]*cos
	}
	b.appendCorners(xs, ys, c, alpha)
}

// appendLine appends a segment from (x0, y0) to (x1, y1) as a quad of the
// given width. Degenerate segments are skipped.
func (b *quadBatch) appendLine(x0, y0, x1, y1, width float64, c Color, alpha float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	b.appendRotatedRect(x0, y0, math.Atan2(dy, dx), 0, -width/2, length, width, c, alpha)
}

// appendCorners appends 4 vertices (TL, TR, BL, BR) and 6 indices.
func (b *quadBatch) appendCorners(xs, ys [4]float64, c Color, alpha float64) {
	// Premultiplied RGBA.
	ca := float32(clamp01(c.A * alpha))
	cr := float32(c.R) * ca
	cg := float32(c.G) * ca
	cb := float32(c.B) * ca

	su := [4]float32{0, 1, 0, 1}
	sv := [4]float32{0, 0, 1, 1}

	base := uint32(len(b.verts))
	for i := 0; i < 4; i++ {
		b.verts = append(b.verts, ebiten.Vertex{
			DstX:   float32(xs[i]),
			DstY:   float32(ys[i]),
			SrcX:   su[i],
			SrcY:   sv[i],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}

	// Two triangles: TL-TR-BL, TR-BR-BL
	b.inds = append(b.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// flush submits the batch to target and resets it. It returns the number of
// draw calls issued (0 or 1).
func (b *quadBatch) flush(target *ebiten.Image, blend BlendMode) int {
	n := b.submit(target, blend)
	b.reset()
	return n
}

// submit draws the batch to target without resetting it, so the same
// geometry can be drawn to several targets.
func (b *quadBatch) submit(target *ebiten.Image, blend BlendMode) int {
	if len(b.verts) == 0 {
		return 0
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.Blend = blend.EbitenBlend()
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(b.verts, b.inds, WhitePixel, &triOp)
	return 1
}
