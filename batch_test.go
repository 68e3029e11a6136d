package hologram

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func near32(a float32, b float64) bool {
	return math.Abs(float64(a)-b) < 1e-4
}

func TestAppendRectVertices(t *testing.T) {
	var b quadBatch
	b.appendRect(10, 20, 30, 40, ColorWhite, 1)

	want := [4][2]float64{{10, 20}, {40, 20}, {10, 60}, {40, 60}}
	if len(b.verts) != 4 {
		t.Fatalf("verts = %d, want 4", len(b.verts))
	}
	for i, w := range want {
		v := b.verts[i]
		if !near32(v.DstX, w[0]) || !near32(v.DstY, w[1]) {
			t.Errorf("vertex %d = (%v, %v), want (%v, %v)", i, v.DstX, v.DstY, w[0], w[1])
		}
	}
	if v := b.verts[3]; v.SrcX != 1 || v.SrcY != 1 {
		t.Errorf("BR src = (%v, %v), want (1, 1)", v.SrcX, v.SrcY)
	}
}

func TestAppendRectIndices(t *testing.T) {
	var b quadBatch
	b.appendRect(0, 0, 1, 1, ColorWhite, 1)
	b.appendRect(0, 0, 1, 1, ColorWhite, 1)
	want := []uint32{0, 1, 2, 1, 3, 2, 4, 5, 6, 5, 7, 6}
	if len(b.inds) != len(want) {
		t.Fatalf("inds = %d, want %d", len(b.inds), len(want))
	}
	for i := range want {
		if b.inds[i] != want[i] {
			t.Errorf("inds[%d] = %d, want %d", i, b.inds[i], want[i])
		}
	}
	if b.quads() != 2 {
		t.Errorf("quads = %d, want 2", b.quads())
	}
}

func TestAppendRectPremultiplied(t *testing.T) {
	tests := []struct {
		name  string
		c     Color
		alpha float64
		want  [4]float64
	}{
		{"opaque", Color{1, 0.5, 0, 1}, 1, [4]float64{1, 0.5, 0, 1}},
		{"half alpha", Color{1, 0.5, 0, 1}, 0.5, [4]float64{0.5, 0.25, 0, 0.5}},
		{"color alpha times draw alpha", Color{0.2, 0.4, 1, 0.5}, 0.5, [4]float64{0.05, 0.1, 0.25, 0.25}},
		{"clamped", ColorWhite, 3, [4]float64{1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b quadBatch
			b.appendRect(0, 0, 1, 1, tt.c, tt.alpha)
			v := b.verts[0]
			got := [4]float32{v.ColorR, v.ColorG, v.ColorB, v.ColorA}
			for i := range got {
				if !near32(got[i], tt.want[i]) {
					t.Errorf("color = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestAppendRotatedRect(t *testing.T) {
	var b quadBatch
	b.appendRotatedRect(10, 10, math.Pi/2, 0, 0, 2, 1, ColorWhite, 1)
	want := [4][2]float64{{10, 10}, {10, 12}, {9, 10}, {9, 12}}
	for i, w := range want {
		v := b.verts[i]
		if !near32(v.DstX, w[0]) || !near32(v.DstY, w[1]) {
			t.Errorf("vertex %d = (%v, %v), want (%v, %v)", i, v.DstX, v.DstY, w[0], w[1])
		}
	}
}

func TestAppendLine(t *testing.T) {
	var b quadBatch
	b.appendLine(0, 0, 10, 0, 2, ColorWhite, 1)
	want := [4][2]float64{{0, -1}, {10, -1}, {0, 1}, {10, 1}}
	for i, w := range want {
		v := b.verts[i]
		if !near32(v.DstX, w[0]) || !near32(v.DstY, w[1]) {
			t.Errorf("vertex %d = (%v, %v), want (%v, %v)", i, v.DstX, v.DstY, w[0], w[1])
		}
	}

	b.reset()
	b.appendLine(5, 5, 5, 5, 1, ColorWhite, 1)
	if b.quads() != 0 {
		t.Errorf("degenerate line appended %d quads", b.quads())
	}
}

func TestBatchFlush(t *testing.T) {
	target := ebiten.NewImage(16, 16)
	var b quadBatch
	if n := b.flush(target, BlendNormal); n != 0 {
		t.Errorf("empty flush = %d, want 0", n)
	}
	for i := 0; i < 100; i++ {
		b.appendRect(float64(i%16), 0, 1, 1, ColorWhite, 1)
	}
	if n := b.submit(target, BlendAdd); n != 1 {
		t.Errorf("submit = %d, want 1", n)
	}
	if b.quads() != 100 {
		t.Errorf("submit reset the batch: quads = %d", b.quads())
	}
	if n := b.flush(target, BlendNormal); n != 1 {
		t.Errorf("flush = %d, want 1", n)
	}
	if b.quads() != 0 {
		t.Errorf("quads after flush = %d, want 0", b.quads())
	}
}
