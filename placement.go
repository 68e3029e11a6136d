package hologram

// Container describes the host element the image is laid out in, in surface
// coordinates.
type Container struct {
	X, Y, Width, Height float64
}

// Empty reports whether the container has not been laid out yet.
func (c Container) Empty() bool {
	return c.Width <= 0 || c.Height <= 0
}

// PlacementConfig constrains where the image lands inside its container.
// Fractions are relative to the viewport height; absolute values, when set,
// take precedence.
type PlacementConfig struct {
	// MaxHeightFraction caps the image height as a fraction of the viewport
	// height. Default 0.6.
	MaxHeightFraction float64 `json:"maxHeightFraction"`
	// MaxHeight caps the image height in pixels. Zero means use the fraction.
	MaxHeight float64 `json:"maxHeight"`
	// TopInsetFraction offsets the image from the container top as a fraction
	// of the viewport height. Default 0.05.
	TopInsetFraction float64 `json:"topInsetFraction"`
	// TopInset offsets the image in pixels. Negative values disable the inset.
	TopInset float64 `json:"topInset"`
}

// DefaultPlacementConfig returns the 60% max height / 5% top inset layout.
func DefaultPlacementConfig() PlacementConfig {
	return PlacementConfig{MaxHeightFraction: 0.6, TopInsetFraction: 0.05}
}

func (c PlacementConfig) withDefaults() PlacementConfig {
	d := DefaultPlacementConfig()
	if c.MaxHeightFraction <= 0 {
		c.MaxHeightFraction = d.MaxHeightFraction
	}
	if c.TopInsetFraction == 0 {
		c.TopInsetFraction = d.TopInsetFraction
	}
	return c
}

func (c PlacementConfig) maxHeight(viewportH float64) float64 {
	if c.MaxHeight > 0 {
		return c.MaxHeight
	}
	return viewportH * c.MaxHeightFraction
}

func (c PlacementConfig) topInset(viewportH float64) float64 {
	switch {
	case c.TopInset > 0:
		return c.TopInset
	case c.TopInset < 0:
		return 0
	}
	return viewportH * c.TopInsetFraction
}

// PlacementRect is the on-screen rectangle an image occupies after
// aspect-preserving, max-height-constrained, horizontally centered layout.
// It is computed once per load or resize and passed by value.
type PlacementRect struct {
	X, Y, Width, Height float64
}

// Rect returns the placement as a plain Rect.
func (p PlacementRect) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// Empty reports whether the placement has no area.
func (p PlacementRect) Empty() bool {
	return p.Width < 1 || p.Height < 1
}

// ComputePlacement lays out an imgW x imgH image inside container. ok is false
// while either the image or the container has no area; callers defer seeding
// until both are known.
func ComputePlacement(imgW, imgH int, container Container, viewport Vec2, cfg PlacementConfig) (rect PlacementRect, ok bool) {
	if imgW <= 0 || imgH <= 0 || container.Empty() {
		return PlacementRect{}, false
	}
	cfg = cfg.withDefaults()

	maxH := cfg.maxHeight(viewport.Y)
	if maxH <= 0 {
		maxH = container.Height
	}

	imageAspect := float64(imgW) / float64(imgH)
	containerAspect := container.Width / container.Height

	var w, h float64
	if imageAspect > containerAspect {
		// Wider than the container: fit width, then cap height.
		w = container.Width
		h = container.Width / imageAspect
		if h > maxH {
			h = maxH
			w = maxH * imageAspect
		}
	} else {
		h = min(container.Height, maxH)
		w = h * imageAspect
	}

	rect = PlacementRect{
		X:      container.X + (container.Width-w)/2,
		Y:      container.Y + cfg.topInset(viewport.Y),
		Width:  w,
		Height: h,
	}
	if rect.Empty() {
		return PlacementRect{}, false
	}
	return rect, true
}
