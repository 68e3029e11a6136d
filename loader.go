package hologram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyImage is returned for images with zero width or height.
var ErrEmptyImage = errors.New("hologram: empty image")

// ImageSource produces a decoded image. Open may block and should honor ctx.
type ImageSource interface {
	Open(ctx context.Context) (image.Image, error)
}

// FileSource decodes an image file from disk. PNG, JPEG, GIF, WebP and BMP
// are supported.
type FileSource string

// Open reads and decodes the file.
func (f FileSource) Open(ctx context.Context) (image.Image, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, fmt.Errorf("hologram: read %s: %w", string(f), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("hologram: decode %s: %w", string(f), err)
	}
	return img, nil
}

// BytesSource decodes an in-memory encoded image.
type BytesSource []byte

// Open decodes the bytes.
func (b BytesSource) Open(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := decode(b)
	if err != nil {
		return nil, fmt.Errorf("hologram: decode: %w", err)
	}
	return img, nil
}

// ImageValue wraps an already decoded image.
type ImageValue struct {
	Image image.Image
}

// Open returns the wrapped image.
func (v ImageValue) Open(ctx context.Context) (image.Image, error) {
	if v.Image == nil || v.Image.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return v.Image, nil
}

// LoadAll opens every source concurrently, at most limit at a time (no limit
// when limit <= 0), and returns the images in source order. The first error
// cancels the remaining opens.
func LoadAll(ctx context.Context, sources []ImageSource, limit int) ([]image.Image, error) {
	imgs := make([]image.Image, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, src := range sources {
		g.Go(func() error {
			img, err := src.Open(ctx)
			if err != nil {
				return fmt.Errorf("hologram: source %d: %w", i, err)
			}
			imgs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return imgs, nil
}

func decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// loadResult is what a load goroutine hands back to the frame loop.
type loadResult struct {
	gen uint64
	img image.Image
	err error
}

// loader runs at most one decode at a time. Starting a new load cancels the
// previous one; results from superseded generations are dropped on receipt.
type loader struct {
	gen     uint64
	cancel  context.CancelFunc
	results chan loadResult
}

func newLoader() *loader {
	return &loader{results: make(chan loadResult, 4)}
}

// start bumps the generation, cancels any in-flight load and decodes src on
// a new goroutine. It returns the new generation.
func (l *loader) start(ctx context.Context, src ImageSource) uint64 {
	l.stop()
	l.gen++
	gen := l.gen
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	results := l.results
	go func() {
		img, err := src.Open(ctx)
		if ctx.Err() != nil {
			return
		}
		select {
		case results <- loadResult{gen: gen, img: img, err: err}:
		case <-ctx.Done():
		}
	}()
	return gen
}

// stop cancels the in-flight load, if any.
func (l *loader) stop() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// invalidate makes every outstanding result stale without starting a load.
func (l *loader) invalidate() {
	l.stop()
	l.gen++
}

// poll returns the result for the current generation, if one has arrived.
// Stale results are discarded.
func (l *loader) poll() (loadResult, bool) {
	for {
		select {
		case r := <-l.results:
			if r.gen != l.gen {
				continue
			}
			return r, true
		default:
			return loadResult{}, false
		}
	}
}
