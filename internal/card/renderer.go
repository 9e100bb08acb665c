// Package card composes the shareable result image: a fixed-width PNG whose
// height is measured from its text before anything is painted.
package card

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"spice-theory/internal/app"
)

// Request asks for a card for one session's result.
type Request struct {
	SessionID string
	Summary   app.Summary
}

// Output is an encoded card. Missing lists image refs that could not be loaded.
type Output struct {
	SessionID string
	PNG       []byte
	Filename  string
	Width     int
	Height    int
	Missing   []string
}

// Renderer turns summaries into PNG cards. It is safe for concurrent use.
type Renderer struct {
	mu        sync.Mutex
	faces     *Faces
	images    ImageLoader
	watermark string
	log       *zap.Logger
}

func NewRenderer(images ImageLoader, watermark string, log *zap.Logger) (*Renderer, error) {
	faces, err := LoadFaces()
	if err != nil {
		return nil, fmt.Errorf("load card fonts: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{faces: faces, images: images, watermark: watermark, log: log}, nil
}

// Filename is the download name for a primary/secondary pair.
func Filename(primary, secondary string) string {
	return fmt.Sprintf("spice-%s-%s.png", primary, secondary)
}

func (r *Renderer) Render(ctx context.Context, req Request) (Output, error) {
	content := ContentFor(req.Summary, r.watermark)

	r.mu.Lock()
	layout := Measure(r.faces, content)
	r.mu.Unlock()

	images, missing, err := r.loadImages(ctx, layout.Boxes)
	if err != nil {
		return Output{}, err
	}

	r.mu.Lock()
	canvas := paint(r.faces, layout, images)
	verr := Verify(r.faces, content, layout)
	r.mu.Unlock()
	if verr != nil {
		return Output{}, fmt.Errorf("card layout: %w", verr)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return Output{}, fmt.Errorf("encode card: %w", err)
	}

	res := req.Summary.Result
	return Output{
		SessionID: req.SessionID,
		PNG:       buf.Bytes(),
		Filename:  Filename(res.Primary, res.Secondary),
		Width:     layout.Width,
		Height:    layout.Height,
		Missing:   missing,
	}, nil
}

// loadImages fetches every box's image concurrently. A failed load leaves a nil
// image and a Missing entry; only cancellation is an error.
func (r *Renderer) loadImages(ctx context.Context, boxes []Box) ([]image.Image, []string, error) {
	images := make([]image.Image, len(boxes))
	failed := make([]bool, len(boxes))
	if r.images == nil {
		for i := range failed {
			failed[i] = true
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, b := range boxes {
			ref := b.Panel.Image
			g.Go(func() error {
				img, err := r.images.Load(gctx, ref)
				if err != nil {
					r.log.Warn("card image unavailable", zap.String("ref", ref), zap.Error(err))
					failed[i] = true
					return nil
				}
				images[i] = img
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
	}

	var missing []string
	for i, b := range boxes {
		if failed[i] {
			missing = append(missing, b.Panel.Image)
		}
	}
	return images, missing, nil
}

// Save writes out into dir under its Filename and returns the path.
func Save(dir string, out Output) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create card dir: %w", err)
	}
	p := filepath.Join(dir, out.Filename)
	if err := os.WriteFile(p, out.PNG, 0o644); err != nil {
		return "", fmt.Errorf("write card: %w", err)
	}
	return p, nil
}
