package card

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

const maxImageBytes = 16 << 20

// ErrNoImage is returned for an empty image reference.
var ErrNoImage = errors.New("no image reference")

// ImageLoader resolves a category image reference to a decoded image.
type ImageLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// FileLoader reads images from disk, resolving relative refs against Root.
type FileLoader struct {
	Root string
}

func (l FileLoader) Load(_ context.Context, ref string) (image.Image, error) {
	if ref == "" {
		return nil, ErrNoImage
	}
	p := filepath.FromSlash(strings.TrimPrefix(ref, "file://"))
	if !filepath.IsAbs(p) && l.Root != "" {
		p = filepath.Join(l.Root, p)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", p, err)
	}
	defer f.Close()
	return decode(f, p)
}

// HTTPLoader fetches images with a GET.
type HTTPLoader struct {
	Client *http.Client
}

func NewHTTPLoader(timeout time.Duration) HTTPLoader {
	return HTTPLoader{Client: &http.Client{Timeout: timeout}}
}

func (l HTTPLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if ref == "" {
		return nil, ErrNoImage
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image %s: %w", ref, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch image %s: unexpected status %d", ref, resp.StatusCode)
	}
	return decode(io.LimitReader(resp.Body, maxImageBytes), ref)
}

// AutoLoader sends http(s) refs to HTTP and everything else to File.
type AutoLoader struct {
	File FileLoader
	HTTP HTTPLoader
}

func (l AutoLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.HTTP.Load(ctx, ref)
	}
	return l.File.Load(ctx, ref)
}

func decode(r io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", name, err)
	}
	return img, nil
}
