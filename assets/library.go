// Package assets loads tile sprites for the editor frontend.
//
// Sprites are read from disk first and from the bundled SpritesFS second,
// decoded, cropped to the tile's area and kept in a bounded cache until
// Invalidate drops them.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/milk9111/tilepaint/schema"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// PlaceholderSize is the edge of the square drawn for missing sprites.
const PlaceholderSize = 16

type Option func(*Library)

// WithFS replaces the bundled fallback filesystem.
func WithFS(fsys fs.FS) Option {
	return func(l *Library) { l.fallback = fsys }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Library) {
		if log != nil {
			l.log = log
		}
	}
}

// WithMaxBytes bounds the decoded pixels kept in memory.
func WithMaxBytes(n int64) Option {
	return func(l *Library) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// Library is a cache of decoded sprites. It is safe for concurrent use.
type Library struct {
	fallback fs.FS
	log      *zap.Logger
	maxBytes int64
	cache    *ristretto.Cache[string, image.Image]

	mu   sync.Mutex
	keys map[string]map[string]struct{} // file -> cache keys
}

func NewLibrary(opts ...Option) (*Library, error) {
	l := &Library{
		fallback: SpritesFS,
		log:      zap.NewNop(),
		maxBytes: 64 << 20,
		keys:     map[string]map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(l)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, image.Image]{
		NumCounters: 10000,
		MaxCost:     l.maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("assets: cache: %w", err)
	}
	l.cache = cache
	return l, nil
}

// Sprite returns the image for tile t of sch. A sprite that cannot be
// loaded is replaced by a placeholder square and the failure is logged.
func (l *Library) Sprite(sch *schema.Schema, t schema.Tile) image.Image {
	path := sch.SpritePath(t)
	img, err := l.Load(path, t.Area)
	if err == nil {
		return img
	}

	l.log.Warn("sprite unavailable, using placeholder",
		zap.String("tile", t.Name), zap.String("path", path), zap.Error(err))
	ph := Placeholder(PlaceholderSize, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	l.put(cleanPath(path), cacheKey(path, t.Area), ph)
	return ph
}

// Load returns the image at path cropped to area. An empty area means the
// whole image.
func (l *Library) Load(path string, area image.Rectangle) (image.Image, error) {
	key := cacheKey(path, area)
	if img, ok := l.cache.Get(key); ok {
		return img, nil
	}

	data, err := l.read(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	if img, err = crop(img, area); err != nil {
		return nil, fmt.Errorf("assets: %s: %w", path, err)
	}

	l.put(cleanPath(path), key, img)
	return img, nil
}

// Invalidate forgets every cached image read from path.
func (l *Library) Invalidate(path string) {
	file := cleanPath(path)

	l.mu.Lock()
	keys := l.keys[file]
	delete(l.keys, file)
	l.mu.Unlock()

	for k := range keys {
		l.cache.Del(k)
	}
	l.cache.Wait()
	if len(keys) > 0 {
		l.log.Debug("sprite invalidated", zap.String("path", file), zap.Int("entries", len(keys)))
	}
}

func (l *Library) Close() {
	l.cache.Close()
}

func (l *Library) read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if l.fallback == nil {
		return nil, fmt.Errorf("assets: read %s: %w", path, err)
	}
	data, ferr := fs.ReadFile(l.fallback, cleanAssetPath(path))
	if ferr != nil {
		return nil, fmt.Errorf("assets: read %s: %w", path, err)
	}
	return data, nil
}

func (l *Library) put(file, key string, img image.Image) {
	b := img.Bounds()
	cost := int64(b.Dx() * b.Dy() * 4)
	if cost < 1 {
		cost = 1
	}
	l.cache.Set(key, img, cost)
	l.cache.Wait()

	l.mu.Lock()
	if l.keys[file] == nil {
		l.keys[file] = map[string]struct{}{}
	}
	l.keys[file][key] = struct{}{}
	l.mu.Unlock()
}

func crop(img image.Image, area image.Rectangle) (image.Image, error) {
	if area.Empty() {
		return img, nil
	}
	b := img.Bounds()
	r := area.Add(b.Min)
	if !r.In(b) {
		return nil, fmt.Errorf("area %v outside image bounds %v", area, b.Sub(b.Min))
	}
	sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return nil, fmt.Errorf("image type %T cannot be cropped", img)
	}
	return sub.SubImage(r), nil
}

func cleanPath(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}

func cacheKey(path string, area image.Rectangle) string {
	return cleanPath(path) + "|" + area.String()
}

// Placeholder returns a size x size square of c with a darker one pixel
// border.
func Placeholder(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	border := color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				img.SetRGBA(x, y, border)
			} else {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}
