package tessera

import (
	"context"
	"fmt"
	"image"
	_ "image/png" // spritesheets are PNG
	"io/fs"
	"path"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// AssetLoader fetches map definitions and images. It is the only place the
// core touches storage or the network; everything it returns is decoded and
// sliced by the WorldMap.
type AssetLoader interface {
	// LoadDefinition returns the raw map document for mapID.
	LoadDefinition(ctx context.Context, mapID string) ([]byte, error)
	// LoadImage returns the decoded image at path.
	LoadImage(ctx context.Context, path string) (image.Image, error)
}

// DirLoader loads "<mapID>.json" definitions and images from a file system.
// Image paths are resolved relative to the file system root.
type DirLoader struct {
	FS fs.FS
}

// LoadDefinition implements AssetLoader.
func (l DirLoader) LoadDefinition(ctx context.Context, mapID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.FS, mapID+".json")
	if err != nil {
		return nil, fmt.Errorf("tessera: read map %s: %w", mapID, err)
	}
	return data, nil
}

// LoadImage implements AssetLoader.
func (l DirLoader) LoadImage(ctx context.Context, p string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := l.FS.Open(path.Clean(p))
	if err != nil {
		return nil, fmt.Errorf("tessera: open image %s: %w", p, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tessera: decode image %s: %w", p, err)
	}
	return img, nil
}

// MemoryLoader serves definitions and images from memory. It is safe for
// concurrent use.
type MemoryLoader struct {
	mu          sync.RWMutex
	definitions map[string][]byte
	images      map[string]image.Image
}

// NewMemoryLoader creates an empty MemoryLoader.
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{
		definitions: make(map[string][]byte),
		images:      make(map[string]image.Image),
	}
}

// AddDefinition registers a map document under mapID.
func (l *MemoryLoader) AddDefinition(mapID string, data []byte) {
	l.mu.Lock()
	l.definitions[mapID] = data
	l.mu.Unlock()
}

// AddImage registers an image under path.
func (l *MemoryLoader) AddImage(path string, img image.Image) {
	l.mu.Lock()
	l.images[path] = img
	l.mu.Unlock()
}

// LoadDefinition implements AssetLoader.
func (l *MemoryLoader) LoadDefinition(ctx context.Context, mapID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	data, ok := l.definitions[mapID]
	if !ok {
		return nil, fmt.Errorf("tessera: map %s: %w", mapID, fs.ErrNotExist)
	}
	return data, nil
}

// LoadImage implements AssetLoader.
func (l *MemoryLoader) LoadImage(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	img, ok := l.images[path]
	if !ok {
		return nil, fmt.Errorf("tessera: image %s: %w", path, fs.ErrNotExist)
	}
	return img, nil
}

// EbitenLoader wraps another loader and uploads every image it returns to an
// *ebiten.Image, so tile fragments are GPU sub-images that EbitenViewport can
// draw without conversion.
type EbitenLoader struct {
	AssetLoader
}

// LoadImage implements AssetLoader.
func (l EbitenLoader) LoadImage(ctx context.Context, path string) (image.Image, error) {
	img, err := l.AssetLoader.LoadImage(ctx, path)
	if err != nil {
		return nil, err
	}
	if eimg, ok := img.(*ebiten.Image); ok {
		return eimg, nil
	}
	return ebiten.NewImageFromImage(img), nil
}
