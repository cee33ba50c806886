package tessera

import (
	"context"
	"errors"
	"image"

	"github.com/sirupsen/logrus"
)

// TileLayer is one layer of a loaded map. Tile layers carry a row-major grid
// of spritesheet indices; object and image layers carry their payload only.
type TileLayer struct {
	ID      int
	Name    string
	Type    LayerType
	Width   int
	Height  int
	Visible bool
	Objects []MapObject
	Image   image.Image // image layers only

	grid [][]int // [row][col], EmptyTile for nothing
}

// At returns the tile index at (col, row), or EmptyTile when out of bounds.
func (l *TileLayer) At(col, row int) int {
	if row < 0 || row >= len(l.grid) || col < 0 || col >= len(l.grid[row]) {
		return EmptyTile
	}
	return l.grid[row][col]
}

// TileCell is one drawable cell returned by TilesIn.
type TileCell struct {
	Col, Row int
	Index    int
	Image    image.Image
}

// LayerTiles is the content of one tile layer inside a tile window.
type LayerTiles struct {
	LayerID int
	Visible bool
	Cells   []TileCell
}

// WorldMap holds a map's layer grids, its tileset cache and the static
// colliders derived from it. A WorldMap is usable only once ready; before
// that, and forever after a failed load, every query returns its zero value.
type WorldMap struct {
	id    string
	state *readiness

	// Written once by load, before state resolves.
	def       *MapDefinition
	layers    []*TileLayer
	tileset   *Tileset
	colliders []Collider
	warnings  []ConfigError
}

func newWorldMap(mapID string) *WorldMap {
	return &WorldMap{id: mapID, state: newReadiness()}
}

// Load fetches and builds a map synchronously.
func Load(ctx context.Context, loader AssetLoader, mapID string) (*WorldMap, error) {
	m := newWorldMap(mapID)
	if err := m.load(ctx, loader); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadAsync starts loading a map in the background and returns its handle
// immediately. Use Done, Wait or IsReady to observe completion. A failed load
// is logged and leaves the map permanently unready.
func LoadAsync(ctx context.Context, loader AssetLoader, mapID string) *WorldMap {
	m := newWorldMap(mapID)
	go func() {
		_ = m.load(ctx, loader)
	}()
	return m
}

// load builds every piece of the map into locals and publishes them in one
// step, then resolves readiness.
func (m *WorldMap) load(ctx context.Context, loader AssetLoader) error {
	err := m.build(ctx, loader)
	if err != nil {
		log.WithFields(logrus.Fields{"map": m.id}).WithError(err).Error("map load failed")
	}
	m.state.resolve(err)
	return err
}

func (m *WorldMap) build(ctx context.Context, loader AssetLoader) error {
	data, err := loader.LoadDefinition(ctx, m.id)
	if err != nil {
		return &LoadError{MapID: m.id, Op: "definition", Err: err}
	}
	def, warnings, err := ParseMapDefinition(data)
	if err != nil {
		return &LoadError{MapID: m.id, Op: "parse", Err: err}
	}
	for _, w := range warnings {
		log.WithFields(logrus.Fields{"map": m.id, "field": w.Field, "default": w.Default}).
			Warn("map field defaulted")
	}

	if def.Spritesheet == "" {
		return &LoadError{MapID: m.id, Op: "spritesheet", Err: errors.New("no spritesheet declared")}
	}
	sheet, err := loader.LoadImage(ctx, def.Spritesheet)
	if err != nil {
		return &LoadError{MapID: m.id, Op: "spritesheet", Path: def.Spritesheet, Err: err}
	}
	tileset, err := newTileset(sheet, def.TileWidth, def.TileHeight, def.Layers)
	if err != nil {
		return &LoadError{MapID: m.id, Op: "spritesheet", Path: def.Spritesheet, Err: err}
	}

	layers := make([]*TileLayer, 0, len(def.Layers))
	for i := range def.Layers {
		ld := &def.Layers[i]
		layer := &TileLayer{
			ID:      ld.ID,
			Name:    ld.Name,
			Type:    ld.Type,
			Width:   ld.Width,
			Height:  ld.Height,
			Visible: ld.IsVisible(),
			Objects: ld.Objects,
		}
		switch ld.Type {
		case LayerTile:
			layer.grid = buildGrid(ld.Data, ld.Width, ld.Height)
		case LayerImage:
			if ld.Image != "" {
				img, err := loader.LoadImage(ctx, ld.Image)
				if err != nil {
					return &LoadError{MapID: m.id, Op: "image", Path: ld.Image, Err: err}
				}
				layer.Image = img
			}
		}
		layers = append(layers, layer)
	}

	m.def = def
	m.layers = layers
	m.tileset = tileset
	m.colliders = buildColliders(def, layers)
	m.warnings = warnings
	return nil
}

// buildGrid reshapes flat row-major data into [row][col]:
// row = i / width, col = i % width. Missing cells are empty.
func buildGrid(data []TileIndex, w, h int) [][]int {
	grid := make([][]int, h)
	for row := range grid {
		grid[row] = make([]int, w)
		for col := range grid[row] {
			grid[row][col] = EmptyTile
		}
	}
	for i, v := range data {
		row, col := i/w, i%w
		if row >= h {
			break
		}
		grid[row][col] = int(v)
	}
	return grid
}

// buildColliders creates one-tile-thick walls just outside each map edge and
// a rectangle for every object of type "wall".
func buildColliders(def *MapDefinition, layers []*TileLayer) []Collider {
	tw, th := float64(def.TileWidth), float64(def.TileHeight)
	pw, ph := float64(def.Width)*tw, float64(def.Height)*th
	// top, bottom, left, right
	walls := []Rect{
		{X: 0, Y: -th, Width: pw, Height: th},
		{X: 0, Y: ph, Width: pw, Height: th},
		{X: -tw, Y: -th, Width: tw, Height: ph + 2*th},
		{X: pw, Y: -th, Width: tw, Height: ph + 2*th},
	}
	out := make([]Collider, 0, len(walls))
	for _, r := range walls {
		out = append(out, Collider{Shape: r, Active: true})
	}
	for _, l := range layers {
		if l.Type != LayerObject {
			continue
		}
		for _, o := range l.Objects {
			if o.Type != "wall" || o.Width <= 0 || o.Height <= 0 {
				continue
			}
			out = append(out, Collider{Shape: Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}, Active: true})
		}
	}
	return out
}

// ID returns the map identifier passed to Load.
func (m *WorldMap) ID() string { return m.id }

// IsReady reports whether the map finished loading successfully.
func (m *WorldMap) IsReady() bool { return m.state.isReady() }

// Done returns a channel closed once loading has settled, successfully or not.
func (m *WorldMap) Done() <-chan struct{} { return m.state.done }

// Wait blocks until loading settles and returns the load error, if any.
func (m *WorldMap) Wait(ctx context.Context) error { return m.state.wait(ctx) }

// Err returns the terminal load error, or nil.
func (m *WorldMap) Err() error { return m.state.failure() }

// Warnings returns the map fields that were replaced by defaults.
func (m *WorldMap) Warnings() []ConfigError {
	if !m.IsReady() {
		return nil
	}
	return m.warnings
}

// Bounds returns {0, 0, width, height} in tiles.
func (m *WorldMap) Bounds() TileRect {
	if !m.IsReady() {
		return TileRect{}
	}
	return TileRect{X2: m.def.Width, Y2: m.def.Height}
}

// TileSize returns the size of one tile in pixels.
func (m *WorldMap) TileSize() Size {
	if !m.IsReady() {
		return Size{}
	}
	return Size{Width: float64(m.def.TileWidth), Height: float64(m.def.TileHeight)}
}

// PixelSize returns the map size in pixels.
func (m *WorldMap) PixelSize() Size {
	ts := m.TileSize()
	b := m.Bounds()
	return Size{Width: float64(b.X2) * ts.Width, Height: float64(b.Y2) * ts.Height}
}

// Layers returns the map's layers in draw order. The slice must not be mutated.
func (m *WorldMap) Layers() []*TileLayer {
	if !m.IsReady() {
		return nil
	}
	return m.layers
}

// Tileset returns the tile fragment cache.
func (m *WorldMap) Tileset() *Tileset {
	if !m.IsReady() {
		return nil
	}
	return m.tileset
}

// Tile returns the cached fragment for tileIndex as used by layerID, or nil
// when the index is unused by that layer or outside the spritesheet.
func (m *WorldMap) Tile(layerID, tileIndex int) image.Image {
	if !m.IsReady() {
		return nil
	}
	return m.tileset.Tile(layerID, tileIndex)
}

// TileAt returns the tile index at (col, row) of a layer, or EmptyTile.
func (m *WorldMap) TileAt(layerID, col, row int) int {
	for _, l := range m.Layers() {
		if l.ID == layerID {
			return l.At(col, row)
		}
	}
	return EmptyTile
}

// TilesIn returns, for each tile layer in draw order, the non-empty cells
// that lie inside area and inside the layer. Nothing outside that
// intersection is returned and empty cells are omitted, not padded.
func (m *WorldMap) TilesIn(area TileRect) []LayerTiles {
	if !m.IsReady() {
		return nil
	}
	var out []LayerTiles
	for _, l := range m.layers {
		if l.Type != LayerTile {
			continue
		}
		win := area.Intersect(TileRect{X2: l.Width, Y2: l.Height})
		lt := LayerTiles{LayerID: l.ID, Visible: l.Visible}
		if !win.Empty() {
			for row := win.Y1; row < win.Y2; row++ {
				for col := win.X1; col < win.X2; col++ {
					idx := l.grid[row][col]
					if idx == EmptyTile {
						continue
					}
					img := m.tileset.Tile(l.ID, idx)
					if img == nil {
						continue
					}
					lt.Cells = append(lt.Cells, TileCell{Col: col, Row: row, Index: idx, Image: img})
				}
			}
		}
		out = append(out, lt)
	}
	return out
}

// Colliders returns the map's static colliders: the four edge walls followed
// by any wall objects. The slice must not be mutated.
func (m *WorldMap) Colliders() []Collider {
	if !m.IsReady() {
		return nil
	}
	return m.colliders
}

// Definition returns the parsed map document, with defaults applied.
func (m *WorldMap) Definition() (*MapDefinition, error) {
	if !m.IsReady() {
		return nil, ErrNotReady
	}
	return m.def, nil
}

// Objects returns the objects of type typ across all object layers, in layer
// order. An empty typ matches every object.
func (m *WorldMap) Objects(typ string) []MapObject {
	var out []MapObject
	for _, l := range m.Layers() {
		if l.Type != LayerObject {
			continue
		}
		for _, o := range l.Objects {
			if typ == "" || o.Type == typ {
				out = append(out, o)
			}
		}
	}
	return out
}
