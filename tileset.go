package tessera

import (
	"fmt"
	"image"
)

// subImager is satisfied by *ebiten.Image and the standard library's
// concrete image types.
type subImager interface {
	image.Image
	SubImage(r image.Rectangle) image.Image
}

type tileKey struct {
	layer int
	index int
}

// Tileset is the per-map cache of tile fragments cut from one spritesheet.
// It is filled once while the map loads and is read-only afterwards.
type Tileset struct {
	tileW, tileH int
	perRow       int
	perCol       int

	fragments map[tileKey]image.Image
	sliced    int // distinct indices actually cut from the sheet
}

// newTileset cuts a fragment for every distinct index referenced by the tile
// layers. Each index is sliced at most once, then shared by every layer that
// uses it. Indices that fall outside the sheet are skipped.
func newTileset(sheet image.Image, tileW, tileH int, layers []LayerDefinition) (*Tileset, error) {
	src, ok := sheet.(subImager)
	if !ok {
		return nil, fmt.Errorf("tessera: spritesheet type %T cannot be sliced", sheet)
	}
	b := src.Bounds()
	ts := &Tileset{
		tileW:     tileW,
		tileH:     tileH,
		perRow:    b.Dx() / tileW,
		perCol:    b.Dy() / tileH,
		fragments: make(map[tileKey]image.Image),
	}

	byIndex := make(map[int]image.Image)
	for i := range layers {
		l := &layers[i]
		if l.Type != LayerTile {
			continue
		}
		for _, v := range l.Data {
			idx := int(v)
			if idx == EmptyTile || !ts.inRange(idx) {
				continue
			}
			key := tileKey{layer: l.ID, index: idx}
			if _, done := ts.fragments[key]; done {
				continue
			}
			frag, cut := byIndex[idx]
			if !cut {
				frag = src.SubImage(ts.cellRect(b.Min, idx))
				byIndex[idx] = frag
			}
			ts.fragments[key] = frag
		}
	}
	ts.sliced = len(byIndex)
	return ts, nil
}

// Capacity returns the number of cells in the spritesheet.
func (ts *Tileset) Capacity() int {
	return ts.perRow * ts.perCol
}

// Sliced returns how many distinct fragments were cut from the sheet.
func (ts *Tileset) Sliced() int {
	return ts.sliced
}

// Tile returns the cached fragment for index as used by layerID, or nil.
func (ts *Tileset) Tile(layerID, index int) image.Image {
	return ts.fragments[tileKey{layer: layerID, index: index}]
}

func (ts *Tileset) inRange(idx int) bool {
	return idx >= 0 && idx < ts.Capacity()
}

// cellRect maps a linear index to its spritesheet cell:
// col = index % perRow, row = index / perRow.
func (ts *Tileset) cellRect(origin image.Point, idx int) image.Rectangle {
	x := origin.X + (idx%ts.perRow)*ts.tileW
	y := origin.Y + (idx/ts.perRow)*ts.tileH
	return image.Rect(x, y, x+ts.tileW, y+ts.tileH)
}
