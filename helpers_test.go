package tessera

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"
)

const epsilon = 1e-6

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// newSheet builds a spritesheet of cols x rows cells, each filled with a
// distinct solid color so fragments can be told apart.
func newSheet(cols, rows, tileW, tileH int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cols*tileW, rows*tileH))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			fill := sheetColor(r*cols + c)
			for y := r * tileH; y < (r+1)*tileH; y++ {
				for x := c * tileW; x < (c+1)*tileW; x++ {
					img.SetRGBA(x, y, fill)
				}
			}
		}
	}
	return img
}

func sheetColor(idx int) color.RGBA {
	return color.RGBA{R: uint8(idx * 40), G: uint8(255 - idx*20), B: 128, A: 255}
}

// testMapJSON is a 10x10 map of 32px tiles with a ground layer, a sparse
// decoration layer, a hidden layer and an object group.
const testMapJSON = `{
  "width": 10, "height": 10, "tilewidth": 32, "tileheight": 32,
  "spritesheet": "sheet.png",
  "layers": [
    {"id": 1, "name": "ground", "type": "tilelayer",
     "data": [0,0,0,0,0,0,0,0,0,0,
              0,1,1,1,1,1,1,1,1,0,
              0,1,1,1,1,1,1,1,1,0,
              0,1,1,1,1,1,1,1,1,0,
              0,1,1,1,1,1,1,1,1,0,
              0,1,1,1,1,1,1,1,1,0,
              0,1,1,1,1,1,1,1,1,0,
              0,1,1,1,1,1,1,1,1,0,
              0,1,1,1,1,1,1,1,1,0,
              0,0,0,0,0,0,0,0,0,0]},
    {"id": 2, "name": "decor", "type": "tilelayer",
     "data": [-1,-1,-1,-1,-1,-1,-1,-1,-1,-1,
              -1, 2,-1,-1,-1,-1,-1,-1,-1,-1,
              -1,-1,-1,-1,-1,-1,-1,-1,-1,-1,
              -1,-1,-1, 3,-1,-1,-1,-1,-1,-1,
              -1,-1,-1,-1,-1,-1,-1,-1,-1,-1,
              -1,-1,-1,-1,-1,-1,-1,-1,-1,-1,
              -1,-1,-1,-1,-1,-1,-1,-1,-1,-1,
              -1,-1,-1,-1,-1,-1,-1,-1,-1,-1,
              -1,-1,-1,-1,-1,-1,-1,-1,-1,-1,
              -1,-1,-1,-1,-1,-1,-1,-1,-1, 2]},
    {"id": 3, "name": "hidden", "type": "tilelayer", "visible": false,
     "width": 2, "height": 2, "data": [1,1,1,1]},
    {"id": 4, "name": "walls", "type": "objectgroup",
     "objects": [{"name": "pillar", "type": "wall", "x": 96, "y": 96, "width": 32, "height": 32},
                 {"name": "spawn", "type": "spawn", "x": 64, "y": 64}]}
  ]
}`

// newTestLoader serves testMapJSON as "test" with a 4x1 sheet of 32px cells.
func newTestLoader() *MemoryLoader {
	l := NewMemoryLoader()
	l.AddDefinition("test", []byte(testMapJSON))
	l.AddImage("sheet.png", newSheet(4, 1, 32, 32))
	return l
}

func loadTestMap(t *testing.T) *WorldMap {
	t.Helper()
	m, err := Load(context.Background(), newTestLoader(), "test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

// loadSizedMap loads an empty-layered map of w x h tiles of ts pixels.
func loadSizedMap(t *testing.T, w, h, ts int) *WorldMap {
	t.Helper()
	l := NewMemoryLoader()
	l.AddDefinition("sized", []byte(sizedMapJSON(w, h, ts)))
	l.AddImage("sheet.png", newSheet(2, 2, ts, ts))
	m, err := Load(context.Background(), l, "sized")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func sizedMapJSON(w, h, ts int) string {
	return fmt.Sprintf(`{"width":%d,"height":%d,"tilewidth":%d,"tileheight":%d,`+
		`"spritesheet":"sheet.png","layers":[{"id":1,"type":"tilelayer","data":[]}]}`, w, h, ts, ts)
}

// --- recording viewport ---

type drawCall struct {
	img   image.Image
	dst   image.Rectangle
	fill  bool
	color Color
}

// recordingViewport is a Viewport that records what was drawn.
type recordingViewport struct {
	w, h   int
	clears int
	calls  []drawCall
}

func newRecordingViewport(w, h int) *recordingViewport {
	return &recordingViewport{w: w, h: h}
}

func (v *recordingViewport) Width() int  { return v.w }
func (v *recordingViewport) Height() int { return v.h }
func (v *recordingViewport) Center() Vec2 {
	return Vec2{X: float64(v.w) / 2, Y: float64(v.h) / 2}
}

func (v *recordingViewport) Clear() {
	v.clears++
	v.calls = v.calls[:0]
}

func (v *recordingViewport) DrawTile(img image.Image, dst image.Rectangle) {
	v.calls = append(v.calls, drawCall{img: img, dst: dst})
}

func (v *recordingViewport) FillRect(dst image.Rectangle, c Color) {
	v.calls = append(v.calls, drawCall{dst: dst, fill: true, color: c})
}

func (v *recordingViewport) tiles() []drawCall {
	var out []drawCall
	for _, c := range v.calls {
		if !c.fill {
			out = append(out, c)
		}
	}
	return out
}
