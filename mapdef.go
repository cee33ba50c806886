package tessera

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Defaults applied when a map definition omits its dimensions.
const (
	DefaultTileWidth  = 32
	DefaultTileHeight = 32
	DefaultMapWidth   = 6
	DefaultMapHeight  = 6
)

// EmptyTile marks a grid cell with nothing to draw.
const EmptyTile = -1

// LayerType distinguishes the planes a map is composed of.
type LayerType string

const (
	LayerTile   LayerType = "tilelayer"   // dense grid of tile indices
	LayerObject LayerType = "objectgroup" // free-placed objects (walls, spawns)
	LayerImage  LayerType = "imagelayer"  // a single image plane
)

// TileIndex is a spritesheet cell index as stored in a layer. JSON null
// decodes to EmptyTile, as does any negative value.
type TileIndex int

// UnmarshalJSON implements json.Unmarshaler.
func (t *TileIndex) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = EmptyTile
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v < 0 {
		v = EmptyTile
	}
	*t = TileIndex(v)
	return nil
}

// MapObject is an entry of an object group layer.
type MapObject struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LayerDefinition is one plane of a map definition.
type LayerDefinition struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Type    LayerType   `json:"type"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Data    []TileIndex `json:"data,omitempty"`
	Objects []MapObject `json:"objects,omitempty"`
	Image   string      `json:"image,omitempty"`
	Visible *bool       `json:"visible,omitempty"`
}

// IsVisible reports whether the layer should be drawn. Layers are visible
// unless the definition says otherwise.
func (l *LayerDefinition) IsVisible() bool {
	return l.Visible == nil || *l.Visible
}

// AtlasTables names the spritesheet cells used to generate a bordered map:
// corner tiles, edge tiles and a fill sequence for the interior.
type AtlasTables struct {
	Edges struct {
		Top    int `json:"top"`
		Bottom int `json:"bottom"`
		Left   int `json:"left"`
		Right  int `json:"right"`
	} `json:"edges"`
	Corners struct {
		TopLeft     int `json:"topleft"`
		TopRight    int `json:"topright"`
		BottomLeft  int `json:"bottomleft"`
		BottomRight int `json:"bottomright"`
	} `json:"corners"`
	Fill []int `json:"fill"`
}

// Generate builds a row-major w*h grid: corners at the four corners, edge
// tiles along the borders and the fill sequence cycled over the interior.
// With no fill tiles the interior is empty.
func (a *AtlasTables) Generate(w, h int) []TileIndex {
	out := make([]TileIndex, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			out[row*w+col] = TileIndex(a.cellFor(col, row, w, h))
		}
	}
	return out
}

func (a *AtlasTables) cellFor(col, row, w, h int) int {
	top, bottom := row == 0, row == h-1
	left, right := col == 0, col == w-1
	switch {
	case top && left:
		return a.Corners.TopLeft
	case top && right:
		return a.Corners.TopRight
	case bottom && left:
		return a.Corners.BottomLeft
	case bottom && right:
		return a.Corners.BottomRight
	case top:
		return a.Edges.Top
	case bottom:
		return a.Edges.Bottom
	case left:
		return a.Edges.Left
	case right:
		return a.Edges.Right
	}
	if len(a.Fill) == 0 {
		return EmptyTile
	}
	return a.Fill[(row*w+col)%len(a.Fill)]
}

// MapDefinition is the parsed map document.
type MapDefinition struct {
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	TileWidth   int               `json:"tilewidth"`
	TileHeight  int               `json:"tileheight"`
	Spritesheet string            `json:"spritesheet"`
	Layers      []LayerDefinition `json:"layers"`
	Atlas       *AtlasTables      `json:"atlas,omitempty"`
}

// ParseMapDefinition decodes a map document. Missing or non-positive
// dimensions are replaced with defaults and reported as ConfigErrors; only
// malformed JSON is a hard error.
func ParseMapDefinition(data []byte) (*MapDefinition, []ConfigError, error) {
	var def MapDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, nil, fmt.Errorf("tessera: failed to parse map JSON: %w", err)
	}

	var warnings []ConfigError
	fix := func(field string, v *int, dflt int) {
		if *v <= 0 {
			*v = dflt
			warnings = append(warnings, ConfigError{Field: field, Default: dflt})
		}
	}
	fix("width", &def.Width, DefaultMapWidth)
	fix("height", &def.Height, DefaultMapHeight)
	fix("tilewidth", &def.TileWidth, DefaultTileWidth)
	fix("tileheight", &def.TileHeight, DefaultTileHeight)

	for i := range def.Layers {
		l := &def.Layers[i]
		if l.ID == 0 {
			l.ID = i + 1
		}
		if l.Type == "" {
			l.Type = LayerTile
		}
		if l.Type != LayerTile {
			continue
		}
		if l.Width <= 0 {
			l.Width = def.Width
		}
		if l.Height <= 0 {
			l.Height = def.Height
		}
		if len(l.Data) == 0 && def.Atlas != nil {
			l.Data = def.Atlas.Generate(l.Width, l.Height)
		}
	}
	return &def, warnings, nil
}
