package tessera

import (
	"strings"
	"testing"
)

func TestParseMapDefinitionDefaults(t *testing.T) {
	def, warnings, err := ParseMapDefinition([]byte(`{"spritesheet":"s.png","width":-3}`))
	if err != nil {
		t.Fatalf("ParseMapDefinition: %v", err)
	}
	if def.Width != DefaultMapWidth || def.Height != DefaultMapHeight {
		t.Errorf("size = %dx%d, want %dx%d", def.Width, def.Height, DefaultMapWidth, DefaultMapHeight)
	}
	if def.TileWidth != DefaultTileWidth || def.TileHeight != DefaultTileHeight {
		t.Errorf("tile = %dx%d, want %dx%d", def.TileWidth, def.TileHeight, DefaultTileWidth, DefaultTileHeight)
	}
	want := []string{"width", "height", "tilewidth", "tileheight"}
	if len(warnings) != len(want) {
		t.Fatalf("warnings = %v, want %d", warnings, len(want))
	}
	for i, w := range warnings {
		if w.Field != want[i] {
			t.Errorf("warnings[%d].Field = %q, want %q", i, w.Field, want[i])
		}
	}
}

func TestParseMapDefinitionKeepsValidFields(t *testing.T) {
	def, warnings, err := ParseMapDefinition([]byte(`{"width":12,"height":8,"tilewidth":16,"tileheight":24}`))
	if err != nil {
		t.Fatalf("ParseMapDefinition: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if def.Width != 12 || def.Height != 8 || def.TileWidth != 16 || def.TileHeight != 24 {
		t.Errorf("def = %+v", def)
	}
}

func TestParseMapDefinitionMalformed(t *testing.T) {
	_, _, err := ParseMapDefinition([]byte(`{"width":`))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "parse map JSON") {
		t.Errorf("error = %q", err)
	}
}

func TestParseMapDefinitionLayerDefaults(t *testing.T) {
	def, _, err := ParseMapDefinition([]byte(`{"width":3,"height":2,"layers":[
		{"name":"a","data":[0,1,2,3,4,5]},
		{"name":"b","type":"objectgroup"}
	]}`))
	if err != nil {
		t.Fatalf("ParseMapDefinition: %v", err)
	}
	a, b := def.Layers[0], def.Layers[1]
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("IDs = %d,%d, want 1,2", a.ID, b.ID)
	}
	if a.Type != LayerTile {
		t.Errorf("a.Type = %q, want %q", a.Type, LayerTile)
	}
	if a.Width != 3 || a.Height != 2 {
		t.Errorf("a size = %dx%d, want 3x2", a.Width, a.Height)
	}
	if b.Width != 0 {
		t.Errorf("object layer width = %d, want untouched 0", b.Width)
	}
	if !a.IsVisible() {
		t.Error("layers without a visible flag should be visible")
	}
}

func TestTileIndexUnmarshal(t *testing.T) {
	def, _, err := ParseMapDefinition([]byte(`{"width":4,"height":1,"layers":[{"data":[0,null,-5,3]}]}`))
	if err != nil {
		t.Fatalf("ParseMapDefinition: %v", err)
	}
	want := []TileIndex{0, EmptyTile, EmptyTile, 3}
	got := def.Layers[0].Data
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Data[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAtlasGenerate(t *testing.T) {
	var a AtlasTables
	a.Corners.TopLeft, a.Corners.TopRight = 10, 11
	a.Corners.BottomLeft, a.Corners.BottomRight = 12, 13
	a.Edges.Top, a.Edges.Bottom, a.Edges.Left, a.Edges.Right = 20, 21, 22, 23
	a.Fill = []int{7, 8}

	got := a.Generate(4, 3)
	want := []TileIndex{
		10, 20, 20, 11,
		22, 8, 7, 23,
		12, 21, 21, 13,
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAtlasGenerateNoFill(t *testing.T) {
	var a AtlasTables
	got := a.Generate(3, 3)
	if got[4] != EmptyTile {
		t.Errorf("interior = %d, want EmptyTile", got[4])
	}
}

func TestParseMapDefinitionAtlasFillsEmptyLayers(t *testing.T) {
	def, _, err := ParseMapDefinition([]byte(`{"width":3,"height":3,
		"atlas":{"corners":{"topleft":1,"topright":1,"bottomleft":1,"bottomright":1},
		         "edges":{"top":2,"bottom":2,"left":2,"right":2},"fill":[5]},
		"layers":[{"id":1},{"id":2,"data":[0,0,0,0,0,0,0,0,0]}]}`))
	if err != nil {
		t.Fatalf("ParseMapDefinition: %v", err)
	}
	if got := def.Layers[0].Data; len(got) != 9 || got[4] != 5 || got[0] != 1 || got[1] != 2 {
		t.Errorf("generated data = %v", got)
	}
	if got := def.Layers[1].Data; got[4] != 0 {
		t.Errorf("explicit data overwritten: %v", got)
	}
}

func TestConfigErrorMessage(t *testing.T) {
	e := ConfigError{Field: "tilewidth", Default: 32}
	if !strings.Contains(e.Error(), `"tilewidth"`) || !strings.Contains(e.Error(), "32") {
		t.Errorf("Error() = %q", e.Error())
	}
}
