package tessera

import (
	"image"
	"testing"
)

func newTestRenderer(t *testing.T, vpW, vpH int, cfg CameraConfig) (*Renderer, *Camera, *recordingViewport) {
	t.Helper()
	m := loadTestMap(t)
	vp := newRecordingViewport(vpW, vpH)
	cam := NewCamera(m, vp, cfg)
	return NewRenderer(cam, m, vp), cam, vp
}

func TestRendererClearsOnce(t *testing.T) {
	r, cam, vp := newTestRenderer(t, 320, 320, DefaultCameraConfig())
	cam.CenterOnMap()
	r.Render()
	if vp.clears != 1 {
		t.Errorf("clears = %d, want 1", vp.clears)
	}
	r.Render()
	if vp.clears != 2 {
		t.Errorf("clears = %d after two frames, want 2", vp.clears)
	}
}

func TestRendererDrawsVisibleLayersInOrder(t *testing.T) {
	r, cam, vp := newTestRenderer(t, 320, 320, DefaultCameraConfig())
	cam.CenterOnMap()
	r.Render()

	tiles := vp.tiles()
	// 100 ground cells, 3 decor cells; the hidden layer is skipped.
	if len(tiles) != 103 {
		t.Fatalf("drawn tiles = %d, want 103", len(tiles))
	}
	m := r.world
	decor := m.Tile(2, 2)
	for i, c := range tiles[:100] {
		if c.img == decor {
			t.Fatalf("tile %d: decor drawn before the ground layer finished", i)
		}
	}
	if tiles[100].img != decor {
		t.Error("first decor tile should follow the ground layer")
	}
}

func TestRendererTilePositions(t *testing.T) {
	r, cam, vp := newTestRenderer(t, 320, 320, DefaultCameraConfig())
	cam.CenterOnMap()
	r.Render()

	area := r.Area()
	if area != (TileRect{X2: 10, Y2: 10}) {
		t.Fatalf("Area = %+v", area)
	}
	// Ground (col 3, row 2) is the 24th cell in row-major order.
	got := vp.tiles()[2*10+3].dst
	want := image.Rect(96, 64, 128, 96)
	if got != want {
		t.Errorf("dst = %v, want %v", got, want)
	}
}

func TestRendererAreaRelativeOffsets(t *testing.T) {
	cfg := DefaultCameraConfig()
	cfg.Model = MotionInstant
	cfg.Zoom = 2
	r, cam, vp := newTestRenderer(t, 128, 128, cfg)
	cam.SetPosition(160, 160) // tile (5,5); 2 tiles visible each way

	r.Render()
	area := r.Area()
	want := TileRect{X1: 3, Y1: 3, X2: 7, Y2: 7}
	if area != want {
		t.Fatalf("Area = %+v, want %+v", area, want)
	}
	if s := r.ScaledTileSize(); s != (image.Point{X: 64, Y: 64}) {
		t.Fatalf("ScaledTileSize = %v, want 64x64", s)
	}
	first := vp.tiles()[0]
	if first.dst != image.Rect(0, 0, 64, 64) {
		t.Errorf("first tile dst = %v, want (0,0)-(64,64)", first.dst)
	}
	// decor index 3 at (3,3) is the area origin.
	for _, c := range vp.tiles() {
		if c.img == r.world.Tile(2, 3) && c.dst.Min != (image.Point{}) {
			t.Errorf("decor (3,3) drawn at %v, want origin", c.dst.Min)
		}
	}
}

func TestRendererScaledTileSizeRoundsUp(t *testing.T) {
	cfg := DefaultCameraConfig()
	cfg.Zoom = 1.1
	r, _, _ := newTestRenderer(t, 320, 320, cfg)
	// 32 * 1.1 = 35.2
	if s := r.ScaledTileSize(); s != (image.Point{X: 36, Y: 36}) {
		t.Errorf("ScaledTileSize = %v, want 36x36", s)
	}
}

func TestRendererSkipsUnreadyMap(t *testing.T) {
	m := newWorldMap("pending")
	vp := newRecordingViewport(320, 320)
	r := NewRenderer(NewCamera(m, vp, DefaultCameraConfig()), m, vp)
	r.Render()
	r.RenderActors([]*Actor{NewActor(nil, "a", Vec2{}, Size{Width: 8, Height: 8})})
	if vp.clears != 0 || len(vp.calls) != 0 {
		t.Errorf("unready map drew: clears=%d calls=%d", vp.clears, len(vp.calls))
	}
}

func TestRenderActors(t *testing.T) {
	r, cam, vp := newTestRenderer(t, 320, 320, DefaultCameraConfig())
	cam.CenterOnMap()
	r.Render()
	before := len(vp.calls)

	ready := NewActor(nil, "ready", Vec2{X: 64, Y: 32}, Size{Width: 32, Height: 32})
	ready.MarkReady()
	ready.SetState(StateHurt)
	loading := NewActor(nil, "loading", Vec2{X: 0, Y: 0}, Size{Width: 32, Height: 32})
	gone := NewActor(nil, "gone", Vec2{X: 0, Y: 0}, Size{Width: 32, Height: 32})
	gone.MarkReady()
	gone.Remove()

	r.RenderActors([]*Actor{ready, loading, gone})

	drawn := vp.calls[before:]
	if len(drawn) != 1 {
		t.Fatalf("actors drawn = %d, want 1", len(drawn))
	}
	if !drawn[0].fill || drawn[0].color != StateColor(StateHurt) {
		t.Errorf("actor without sprite should be a %v block, got %+v", StateHurt, drawn[0])
	}
	if drawn[0].dst != image.Rect(64, 32, 96, 64) {
		t.Errorf("actor dst = %v, want (64,32)-(96,64)", drawn[0].dst)
	}
}

func TestRenderActorsSprite(t *testing.T) {
	r, cam, vp := newTestRenderer(t, 320, 320, DefaultCameraConfig())
	cam.CenterOnMap()
	r.Render()

	a := NewActor(nil, "hero", Vec2{X: 32, Y: 32}, Size{Width: 32, Height: 32})
	sprite := newSheet(1, 1, 16, 16)
	a.sprite = sprite
	a.MarkReady()
	r.RenderActors([]*Actor{a})

	last := vp.calls[len(vp.calls)-1]
	if last.fill || last.img != sprite {
		t.Errorf("last call = %+v, want the actor's sprite", last)
	}
}

func TestRenderActorsOffscreen(t *testing.T) {
	r, cam, vp := newTestRenderer(t, 64, 64, DefaultCameraConfig())
	cam.SetPosition(32, 32)
	r.Render()
	before := len(vp.calls)

	far := NewActor(nil, "far", Vec2{X: 288, Y: 288}, Size{Width: 32, Height: 32})
	far.MarkReady()
	r.RenderActors([]*Actor{far})
	if len(vp.calls) != before {
		t.Error("actor outside the viewport should not be drawn")
	}
}

func TestRendererDebugStats(t *testing.T) {
	r, cam, _ := newTestRenderer(t, 320, 320, DefaultCameraConfig())
	cam.CenterOnMap()
	r.SetDebug(true)
	r.Render()
	if r.stats.tiles != 103 || r.stats.layers != 2 {
		t.Errorf("stats = %+v, want 103 tiles over 2 layers", r.stats)
	}
	r.debugLog()
	if r.stats.tiles != 0 {
		t.Error("debugLog should reset the stats")
	}
}
