package tessera

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"after attack", "after_attack"},
		{"  ", "unlabeled"},
		{"zoom-2.0", "zoom-2.0"},
		{"a/b\\c", "a_b_c"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		128, 64, 0, 128, // half-transparent
		10, 20, 30, 255, // opaque
	}
	img := unpremultiply(pixels, 2, 1)
	if got := img.Pix[:4]; got[0] != 255 || got[1] != 127 || got[3] != 128 {
		t.Errorf("pixel 0 = %v, want straight alpha", got)
	}
	if got := img.Pix[4:8]; got[0] != 10 || got[1] != 20 || got[2] != 30 || got[3] != 255 {
		t.Errorf("pixel 1 = %v, want unchanged", got)
	}
}

func TestWriteScreenshots(t *testing.T) {
	s, _ := newTestStage(t)
	s.ScreenshotDir = filepath.Join(t.TempDir(), "shots")
	s.Screenshot("first")
	s.Screenshot("second shot")

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	paths := s.writeScreenshots(img, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	if len(paths) != 2 {
		t.Fatalf("written = %v, want 2 files", paths)
	}
	if !strings.HasSuffix(paths[1], "20260102_030405_second_shot.png") {
		t.Errorf("path = %q", paths[1])
	}
	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
	if s.PendingScreenshots() != 0 {
		t.Error("queue should be empty after writing")
	}
}
