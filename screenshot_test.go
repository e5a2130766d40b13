package coge

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s, _ := e.NewScene("s")
	s.Screenshot("a")
	s.Screenshot("b")
	s.Screenshot("c")
	if len(s.screenshotQueue) != 3 {
		t.Fatalf("queue len = %d, want 3", len(s.screenshotQueue))
	}
	if s.screenshotQueue[0] != "a" || s.screenshotQueue[1] != "b" || s.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", s.screenshotQueue)
	}
	if s.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", s.ScreenshotDir, "screenshots")
	}
}

func TestScreenshotWrittenOnPresent(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	s.ScreenshotDir = filepath.Join(t.TempDir(), "shots")
	s.Screenshot("title screen")
	runFrames(t, e, 1)
	if s.PendingScreenshots() != 0 {
		t.Errorf("PendingScreenshots = %d, want 0", s.PendingScreenshots())
	}
	entries, err := os.ReadDir(s.ScreenshotDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), "_title_screen.png") {
		t.Fatalf("files = %v, want one title_screen png", entries)
	}
	f, err := os.Open(filepath.Join(s.ScreenshotDir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("screenshot size = %dx%d, want 320x240", b.Dx(), b.Dy())
	}
}

func TestUnpremultiply(t *testing.T) {
	pix := []byte{64, 32, 0, 128, 10, 20, 30, 255, 9, 9, 9, 0}
	unpremultiply(pix)
	want := []byte{127, 63, 0, 128, 10, 20, 30, 255, 9, 9, 9, 0}
	for i := range want {
		if pix[i] != want[i] {
			t.Errorf("pix[%d] = %d, want %d", i, pix[i], want[i])
		}
	}
}
