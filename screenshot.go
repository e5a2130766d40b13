package coge

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Snapshotter is implemented by video back-ends that can read pixels back.
// Snapshot returns img as straight-alpha NRGBA.
type Snapshotter interface {
	Snapshot(img Image) (*image.NRGBA, error)
}

// Screenshot queues a labeled screenshot captured when the scene presents
// this frame. The PNG is written to ScreenshotDir with a timestamped name.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// PendingScreenshots returns the number of queued screenshots.
func (s *Scene) PendingScreenshots() int { return len(s.screenshotQueue) }

// flushScreenshots captures screen for every queued label. Back-ends that
// cannot read pixels drop the queue with a warning.
func (s *Scene) flushScreenshots(v Video, screen Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	snap, ok := v.(Snapshotter)
	if !ok {
		logger.Warn("screenshot: video back-end cannot read pixels", "backend", v.Mode().Backend)
		return
	}
	img, err := snap.Snapshot(screen)
	if err != nil {
		logger.Error("screenshot", "err", err)
		return
	}
	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		logger.Error("screenshot: mkdir", "dir", s.ScreenshotDir, "err", err)
		return
	}

	stamp := time.Now().Format("20060102_150405")
	for _, label := range s.screenshotQueue {
		path := filepath.Join(s.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			logger.Error("screenshot", "err", err)
			continue
		}
		logger.Info("screenshot saved", "path", path)
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight alpha in
// place.
func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0 || a == 255 {
			continue
		}
		pix[i] = uint8(min(int(pix[i])*255/int(a), 255))
		pix[i+1] = uint8(min(int(pix[i+1])*255/int(a), 255))
		pix[i+2] = uint8(min(int(pix[i+2])*255/int(a), 255))
	}
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
