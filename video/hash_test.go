package video

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func writeTestJPEG(t *testing.T, path string, shade func(x, y int) uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: shade(x, y)})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create image: %v", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
}

func TestHashImageFile(t *testing.T) {
	dir := t.TempDir()
	gradient := func(x, _ int) uint8 { return uint8(x * 4) }
	inverted := func(x, _ int) uint8 { return uint8(255 - x*4) }

	writeTestJPEG(t, filepath.Join(dir, "a.jpg"), gradient)
	writeTestJPEG(t, filepath.Join(dir, "b.jpg"), gradient)
	writeTestJPEG(t, filepath.Join(dir, "c.jpg"), inverted)

	a, err := HashImageFile(filepath.Join(dir, "a.jpg"))
	if err != nil {
		t.Fatalf("HashImageFile() error = %v", err)
	}
	b, err := HashImageFile(filepath.Join(dir, "b.jpg"))
	if err != nil {
		t.Fatalf("HashImageFile() error = %v", err)
	}
	c, err := HashImageFile(filepath.Join(dir, "c.jpg"))
	if err != nil {
		t.Fatalf("HashImageFile() error = %v", err)
	}

	same, err := a.Distance(b)
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	if same != 0 {
		t.Errorf("identical images should have distance 0, got %d", same)
	}

	different, err := a.Distance(c)
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	if different == 0 {
		t.Error("inverted image should not hash identically")
	}
}

func TestHashImageFile_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := HashImageFile(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestFrameHasher_FFmpegFails(t *testing.T) {
	dir := t.TempDir()
	hasher := FrameHasher{FFmpeg: writeFakeTool(t, dir, "ffmpeg", `exit 1`)}

	if _, err := hasher.Hash(context.Background(), filepath.Join(dir, "clip.mp4")); err == nil {
		t.Error("expected error when ffmpeg fails")
	}
}

func TestFrameHasher_NonExistentBinary(t *testing.T) {
	hasher := FrameHasher{FFmpeg: filepath.Join(t.TempDir(), "missing-ffmpeg")}

	if _, err := hasher.Hash(context.Background(), "/path/to/nonexistent/video.mp4"); err == nil {
		t.Error("expected error for missing ffmpeg binary")
	}
}
