package video

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/corona10/goimagehash"
)

// FrameHasher extracts a still frame with ffmpeg and hashes it perceptually
type FrameHasher struct {
	FFmpeg string // ffmpeg binary, "ffmpeg" when empty
}

// Hash calculates the perceptual hash of a frame taken from videoFile
func (h FrameHasher) Hash(ctx context.Context, videoFile string) (*goimagehash.ImageHash, error) {
	bin := h.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}

	tempDir, err := os.MkdirTemp("", "resolveconv-frame-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()
	tempFrame := filepath.Join(tempDir, "frame.jpg")

	// 30 seconds in first, then 10 seconds for short clips, then the first frame
	var runErr error
	for _, offset := range []string{"00:00:30", "10", "0"} {
		cmd := exec.CommandContext(ctx, bin, "-ss", offset, "-i", videoFile, "-vframes", "1", "-f", "image2", "-y", tempFrame)
		if runErr = cmd.Run(); runErr == nil {
			if fi, err := os.Stat(tempFrame); err == nil && fi.Size() > 0 {
				break
			}
			runErr = fmt.Errorf("no frame at offset %s", offset)
		}
	}
	if runErr != nil {
		return nil, fmt.Errorf("failed to extract frame: %w", runErr)
	}

	return HashImageFile(tempFrame)
}

// HashImageFile calculates the perceptual hash of an image on disk
func HashImageFile(path string) (*goimagehash.ImageHash, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open extracted frame: %w", err)
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate perceptual hash: %w", err)
	}

	return hash, nil
}
