package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ErrNoFrame is returned when the source has nothing to capture.
var ErrNoFrame = errors.New("capture: no frame available")

// FrameSource produces one frame per capture attempt.
type FrameSource interface {
	Capture(ctx context.Context) ([]byte, error)
}

// DirSource reads the newest snapshot from a directory that an external
// capture process (webcam grabber, CCTV export) drops images into.
type DirSource struct {
	dir     string
	maxSize int
}

// NewDirSource creates a source over a snapshot directory. maxSize bounds
// the longest edge of the frame handed to the recognizer.
func NewDirSource(dir string, maxSize int) *DirSource {
	return &DirSource{dir: dir, maxSize: maxSize}
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".bmp":
		return true
	}
	return false
}

// Capture picks the most recently modified image in the directory and
// prepares it for upload.
func (d *DirSource) Capture(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("could not read snapshot directory: %w", err)
	}

	var newest string
	var newestMod int64
	for _, de := range dirEntries {
		if de.IsDir() || !isImageFile(de.Name()) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().UnixNano() > newestMod {
			newest = de.Name()
			newestMod = info.ModTime().UnixNano()
		}
	}
	if newest == "" {
		return nil, ErrNoFrame
	}

	data, err := os.ReadFile(filepath.Join(d.dir, newest))
	if err != nil {
		return nil, fmt.Errorf("could not read snapshot %s: %w", newest, err)
	}
	return PrepareFrame(data, d.maxSize)
}

// PrepareFrame re-encodes a frame as JPEG, downscaling it to fit within
// maxSize (width or height) while keeping aspect ratio. Smaller uploads
// cut recognition latency without hurting face detection.
func PrepareFrame(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxSize && height <= maxSize {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, fmt.Errorf("failed to encode frame: %w", err)
		}
		return buf.Bytes(), nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxSize
		newHeight = int(float64(height) * float64(maxSize) / float64(width))
	} else {
		newHeight = maxSize
		newWidth = int(float64(width) * float64(maxSize) / float64(height))
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode resized frame: %w", err)
	}
	return buf.Bytes(), nil
}
