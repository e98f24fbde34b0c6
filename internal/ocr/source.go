package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
)

// Open decodes the image at path with its EXIF orientation applied, so box
// coordinates match what the user sees.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return img, nil
}

// LoadOrRecognize returns the sidecar result for imagePath when one exists,
// otherwise runs p and writes the sidecar for next time. cached reports
// whether the sidecar was used.
func LoadOrRecognize(ctx context.Context, p Provider, imagePath string, img image.Image) (blocks []Block, cached bool, err error) {
	sidecar := SidecarPath(imagePath)
	if _, statErr := os.Stat(sidecar); statErr == nil {
		blocks, err = LoadJSON(sidecar)
		return blocks, err == nil, err
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("stat ocr sidecar: %w", statErr)
	}

	if p == nil {
		return nil, false, ErrUnavailable
	}
	blocks, err = p.Recognize(ctx, img)
	if err != nil {
		return nil, false, err
	}
	if err := SaveJSON(sidecar, blocks); err != nil {
		return blocks, false, err
	}
	return blocks, false, nil
}
