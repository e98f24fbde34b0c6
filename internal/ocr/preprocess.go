package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
)

// Preprocess converts img to high-contrast grayscale, which Tesseract reads
// more reliably than camera color.
func Preprocess(img image.Image, contrast float64) image.Image {
	gray := effect.Grayscale(img)
	if contrast == 0 {
		return gray
	}
	return adjust.Contrast(gray, contrast)
}

// EncodePNG serializes img for recognizers that take encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
