//go:build !cgo

package ocr

import (
	"context"
	"image"
)

// Tesseract needs cgo; without it every call reports ErrUnavailable.
type Tesseract struct {
	Language string
	Contrast float64
}

func NewTesseract(language string) *Tesseract {
	return &Tesseract{Language: language}
}

func (t *Tesseract) Recognize(context.Context, image.Image) ([]Block, error) {
	return nil, ErrUnavailable
}
