//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text with the native Tesseract engine.
type Tesseract struct {
	Language string
	Contrast float64
}

func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{Language: language, Contrast: 0.2}
}

func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := EncodePNG(Preprocess(img, t.Contrast))
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(payload); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	blockBoxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("failed to get block boxes: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lineBoxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("failed to get line boxes: %w", err)
	}

	return GroupLines(toRegions(blockBoxes), toRegions(lineBoxes)), nil
}

func toRegions(boxes []gosseract.BoundingBox) []Region {
	out := make([]Region, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, Region{Text: b.Word, Box: b.Box})
	}
	return out
}
