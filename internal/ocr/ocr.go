// Package ocr defines the recognized-text model consumed by the selection
// overlay and the providers that produce it.
//
// Coordinates are source-image pixels. A nil Box means the recognizer did
// not report geometry for that region; consumers skip such regions.
package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"sort"
	"strings"
)

// ErrUnavailable is returned by providers that were not compiled in.
var ErrUnavailable = errors.New("ocr: recognizer unavailable in this build")

type Line struct {
	Text string           `json:"text"`
	Box  *image.Rectangle `json:"box,omitempty"`
}

type Block struct {
	Text  string           `json:"text"`
	Box   *image.Rectangle `json:"box,omitempty"`
	Lines []Line           `json:"lines"`
}

// Provider recognizes text in an image.
type Provider interface {
	Recognize(ctx context.Context, img image.Image) ([]Block, error)
}

// LineCount returns the total number of lines across blocks.
func LineCount(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		n += len(b.Lines)
	}
	return n
}

// SidecarPath is where LoadJSON looks for precomputed results of imagePath.
func SidecarPath(imagePath string) string {
	return imagePath + ".ocr.json"
}

// LoadJSON reads blocks previously written by SaveJSON or an external
// recognizer.
func LoadJSON(path string) ([]Block, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ocr sidecar: %w", err)
	}
	var blocks []Block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, fmt.Errorf("decode ocr sidecar: %w", err)
	}
	return blocks, nil
}

func SaveJSON(path string, blocks []Block) error {
	raw, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ocr sidecar: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write ocr sidecar: %w", err)
	}
	return nil
}

// Region is one recognizer box at block or line granularity.
type Region struct {
	Text string
	Box  image.Rectangle
}

// GroupLines assigns each line to the block containing its center and
// returns blocks in reading order. Lines no block claims become their own
// single-line block.
func GroupLines(blockRegions, lineRegions []Region) []Block {
	blocks := make([]Block, 0, len(blockRegions))
	for _, br := range blockRegions {
		box := br.Box
		blocks = append(blocks, Block{Text: strings.TrimSpace(br.Text), Box: &box})
	}
	for _, lr := range lineRegions {
		text := strings.TrimSpace(lr.Text)
		if text == "" {
			continue
		}
		box := lr.Box
		center := image.Pt((box.Min.X+box.Max.X)/2, (box.Min.Y+box.Max.Y)/2)
		owner := -1
		for i := range blocks {
			if center.In(*blocks[i].Box) {
				owner = i
				break
			}
		}
		if owner < 0 {
			blockBox := box
			blocks = append(blocks, Block{Text: text, Box: &blockBox})
			owner = len(blocks) - 1
		}
		blocks[owner].Lines = append(blocks[owner].Lines, Line{Text: text, Box: &box})
	}

	out := blocks[:0]
	for _, b := range blocks {
		if len(b.Lines) == 0 {
			continue
		}
		sort.SliceStable(b.Lines, func(i, j int) bool { return b.Lines[i].Box.Min.Y < b.Lines[j].Box.Min.Y })
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Box.Min.Y != out[j].Box.Min.Y {
			return out[i].Box.Min.Y < out[j].Box.Min.Y
		}
		return out[i].Box.Min.X < out[j].Box.Min.X
	})
	return out
}
