// Package layout turns recognized OCR lines into selectable screen-space
// words.
//
// Each recognized line becomes a padded background strip whose top stays as
// close as possible to the transformed OCR box while never overlapping the
// previous strip. Text is drawn at the largest font size that fits the strip
// without wrapping, and every whitespace-delimited token becomes a Word.
package layout

import (
	"image"
	"math"
	"strings"

	"ocrselect/internal/geom"
	"ocrselect/internal/ocr"
)

type Options struct {
	MinFontSize    float64
	MaxFontSize    float64
	FontStep       float64
	PaddingH       float64
	PaddingV       float64
	LineSpacing    float64
	BaselineMargin float64
	CornerRadius   float64
}

func DefaultOptions() Options {
	return Options{
		MinFontSize:    24,
		MaxFontSize:    36,
		FontStep:       2,
		PaddingH:       8,
		PaddingV:       6,
		LineSpacing:    4,
		BaselineMargin: 4,
		CornerRadius:   6,
	}
}

// Word is the smallest selectable unit. Rect covers the glyphs; Full adds
// the trailing inter-word space so adjacent highlights join up.
type Word struct {
	Index    int
	Text     string
	Rect     geom.Rect
	Full     geom.Rect
	Baseline float64
	FontSize float64
	Line     int
}

type LineBackground struct {
	Line     int
	Rect     geom.Rect
	FontSize float64
	Radius   float64
}

type SkipReason string

const (
	SkipMissingBox    SkipReason = "missing bounding box"
	SkipDegenerateBox SkipReason = "degenerate bounding box"
	SkipEmptyText     SkipReason = "empty text"
)

// Skip records a source line that produced no words. Line is -1 when the
// whole block was dropped.
type Skip struct {
	Block  int
	Line   int
	Reason SkipReason
}

type Result struct {
	Words   []Word
	Lines   []LineBackground
	Skipped []Skip
}

type Engine struct {
	opts    Options
	measure Measurer
}

func NewEngine(m Measurer, opts Options) *Engine {
	if opts.FontStep <= 0 {
		opts.FontStep = 1
	}
	if opts.MaxFontSize < opts.MinFontSize {
		opts.MaxFontSize = opts.MinFontSize
	}
	return &Engine{opts: opts, measure: m}
}

// Layout rebuilds the full word set for blocks under tr. Lines with missing
// or degenerate boxes and lines without tokens are skipped and reported in
// Result.Skipped.
func (e *Engine) Layout(blocks []ocr.Block, tr geom.Transform) Result {
	var res Result
	lastBottom := 0.0
	haveLast := false
	lineIdx := 0

	for bi, block := range blocks {
		if block.Box == nil {
			res.Skipped = append(res.Skipped, Skip{Block: bi, Line: -1, Reason: SkipMissingBox})
			continue
		}
		for li, line := range block.Lines {
			if line.Box == nil {
				res.Skipped = append(res.Skipped, Skip{Block: bi, Line: li, Reason: SkipMissingBox})
				continue
			}
			if line.Box.Dx() <= 0 || line.Box.Dy() <= 0 {
				res.Skipped = append(res.Skipped, Skip{Block: bi, Line: li, Reason: SkipDegenerateBox})
				continue
			}
			tokens := strings.Fields(line.Text)
			if len(tokens) == 0 {
				res.Skipped = append(res.Skipped, Skip{Block: bi, Line: li, Reason: SkipEmptyText})
				continue
			}

			box := tr.ApplyRect(rectFromImage(*line.Box))
			top := box.Top - e.opts.PaddingV
			if haveLast {
				top = math.Max(top, lastBottom+e.opts.LineSpacing)
			}
			left := box.Left - e.opts.PaddingH
			right := box.Right + e.opts.PaddingH

			size := e.fitFontSize(strings.Join(tokens, " "), right-left-e.opts.PaddingH*2)
			bottom := top + size + e.opts.PaddingV*2
			res.Lines = append(res.Lines, LineBackground{
				Line:     lineIdx,
				Rect:     geom.Rect{Left: left, Top: top, Right: right, Bottom: bottom},
				FontSize: size,
				Radius:   e.opts.CornerRadius,
			})

			x := left + e.opts.PaddingH
			baseline := bottom - e.opts.PaddingV - e.opts.BaselineMargin
			space := e.measure.MeasureString(size, " ")
			for _, tok := range tokens {
				w := e.measure.MeasureString(size, tok)
				res.Words = append(res.Words, Word{
					Index:    len(res.Words),
					Text:     tok,
					Rect:     geom.Rect{Left: x, Top: top, Right: x + w, Bottom: bottom},
					Full:     geom.Rect{Left: x, Top: top, Right: x + w + space, Bottom: bottom},
					Baseline: baseline,
					FontSize: size,
					Line:     lineIdx,
				})
				x += w + space
			}

			lastBottom = bottom
			haveLast = true
			lineIdx++
		}
	}
	return res
}

// fitFontSize steps down from the maximum until text fits width. Text that
// still overflows at the minimum is drawn at the minimum anyway.
func (e *Engine) fitFontSize(text string, width float64) float64 {
	size := e.opts.MaxFontSize
	for e.measure.MeasureString(size, text) > width && size > e.opts.MinFontSize {
		size -= e.opts.FontStep
	}
	if size < e.opts.MinFontSize {
		size = e.opts.MinFontSize
	}
	return size
}

func rectFromImage(r image.Rectangle) geom.Rect {
	return geom.Rect{Left: float64(r.Min.X), Top: float64(r.Min.Y), Right: float64(r.Max.X), Bottom: float64(r.Max.Y)}
}
