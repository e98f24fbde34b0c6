package selection

import (
	"image"
	"unicode/utf8"

	"ocrselect/internal/geom"
	"ocrselect/internal/layout"
	"ocrselect/internal/ocr"
)

// halfEm advances every rune by half the font size.
type halfEm struct{}

func (halfEm) MeasureString(size float64, s string) float64 {
	return float64(utf8.RuneCountInString(s)) * size / 2
}

// layoutLines lays out one single-line block per text, 100px apart.
func layoutLines(texts ...string) []layout.Word {
	var blocks []ocr.Block
	for i, txt := range texts {
		r := image.Rect(0, i*100, 600, i*100+20)
		blocks = append(blocks, ocr.Block{Text: txt, Box: &r, Lines: []ocr.Line{{Text: txt, Box: &r}}})
	}
	return layout.NewEngine(halfEm{}, layout.DefaultOptions()).Layout(blocks, geom.Identity()).Words
}

func center(w layout.Word) geom.Point { return w.Rect.Center() }

type fakeMenu struct {
	visible  bool
	bounds   geom.Rect
	requests []MenuRequest
	hides    int
}

func (m *fakeMenu) Request(r MenuRequest) {
	m.requests = append(m.requests, r)
	m.visible = true
}

func (m *fakeMenu) Hide() {
	m.visible = false
	m.hides++
}

func (m *fakeMenu) Visible() bool { return m.visible }

func (m *fakeMenu) Contains(p geom.Point) bool { return m.visible && m.bounds.Contains(p) }
