package selection

import (
	"math"

	"ocrselect/internal/geom"
	"ocrselect/internal/layout"
)

const (
	anchoredLineWeight = 0.3
	touchLineWeight    = 0.7
)

type HitTester struct {
	words []layout.Word
}

func NewHitTester(words []layout.Word) HitTester {
	return HitTester{words: words}
}

// TightHit returns the first word whose glyph rectangle contains p.
func (h HitTester) TightHit(p geom.Point) (int, bool) {
	for i, w := range h.words {
		if w.Rect.Contains(p) {
			return i, true
		}
	}
	return -1, false
}

// NearestForHandle returns the word whose center is closest to p under a
// line-biased metric: candidates on the line of anchor (the word the
// dragged handle currently sits on) weigh 0.3, candidates on the touch line
// weigh 0.7. Pass anchor < 0 to disable the anchored-line bias. Ties keep
// the earliest word in layout order.
func (h HitTester) NearestForHandle(p geom.Point, anchor int) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	hasAnchor := anchor >= 0 && anchor < len(h.words)
	for i, w := range h.words {
		d := p.Dist(w.Rect.Center())
		cy := w.Rect.CenterY()
		switch {
		case hasAnchor && math.Abs(cy-h.words[anchor].Rect.CenterY()) < w.FontSize:
			d *= anchoredLineWeight
		case math.Abs(cy-p.Y) < w.FontSize:
			d *= touchLineWeight
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, best >= 0
}
