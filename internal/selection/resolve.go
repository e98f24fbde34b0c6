package selection

import (
	"math"
	"sort"
	"strings"

	"ocrselect/internal/layout"
)

// span is a resolved pair of anchors in reading order.
type span struct {
	first layout.Word
	last  layout.Word
	same  bool
}

func newSpan(words []layout.Word, a, b int) span {
	wa, wb := words[a], words[b]
	if compareWords(wa, wb) > 0 {
		wa, wb = wb, wa
	}
	return span{first: wa, last: wb, same: a == b}
}

// contains reports whether w lies between the anchors. Words within one
// font size of an anchor's top count as that anchor's line: the first line
// is clipped to start at the first anchor, the last line to end at the last
// anchor, and every line strictly between is included whole.
func (s span) contains(w layout.Word) bool {
	if s.same {
		return w.Index == s.first.Index
	}
	onFirst := math.Abs(w.Rect.Top-s.first.Rect.Top) < s.first.FontSize
	onLast := math.Abs(w.Rect.Top-s.last.Rect.Top) < s.last.FontSize
	switch {
	case onFirst && onLast:
		return w.Rect.Left >= s.first.Rect.Left && w.Rect.Right <= s.last.Rect.Right
	case onFirst:
		return w.Rect.Left >= s.first.Rect.Left
	case onLast:
		return w.Rect.Right <= s.last.Rect.Right
	default:
		return s.first.Rect.Top < w.Rect.Top && w.Rect.Top < s.last.Rect.Top
	}
}

// Includes reports whether words[i] is part of the selection anchored at a
// and b. It is the per-word predicate used for highlighting.
func Includes(words []layout.Word, a, b, i int) bool {
	if !validIndex(words, a) || !validIndex(words, b) || !validIndex(words, i) {
		return false
	}
	return newSpan(words, a, b).contains(words[i])
}

// Resolve returns the indices of the words spanned by anchors a and b, in
// layout order, together with the reconstructed text. The result does not
// depend on which anchor is passed first.
func Resolve(words []layout.Word, a, b int) ([]int, string) {
	if !validIndex(words, a) || !validIndex(words, b) {
		return nil, ""
	}
	if a == b {
		return []int{a}, strings.TrimSpace(words[a].Text)
	}
	s := newSpan(words, a, b)
	var out []int
	for i, w := range words {
		if s.contains(w) {
			out = append(out, i)
		}
	}
	return out, Reconstruct(words, out)
}

// Reconstruct joins the given words into text: a single space between words
// of one line and a newline whenever the top moves by more than half a font
// size.
func Reconstruct(words []layout.Word, indices []int) string {
	sel := make([]layout.Word, 0, len(indices))
	for _, i := range indices {
		if validIndex(words, i) {
			sel = append(sel, words[i])
		}
	}
	sort.SliceStable(sel, func(i, j int) bool {
		wi, wj := sel[i], sel[j]
		if math.Abs(wi.Rect.Top-wj.Rect.Top) > math.Max(wi.FontSize, wj.FontSize)/2 {
			return wi.Rect.Top < wj.Rect.Top
		}
		return wi.Rect.Left < wj.Rect.Left
	})

	var out strings.Builder
	var line []string
	lastTop := 0.0
	for i, w := range sel {
		if i > 0 && math.Abs(w.Rect.Top-lastTop) > w.FontSize/2 {
			out.WriteString(strings.TrimSpace(strings.Join(line, " ")))
			out.WriteByte('\n')
			line = line[:0]
		}
		line = append(line, w.Text)
		lastTop = w.Rect.Top
	}
	out.WriteString(strings.TrimSpace(strings.Join(line, " ")))
	return strings.TrimRightFunc(out.String(), isSpace)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

func validIndex(words []layout.Word, i int) bool {
	return i >= 0 && i < len(words)
}
