package selection

import (
	"reflect"
	"strings"
	"testing"

	"ocrselect/internal/geom"
)

func TestResolveSingleWord(t *testing.T) {
	words := layoutLines("Hello world", "Foo bar baz", "last line")
	for i, w := range words {
		got, text := Resolve(words, i, i)
		if len(got) != 1 || got[0] != i {
			t.Fatalf("word %d: unexpected span %v", i, got)
		}
		if text != w.Text {
			t.Fatalf("word %d: unexpected text %q", i, text)
		}
	}
}

func TestResolveIsDirectionSymmetric(t *testing.T) {
	words := layoutLines("Hello world", "Foo bar baz", "last line")
	for a := range words {
		for b := range words {
			ab, textAB := Resolve(words, a, b)
			ba, textBA := Resolve(words, b, a)
			if !reflect.DeepEqual(ab, ba) {
				t.Fatalf("(%d,%d): %v vs %v", a, b, ab, ba)
			}
			if textAB != textBA {
				t.Fatalf("(%d,%d): %q vs %q", a, b, textAB, textBA)
			}
			for i := range words {
				if Includes(words, a, b, i) != Includes(words, b, a, i) {
					t.Fatalf("(%d,%d): membership of %d differs", a, b, i)
				}
			}
		}
	}
}

func TestResolveClipsFirstAndLastLines(t *testing.T) {
	words := layoutLines("Hello world", "Foo bar baz", "last line")

	got, text := Resolve(words, 3, 1)
	if want := []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected span: %v", got)
	}
	if text != "world\nFoo bar" {
		t.Fatalf("unexpected text: %q", text)
	}

	_, text = Resolve(words, 1, 5)
	if text != "world\nFoo bar baz\nlast" {
		t.Fatalf("interior line should be included whole: %q", text)
	}
}

func TestResolveWithinOneLineStopsAtAnchors(t *testing.T) {
	words := layoutLines("Foo bar baz qux")
	_, text := Resolve(words, 2, 1)
	if text != "bar baz" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestResolveLineRoundTrip(t *testing.T) {
	lines := []string{"INVOICE TOTAL 39.17", "Thank you for your business", "x"}
	words := layoutLines(lines...)
	first := 0
	for li, line := range lines {
		n := len(strings.Fields(line))
		_, text := Resolve(words, first, first+n-1)
		if text != line {
			t.Fatalf("line %d: got %q want %q", li, text, line)
		}
		first += n
	}
}

func TestResolveTwoFullLines(t *testing.T) {
	words := layoutLines("Hello world", "Foo bar")
	_, text := Resolve(words, 0, 3)
	if text != "Hello world\nFoo bar" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestResolveInvalidAnchors(t *testing.T) {
	words := layoutLines("Hello world")
	if got, text := Resolve(words, -1, 1); got != nil || text != "" {
		t.Fatalf("expected empty result, got %v %q", got, text)
	}
	if Includes(words, 0, 9, 0) {
		t.Fatalf("out of range anchor must not include anything")
	}
}

func TestTightHit(t *testing.T) {
	words := layoutLines("Hello world")
	h := NewHitTester(words)
	if i, ok := h.TightHit(center(words[1])); !ok || i != 1 {
		t.Fatalf("expected word 1, got %d %v", i, ok)
	}
	gap := geom.Pt((words[0].Rect.Right+words[1].Rect.Left)/2, words[0].Rect.CenterY())
	if _, ok := h.TightHit(gap); ok {
		t.Fatalf("inter-word gap should not hit")
	}
}

func TestNearestForHandleAlwaysFindsWord(t *testing.T) {
	words := layoutLines("Hello world", "Foo bar baz")
	h := NewHitTester(words)
	for _, p := range []geom.Point{{X: -1000, Y: -1000}, {X: 5000, Y: 40}, {X: 300, Y: 9000}} {
		if _, ok := h.NearestForHandle(p, -1); !ok {
			t.Fatalf("no word for %+v", p)
		}
	}
	if _, ok := NewHitTester(nil).NearestForHandle(geom.Pt(0, 0), -1); ok {
		t.Fatalf("empty layout should report no word")
	}
}

func TestNearestForHandlePrefersAnchoredLine(t *testing.T) {
	words := layoutLines("Hello world", "Foo bar baz")
	h := NewHitTester(words)
	p := geom.Pt(45, 75)

	if i, _ := h.NearestForHandle(p, -1); i != 2 {
		t.Fatalf("without bias expected Foo, got %d", i)
	}
	if i, _ := h.NearestForHandle(p, 0); i != 0 {
		t.Fatalf("with bias expected Hello, got %d", i)
	}
}

func TestNearestForHandleTieKeepsFirst(t *testing.T) {
	words := layoutLines("ab ab")
	mid := geom.Pt((center(words[0]).X+center(words[1]).X)/2, center(words[0]).Y)
	if i, _ := NewHitTester(words).NearestForHandle(mid, -1); i != 0 {
		t.Fatalf("expected first word on tie, got %d", i)
	}
}
