// Package selection implements word-granular text selection over a laid-out
// OCR overlay: hit testing, multi-line range resolution and the pointer
// gesture state machine that drives them.
package selection

import (
	"ocrselect/internal/layout"
)

type Role int

const (
	RoleStart Role = iota
	RoleEnd
)

func (r Role) String() string {
	if r == RoleStart {
		return "start"
	}
	return "end"
}

// Selection holds the two anchor words as indices into the current word
// slice. The zero value is the empty selection.
type Selection struct {
	Start  int
	End    int
	Active bool
}

func (s Selection) Empty() bool { return !s.Active }

func (s Selection) Anchor(r Role) int {
	if r == RoleStart {
		return s.Start
	}
	return s.End
}

func (s *Selection) setAnchor(r Role, i int) {
	if r == RoleStart {
		s.Start = i
		return
	}
	s.End = i
}

// compareWords orders words by line, then by horizontal position.
func compareWords(a, b layout.Word) int {
	if a.Line != b.Line {
		if a.Line < b.Line {
			return -1
		}
		return 1
	}
	if a.Rect.Left < b.Rect.Left {
		return -1
	}
	if a.Rect.Left > b.Rect.Left {
		return 1
	}
	return 0
}
