package platform

import (
	"time"

	"ocrselect/internal/geom"
)

type PointerAction int

const (
	PointerUnknown PointerAction = iota
	PointerDown
	PointerMove
	PointerUp
	PointerCancel
)

func (a PointerAction) String() string {
	switch a {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// PointerEvent is a single-pointer input sample in render-surface
// coordinates.
type PointerEvent struct {
	Action PointerAction
	X      float64
	Y      float64
	Time   time.Time
}

func (e PointerEvent) Point() geom.Point { return geom.Pt(e.X, e.Y) }

// Down, Move, Up and Cancel build events at t.
func Down(x, y float64, t time.Time) PointerEvent {
	return PointerEvent{Action: PointerDown, X: x, Y: y, Time: t}
}

func Move(x, y float64, t time.Time) PointerEvent {
	return PointerEvent{Action: PointerMove, X: x, Y: y, Time: t}
}

func Up(x, y float64, t time.Time) PointerEvent {
	return PointerEvent{Action: PointerUp, X: x, Y: y, Time: t}
}

func Cancel(x, y float64, t time.Time) PointerEvent {
	return PointerEvent{Action: PointerCancel, X: x, Y: y, Time: t}
}

type Clipboard interface {
	WriteText(s string) error
}

// Notifier surfaces messages to the user. Notify is for short transient
// status; Alert is for results and failures the user should acknowledge.
type Notifier interface {
	Notify(msg string)
	Alert(title, msg string)
}
