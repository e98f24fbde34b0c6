// Package menu positions and shows the floating action menu for a finished
// selection.
package menu

import (
	"math"
	"time"

	"ocrselect/internal/geom"
	"ocrselect/internal/logging"
	"ocrselect/internal/selection"
)

type Action int

const (
	ActionCopy Action = iota
	ActionTranslate
	ActionShare
)

func (a Action) Label() string {
	switch a {
	case ActionCopy:
		return "Copy"
	case ActionTranslate:
		return "Translate"
	case ActionShare:
		return "Share"
	}
	return ""
}

type Options struct {
	OffsetAbove  float64
	ShowDelay    time.Duration
	ButtonWidth  float64
	ButtonHeight float64
	Padding      float64
	Actions      []Action
}

func DefaultOptions() Options {
	return Options{
		OffsetAbove:  150,
		ShowDelay:    100 * time.Millisecond,
		ButtonWidth:  120,
		ButtonHeight: 48,
		Padding:      8,
		Actions:      []Action{ActionCopy, ActionTranslate, ActionShare},
	}
}

type Button struct {
	Action Action
	Rect   geom.Rect
}

// Presenter implements selection.Menu. A request that arrives while the
// surface has no input focus is held back and shown a short delay after
// focus returns.
type Presenter struct {
	opts Options
	log  *logging.Logger

	surface geom.Rect
	focused bool

	visible bool
	req     selection.MenuRequest
	bounds  geom.Rect
	buttons []Button

	pending   *selection.MenuRequest
	scheduled bool
	dueAt     time.Time
}

func NewPresenter(opts Options, log *logging.Logger) *Presenter {
	if log == nil {
		log = logging.Nop()
	}
	if len(opts.Actions) == 0 {
		opts.Actions = DefaultOptions().Actions
	}
	return &Presenter{opts: opts, log: log, focused: true}
}

// SetSurface bounds menu placement. An empty rect disables clamping.
func (p *Presenter) SetSurface(r geom.Rect) { p.surface = r }

func (p *Presenter) Request(req selection.MenuRequest) {
	if !p.focused {
		p.visible = false
		p.pending = &req
		p.scheduled = false
		p.log.Debug("menu deferred until focus returns")
		return
	}
	p.show(req)
}

func (p *Presenter) OnFocusChanged(focused bool, now time.Time) {
	p.focused = focused
	if focused && p.pending != nil {
		p.scheduled = true
		p.dueAt = now.Add(p.opts.ShowDelay)
	}
}

// Tick shows a deferred request once its delay has elapsed.
func (p *Presenter) Tick(now time.Time) {
	if !p.scheduled || !p.focused || now.Before(p.dueAt) {
		return
	}
	req := *p.pending
	p.pending = nil
	p.scheduled = false
	p.show(req)
}

func (p *Presenter) Hide() {
	p.visible = false
	p.pending = nil
	p.scheduled = false
}

// Visible reports whether the menu is shown or waiting to be shown.
func (p *Presenter) Visible() bool { return p.visible || p.pending != nil }

func (p *Presenter) Shown() bool { return p.visible }

func (p *Presenter) Contains(pt geom.Point) bool {
	return p.visible && p.bounds.Contains(pt)
}

func (p *Presenter) Bounds() geom.Rect { return p.bounds }

func (p *Presenter) Buttons() []Button { return p.buttons }

func (p *Presenter) ActionAt(pt geom.Point) (Action, bool) {
	if !p.visible {
		return 0, false
	}
	for _, b := range p.buttons {
		if b.Rect.Contains(pt) {
			return b.Action, true
		}
	}
	return 0, false
}

func (p *Presenter) show(req selection.MenuRequest) {
	p.req = req
	p.bounds = p.place(req)
	p.buttons = p.buttons[:0]
	x := p.bounds.Left + p.opts.Padding
	y := p.bounds.Top + p.opts.Padding
	for _, a := range p.opts.Actions {
		p.buttons = append(p.buttons, Button{
			Action: a,
			Rect:   geom.Rect{Left: x, Top: y, Right: x + p.opts.ButtonWidth, Bottom: y + p.opts.ButtonHeight},
		})
		x += p.opts.ButtonWidth + p.opts.Padding
	}
	p.visible = true
}

// place centers the menu between the anchors, a fixed distance above the
// higher one, then keeps it on the surface.
func (p *Presenter) place(req selection.MenuRequest) geom.Rect {
	n := float64(len(p.opts.Actions))
	w := n*p.opts.ButtonWidth + (n+1)*p.opts.Padding
	h := p.opts.ButtonHeight + 2*p.opts.Padding

	cx := (req.Start.Rect.Left + req.End.Rect.Right) / 2
	top := math.Min(req.Start.Rect.Top, req.End.Rect.Top) - p.opts.OffsetAbove
	r := geom.Rect{Left: cx - w/2, Top: top, Right: cx + w/2, Bottom: top + h}
	if p.surface.Empty() {
		return r
	}
	dx, dy := 0.0, 0.0
	if r.Right > p.surface.Right {
		dx = p.surface.Right - r.Right
	}
	if r.Left+dx < p.surface.Left {
		dx = p.surface.Left - r.Left
	}
	if r.Bottom > p.surface.Bottom {
		dy = p.surface.Bottom - r.Bottom
	}
	if r.Top+dy < p.surface.Top {
		dy = p.surface.Top - r.Top
	}
	return r.Offset(dx, dy)
}
