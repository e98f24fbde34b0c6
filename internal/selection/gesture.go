package selection

import (
	"time"

	"golang.org/x/time/rate"

	"ocrselect/internal/geom"
	"ocrselect/internal/layout"
	"ocrselect/internal/logging"
	"ocrselect/internal/platform"
)

type State int

const (
	StateIdle State = iota
	StateTapPending
	StateHandleDragging
	StateRangeDragging
)

func (s State) String() string {
	switch s {
	case StateTapPending:
		return "tap-pending"
	case StateHandleDragging:
		return "handle-dragging"
	case StateRangeDragging:
		return "range-dragging"
	default:
		return "idle"
	}
}

type Config struct {
	TapTimeout        time.Duration
	RequeryInterval   time.Duration
	DragThreshold     float64
	HandleRadius      float64
	HandleTouchRadius float64
}

func DefaultConfig() Config {
	return Config{
		TapTimeout:        200 * time.Millisecond,
		RequeryInterval:   100 * time.Millisecond,
		DragThreshold:     10,
		HandleRadius:      30,
		HandleTouchRadius: 50,
	}
}

// MenuRequest asks the menu to appear for a finished selection.
type MenuRequest struct {
	Text  string
	Start layout.Word
	End   layout.Word
	Time  time.Time
}

// Menu is the part of the action menu the controller drives.
type Menu interface {
	Request(req MenuRequest)
	Hide()
	Visible() bool
	Contains(p geom.Point) bool
}

// Controller turns pointer events into selection changes.
type Controller struct {
	cfg  Config
	menu Menu
	log  *logging.Logger

	words   []layout.Word
	hit     HitTester
	sel     Selection
	spanned []int
	text    string

	state     State
	dragRole  Role
	live      geom.Point
	pressAt   geom.Point
	pressTime time.Time
	throttle  *rate.Limiter
}

func NewController(cfg Config, menu Menu, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{cfg: cfg, menu: menu, log: log}
}

// SetWords replaces the word set. Indices into the old set are meaningless,
// so any selection is dropped.
func (c *Controller) SetWords(words []layout.Word) {
	c.words = words
	c.hit = NewHitTester(words)
	c.Clear()
}

func (c *Controller) Clear() {
	c.sel = Selection{}
	c.spanned = nil
	c.text = ""
	c.state = StateIdle
	c.menu.Hide()
}

func (c *Controller) Selection() Selection { return c.sel }
func (c *Controller) State() State         { return c.state }
func (c *Controller) SelectedText() string { return c.text }

// Includes reports whether word i is highlighted.
func (c *Controller) Includes(i int) bool {
	if !c.sel.Active {
		return false
	}
	return Includes(c.words, c.sel.Start, c.sel.End, i)
}

// Refresh recomputes the selected text after word contents change.
func (c *Controller) Refresh() {
	if c.sel.Active {
		c.resolve()
	}
}

// HandlesVisible reports whether selection handles should be drawn.
func (c *Controller) HandlesVisible() bool {
	return c.sel.Active && (c.state == StateIdle || c.state == StateHandleDragging)
}

// HandlePosition is the center of the handle knob for role. While that
// handle is being dragged it follows the pointer.
func (c *Controller) HandlePosition(r Role) geom.Point {
	if c.state == StateHandleDragging && c.dragRole == r {
		return c.live
	}
	w := c.words[c.sel.Anchor(r)]
	if r == RoleStart {
		return geom.Pt(w.Rect.Left, w.Rect.Bottom+c.cfg.HandleRadius)
	}
	return geom.Pt(w.Rect.Right, w.Rect.Bottom+c.cfg.HandleRadius)
}

func (c *Controller) HandleTouchBounds(r Role) geom.Rect {
	return geom.Square(c.HandlePosition(r), c.cfg.HandleTouchRadius)
}

// HandleEvent feeds one pointer event through the state machine and reports
// whether it was consumed.
func (c *Controller) HandleEvent(ev platform.PointerEvent) bool {
	p := ev.Point()
	switch ev.Action {
	case platform.PointerDown:
		return c.down(p, ev.Time)
	case platform.PointerMove:
		return c.move(p, ev.Time)
	case platform.PointerUp:
		return c.release(p, ev.Time, true)
	case platform.PointerCancel:
		return c.release(p, ev.Time, false)
	}
	return false
}

func (c *Controller) down(p geom.Point, now time.Time) bool {
	if c.state != StateIdle {
		return true
	}
	if c.sel.Active {
		for _, r := range []Role{RoleStart, RoleEnd} {
			if c.HandleTouchBounds(r).Contains(p) {
				c.menu.Hide()
				c.state = StateHandleDragging
				c.dragRole = r
				c.live = p
				c.throttle = rate.NewLimiter(rate.Every(c.cfg.RequeryInterval), 1)
				c.log.Debug("handle drag", "role", r)
				return true
			}
		}
	}
	if c.menu.Visible() {
		if !c.inSelection(p) && !c.menu.Contains(p) {
			c.Clear()
		}
		return true
	}

	i, ok := c.hit.TightHit(p)
	if !ok {
		return false
	}
	c.menu.Hide()
	c.state = StateTapPending
	c.pressAt = p
	c.pressTime = now
	c.sel = Selection{Start: i, End: i, Active: true}
	c.resolve()
	return true
}

func (c *Controller) move(p geom.Point, now time.Time) bool {
	switch c.state {
	case StateHandleDragging:
		c.live = p
		if c.throttle.AllowN(now, 1) {
			c.snapHandle(p)
		}
		return true
	case StateTapPending:
		if p.Dist(c.pressAt) > c.cfg.DragThreshold {
			c.state = StateRangeDragging
			c.extend(p)
		}
		return true
	case StateRangeDragging:
		c.extend(p)
		return true
	}
	return c.menu.Visible()
}

func (c *Controller) release(p geom.Point, now time.Time, commit bool) bool {
	switch c.state {
	case StateIdle:
		return c.menu.Visible()
	case StateTapPending:
		if commit && now.Sub(c.pressTime) >= c.cfg.TapTimeout {
			c.extend(p)
		}
	case StateHandleDragging:
		if commit {
			c.snapHandle(p)
		}
	case StateRangeDragging:
		if commit {
			c.extend(p)
		}
	}
	c.state = StateIdle
	c.normalize()

	if c.text == "" {
		c.Clear()
		return true
	}
	c.menu.Request(MenuRequest{
		Text:  c.text,
		Start: c.words[c.sel.Start],
		End:   c.words[c.sel.End],
		Time:  now,
	})
	return true
}

// snapHandle moves the dragged anchor to the nearest word unless that would
// cross the opposite anchor.
func (c *Controller) snapHandle(p geom.Point) {
	cur := c.sel.Anchor(c.dragRole)
	cand, ok := c.hit.NearestForHandle(p, cur)
	if !ok || cand == cur {
		return
	}
	if !c.orderAllowed(c.dragRole, cand) {
		return
	}
	c.sel.setAnchor(c.dragRole, cand)
	c.resolve()
}

func (c *Controller) orderAllowed(r Role, cand int) bool {
	if r == RoleStart {
		return compareWords(c.words[cand], c.words[c.sel.End]) <= 0
	}
	return compareWords(c.words[cand], c.words[c.sel.Start]) >= 0
}

// extend moves the end anchor during a range drag. Either direction is
// allowed; anchors are put back in order on release.
func (c *Controller) extend(p geom.Point) {
	cand, ok := c.hit.NearestForHandle(p, c.sel.End)
	if !ok || cand == c.sel.End {
		return
	}
	c.sel.End = cand
	c.resolve()
}

func (c *Controller) normalize() {
	if !c.sel.Active {
		return
	}
	if compareWords(c.words[c.sel.Start], c.words[c.sel.End]) > 0 {
		c.sel.Start, c.sel.End = c.sel.End, c.sel.Start
	}
}

func (c *Controller) resolve() {
	c.spanned, c.text = Resolve(c.words, c.sel.Start, c.sel.End)
}

func (c *Controller) inSelection(p geom.Point) bool {
	for _, i := range c.spanned {
		if c.words[i].Full.Contains(p) {
			return true
		}
	}
	return false
}
