package geom

import "math"

type Point struct {
	X float64
	Y float64
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle in render space. Right and Bottom are
// inclusive for containment.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Square returns the rectangle of half-size radius centered on c.
func Square(c Point, radius float64) Rect {
	return Rect{Left: c.X - radius, Top: c.Y - radius, Right: c.X + radius, Bottom: c.Y + radius}
}

// Transform maps source-image pixel coordinates onto the render surface.
type Transform struct {
	ScaleX     float64
	ScaleY     float64
	TranslateX float64
	TranslateY float64
}

func Identity() Transform { return Transform{ScaleX: 1, ScaleY: 1} }

func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.ScaleX + t.TranslateX, Y: p.Y*t.ScaleY + t.TranslateY}
}

func (t Transform) ApplyRect(r Rect) Rect {
	a := t.Apply(Point{X: r.Left, Y: r.Top})
	b := t.Apply(Point{X: r.Right, Y: r.Bottom})
	return Rect{Left: math.Min(a.X, b.X), Top: math.Min(a.Y, b.Y), Right: math.Max(a.X, b.X), Bottom: math.Max(a.Y, b.Y)}
}

func (t Transform) Valid() bool {
	return t.ScaleX > 0 && t.ScaleY > 0 && !math.IsInf(t.ScaleX, 0) && !math.IsInf(t.ScaleY, 0)
}

// FitCenter scales a srcW x srcH image uniformly to fit inside dst and
// centers it, the way an image view lays out its drawable.
func FitCenter(srcW, srcH int, dst Rect) Transform {
	if srcW <= 0 || srcH <= 0 || dst.Empty() {
		return Identity()
	}
	s := math.Min(dst.Width()/float64(srcW), dst.Height()/float64(srcH))
	return Transform{
		ScaleX:     s,
		ScaleY:     s,
		TranslateX: dst.Left + (dst.Width()-float64(srcW)*s)/2,
		TranslateY: dst.Top + (dst.Height()-float64(srcH)*s)/2,
	}
}
