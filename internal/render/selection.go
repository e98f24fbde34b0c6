package render

import (
	"image/color"

	"golang.org/x/image/font"

	"ocrselect/internal/geom"
	"ocrselect/internal/layout"
)

// FaceSource supplies a font face for a pixel size.
type FaceSource interface {
	Face(size float64) font.Face
}

type Style struct {
	LineBackground color.RGBA
	Text           color.RGBA
	Highlight      color.RGBA
	Handle         color.RGBA
	HandleStroke   color.RGBA
	HandleWidth    float64
	MenuBackground color.RGBA
	MenuBorder     color.RGBA
	MenuText       color.RGBA
	MenuRadius     float64
	MenuFontSize   float64
	Fab            color.RGBA
	FabActive      color.RGBA
	FabIcon        color.RGBA
}

type ButtonView struct {
	Rect  geom.Rect
	Label string
}

type MenuView struct {
	Bounds  geom.Rect
	Buttons []ButtonView
}

type HandleView struct {
	Center geom.Point
	Radius float64
}

type FabView struct {
	Center geom.Point
	Radius float64
	Active bool
	Busy   bool
}

// Scene is everything the overlay draws in one frame.
type Scene struct {
	Lines       []layout.LineBackground
	Words       []layout.Word
	Highlighted func(i int) bool
	Handles     []HandleView
	Menu        *MenuView
	Fab         *FabView
}

type SelectionRenderer struct {
	faces FaceSource
	style Style
}

func NewSelectionRenderer(faces FaceSource, style Style) *SelectionRenderer {
	return &SelectionRenderer{faces: faces, style: style}
}

// Draw paints line backgrounds, words, highlights, handles, the menu and the
// translate button, in that order.
func (r *SelectionRenderer) Draw(fb *FrameBuffer, s Scene) {
	for _, bg := range s.Lines {
		fb.FillRoundRect(bg.Rect, bg.Radius, r.style.LineBackground)
	}
	for _, w := range s.Words {
		fb.DrawText(r.faces.Face(w.FontSize), w.Rect.Left, w.Baseline, w.Text, r.style.Text)
	}
	if s.Highlighted != nil {
		for i, w := range s.Words {
			if s.Highlighted(i) {
				fb.FillGeomRect(w.Full, r.style.Highlight)
			}
		}
	}
	for _, h := range s.Handles {
		fb.FillCircle(h.Center, h.Radius, r.style.Handle)
		fb.StrokeCircle(h.Center, h.Radius, r.style.HandleWidth, r.style.HandleStroke)
	}
	if s.Menu != nil {
		r.drawMenu(fb, *s.Menu)
	}
	if s.Fab != nil {
		r.drawFab(fb, *s.Fab)
	}
}

func (r *SelectionRenderer) drawMenu(fb *FrameBuffer, m MenuView) {
	outer := geom.Rect{Left: m.Bounds.Left - 1, Top: m.Bounds.Top - 1, Right: m.Bounds.Right + 1, Bottom: m.Bounds.Bottom + 1}
	fb.FillRoundRect(outer, r.style.MenuRadius+1, r.style.MenuBorder)
	fb.FillRoundRect(m.Bounds, r.style.MenuRadius, r.style.MenuBackground)
	face := r.faces.Face(r.style.MenuFontSize)
	for _, b := range m.Buttons {
		w := font.MeasureString(face, b.Label)
		x := b.Rect.Center().X - float64(w)/128
		baseline := b.Rect.CenterY() + r.style.MenuFontSize/3
		fb.DrawText(face, x, baseline, b.Label, r.style.MenuText)
	}
}

func (r *SelectionRenderer) drawFab(fb *FrameBuffer, f FabView) {
	bg := r.style.Fab
	if f.Active {
		bg = r.style.FabActive
	}
	if f.Busy {
		bg.A /= 2
		bg.R /= 2
		bg.G /= 2
		bg.B /= 2
	}
	fb.FillCircle(f.Center, f.Radius, bg)
	size := f.Radius
	face := r.faces.Face(size)
	w := font.MeasureString(face, "T")
	fb.DrawText(face, f.Center.X-float64(w)/128, f.Center.Y+size/3, "T", r.style.FabIcon)
}
