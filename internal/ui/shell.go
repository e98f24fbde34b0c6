package ui

import (
	"ocrselect/internal/geom"
	"ocrselect/internal/render"
)

type Layout struct {
	TopBarH   int
	StatusH   int
	CanvasY   int
	CanvasH   int
	StatusBar int
	// Canvas is the area the photo is fitted into.
	Canvas geom.Rect
}

func ComputeLayout(w, h int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}

	dp := func(v int) int { return int(float32(v) * scale) }

	topH := dp(theme.TopBarHeightDp)
	statusH := dp(theme.StatusHeightDp)
	margin := dp(theme.CanvasMarginDp)

	canvasY := topH
	canvasH := h - canvasY - statusH
	if canvasH < 0 {
		canvasH = 0
	}

	canvas := geom.Rect{
		Left:   float64(margin),
		Top:    float64(canvasY + margin),
		Right:  float64(w - margin),
		Bottom: float64(canvasY + canvasH - margin),
	}
	if canvas.Empty() {
		canvas = geom.Rect{Left: 0, Top: float64(canvasY), Right: float64(w), Bottom: float64(canvasY + canvasH)}
	}

	return Layout{
		TopBarH:   topH,
		StatusH:   statusH,
		CanvasY:   canvasY,
		CanvasH:   canvasH,
		StatusBar: h - statusH,
		Canvas:    canvas,
	}
}

// DrawShell paints the window chrome around the canvas and returns its
// layout.
func DrawShell(fb *render.FrameBuffer, faces render.FaceSource, title, status string, theme Theme, scale float32) Layout {
	layout := ComputeLayout(fb.W, fb.H, theme, scale)

	fb.Clear(theme.AppBackground)

	fb.FillRect(0, 0, fb.W, layout.TopBarH, theme.TopBar)
	fb.FillRect(0, layout.CanvasY, fb.W, layout.CanvasH, theme.Canvas)
	fb.FillRect(0, layout.StatusBar, fb.W, layout.StatusH, theme.StatusBar)
	fb.StrokeRect(0, layout.StatusBar, fb.W, layout.StatusH, 1, theme.Border)

	size := theme.BarFontSize * float64(scale)
	if scale <= 0 {
		size = theme.BarFontSize
	}
	pad := size / 2
	face := faces.Face(size)
	fb.DrawText(face, pad, float64(layout.TopBarH)/2+size/3, title, theme.TopBarText)
	fb.DrawText(face, pad, float64(layout.StatusBar)+float64(layout.StatusH)/2+size/3, status, theme.StatusText)
	return layout
}
