package render

import (
	"image"
	"image/color"
	"testing"

	"ocrselect/internal/geom"
	"ocrselect/internal/layout"
)

var (
	white = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	red   = color.RGBA{0xFF, 0, 0, 0xFF}
)

func TestFillRectClipsToBuffer(t *testing.T) {
	fb := NewFrameBuffer(10, 10)
	fb.FillRect(-5, -5, 8, 8, red)
	if fb.At(0, 0) != red || fb.At(2, 2) != red {
		t.Fatalf("expected clipped fill")
	}
	if fb.At(3, 3) != (color.RGBA{}) {
		t.Fatalf("fill leaked past its extent: %v", fb.At(3, 3))
	}
}

func TestFillRectBlendsTranslucentColor(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	fb.Clear(white)
	fb.FillRect(0, 0, 4, 4, color.RGBA{0, 0, 0, 0x80})
	got := fb.At(1, 1)
	if got.R < 126 || got.R > 128 || got.A != 0xFF {
		t.Fatalf("unexpected blend result: %v", got)
	}
}

func TestFillRoundRectLeavesCorners(t *testing.T) {
	fb := NewFrameBuffer(20, 20)
	fb.FillRoundRect(geom.Rect{Left: 0, Top: 0, Right: 20, Bottom: 20}, 6, red)
	if fb.At(0, 0).A != 0 {
		t.Fatalf("corner should stay empty: %v", fb.At(0, 0))
	}
	if fb.At(10, 10) != red || fb.At(10, 0) != red {
		t.Fatalf("body should be filled")
	}
}

func TestCircles(t *testing.T) {
	fb := NewFrameBuffer(100, 100)
	c := geom.Pt(50, 50)
	fb.FillCircle(c, 10, red)
	if fb.At(50, 50) != red {
		t.Fatalf("center should be filled")
	}
	if fb.At(50, 64).A != 0 {
		t.Fatalf("outside should stay empty")
	}

	fb = NewFrameBuffer(100, 100)
	fb.StrokeCircle(c, 20, 4, red)
	if fb.At(50, 50).A != 0 {
		t.Fatalf("stroke must not fill the center")
	}
	if fb.At(50, 70).A == 0 {
		t.Fatalf("stroke should cover the rim")
	}
}

func TestDrawImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	fb := NewFrameBuffer(5, 5)
	fb.DrawImage(src, 3, 3)
	if fb.At(4, 4) != white || fb.At(2, 2).A != 0 {
		t.Fatalf("image should land at its offset")
	}
}

func TestDrawTextMarksPixels(t *testing.T) {
	fb := NewFrameBuffer(200, 60)
	fb.DrawText(layout.NewFontBank().Face(32), 4, 40, "Hello", red)
	painted := 0
	for i := 3; i < len(fb.Pixels); i += 4 {
		if fb.Pixels[i] != 0 {
			painted++
		}
	}
	if painted == 0 {
		t.Fatalf("expected glyph pixels")
	}
}

func TestSelectionRendererHighlightsOnlySelectedWords(t *testing.T) {
	style := Style{Highlight: color.RGBA{0, 0, 0x80, 0x80}, HandleWidth: 4, MenuFontSize: 16}
	words := []layout.Word{
		{Rect: geom.Rect{Left: 0, Top: 0, Right: 40, Bottom: 30}, Full: geom.Rect{Left: 0, Top: 0, Right: 50, Bottom: 30}, FontSize: 24},
		{Rect: geom.Rect{Left: 50, Top: 0, Right: 90, Bottom: 30}, Full: geom.Rect{Left: 50, Top: 0, Right: 100, Bottom: 30}, FontSize: 24},
	}
	fb := NewFrameBuffer(120, 120)
	r := NewSelectionRenderer(layout.NewFontBank(), style)
	r.Draw(fb, Scene{
		Words:       words,
		Highlighted: func(i int) bool { return i == 0 },
		Handles:     []HandleView{{Center: geom.Pt(20, 80), Radius: 10}},
	})
	if fb.At(45, 15).A == 0 {
		t.Fatalf("selected word gap should be highlighted")
	}
	if fb.At(95, 15).A != 0 {
		t.Fatalf("unselected word must not be highlighted")
	}
}

func TestResizeReallocatesOnlyOnChange(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	fb.Clear(red)
	fb.Resize(4, 4)
	if fb.At(1, 1) != red {
		t.Fatalf("same-size resize must keep pixels")
	}
	fb.Resize(8, 2)
	if fb.W != 8 || fb.H != 2 || len(fb.Pixels) != 8*2*4 {
		t.Fatalf("unexpected size: %dx%d (%d bytes)", fb.W, fb.H, len(fb.Pixels))
	}
	if fb.At(1, 1) != (color.RGBA{}) {
		t.Fatalf("resized buffer should start clear")
	}
	fb.Resize(0, -3)
	if fb.W != 1 || fb.H != 1 {
		t.Fatalf("size should floor at 1x1, got %dx%d", fb.W, fb.H)
	}
}
