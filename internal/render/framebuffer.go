// Package render rasterizes the selection overlay into an RGBA frame buffer
// that the host uploads once per frame.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"ocrselect/internal/geom"
)

// FrameBuffer holds premultiplied RGBA pixels. Drawing blends source-over.
type FrameBuffer struct {
	W      int
	H      int
	Pixels []uint8 // RGBA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FrameBuffer{W: w, H: h, Pixels: make([]uint8, w*h*4)}
}

// Resize reallocates the buffer when the size changes.
func (fb *FrameBuffer) Resize(w, h int) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if w == fb.W && h == fb.H {
		return
	}
	fb.W, fb.H = w, h
	fb.Pixels = make([]uint8, w*h*4)
}

// RGBA views the pixels as an image without copying.
func (fb *FrameBuffer) RGBA() *image.RGBA {
	return &image.RGBA{Pix: fb.Pixels, Stride: fb.W * 4, Rect: image.Rect(0, 0, fb.W, fb.H)}
}

func (fb *FrameBuffer) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return color.RGBA{}
	}
	i := (y*fb.W + x) * 4
	return color.RGBA{fb.Pixels[i], fb.Pixels[i+1], fb.Pixels[i+2], fb.Pixels[i+3]}
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	for i := 0; i < len(fb.Pixels); i += 4 {
		fb.Pixels[i+0] = c.R
		fb.Pixels[i+1] = c.G
		fb.Pixels[i+2] = c.B
		fb.Pixels[i+3] = c.A
	}
}

func (fb *FrameBuffer) blend(x, y int, c color.RGBA, coverage float64) {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H || coverage <= 0 {
		return
	}
	i := (y*fb.W + x) * 4
	if coverage >= 1 && c.A == 0xFF {
		fb.Pixels[i+0] = c.R
		fb.Pixels[i+1] = c.G
		fb.Pixels[i+2] = c.B
		fb.Pixels[i+3] = c.A
		return
	}
	if coverage > 1 {
		coverage = 1
	}
	sa := float64(c.A) / 255 * coverage
	inv := 1 - sa
	fb.Pixels[i+0] = clamp8(float64(c.R)*coverage + float64(fb.Pixels[i+0])*inv)
	fb.Pixels[i+1] = clamp8(float64(c.G)*coverage + float64(fb.Pixels[i+1])*inv)
	fb.Pixels[i+2] = clamp8(float64(c.B)*coverage + float64(fb.Pixels[i+2])*inv)
	fb.Pixels[i+3] = clamp8(sa*255 + float64(fb.Pixels[i+3])*inv)
}

func clamp8(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > fb.W {
		w = fb.W - x
	}
	if y+h > fb.H {
		h = fb.H - y
	}
	if w <= 0 || h <= 0 {
		return
	}
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			fb.blend(x+col, y+row, c, 1)
		}
	}
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	fb.FillRect(x, y, w, line, c)
	fb.FillRect(x, y+h-line, w, line, c)
	fb.FillRect(x, y+line, line, h-2*line, c)
	fb.FillRect(x+w-line, y+line, line, h-2*line, c)
}

// FillGeomRect fills r rounded outward to whole pixels.
func (fb *FrameBuffer) FillGeomRect(r geom.Rect, c color.RGBA) {
	x0, y0 := int(math.Floor(r.Left)), int(math.Floor(r.Top))
	x1, y1 := int(math.Ceil(r.Right)), int(math.Ceil(r.Bottom))
	fb.FillRect(x0, y0, x1-x0, y1-y0, c)
}

// FillRoundRect fills r with corners of the given radius.
func (fb *FrameBuffer) FillRoundRect(r geom.Rect, radius float64, c color.RGBA) {
	if r.Empty() {
		return
	}
	radius = math.Min(radius, math.Min(r.Width(), r.Height())/2)
	if radius <= 0 {
		fb.FillGeomRect(r, c)
		return
	}
	y0, y1 := int(math.Floor(r.Top)), int(math.Ceil(r.Bottom))
	x0, x1 := int(math.Floor(r.Left)), int(math.Ceil(r.Right))
	for y := y0; y < y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x < x1; x++ {
			px := float64(x) + 0.5
			cx := math.Max(r.Left+radius, math.Min(px, r.Right-radius))
			cy := math.Max(r.Top+radius, math.Min(py, r.Bottom-radius))
			d := math.Hypot(px-cx, py-cy)
			fb.blend(x, y, c, radius+0.5-d)
		}
	}
}

func (fb *FrameBuffer) FillCircle(center geom.Point, radius float64, c color.RGBA) {
	fb.ring(center, 0, radius, c)
}

func (fb *FrameBuffer) StrokeCircle(center geom.Point, radius, width float64, c color.RGBA) {
	fb.ring(center, radius-width/2, radius+width/2, c)
}

// ring fills the annulus between inner and outer with a one pixel soft edge.
func (fb *FrameBuffer) ring(center geom.Point, inner, outer float64, c color.RGBA) {
	if outer <= 0 {
		return
	}
	x0, x1 := int(math.Floor(center.X-outer-1)), int(math.Ceil(center.X+outer+1))
	y0, y1 := int(math.Floor(center.Y-outer-1)), int(math.Ceil(center.Y+outer+1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)+0.5-center.X, float64(y)+0.5-center.Y)
			cov := math.Min(outer+0.5-d, 1)
			if inner > 0 {
				cov = math.Min(cov, d-(inner-0.5))
			}
			fb.blend(x, y, c, cov)
		}
	}
}

// DrawImage composites img with its top-left corner at (x, y).
func (fb *FrameBuffer) DrawImage(img image.Image, x, y int) {
	b := img.Bounds()
	dst := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(fb.RGBA(), dst, img, b.Min, draw.Over)
}

// DrawText draws s with its origin at (x, baseline).
func (fb *FrameBuffer) DrawText(face font.Face, x, baseline float64, s string, c color.RGBA) {
	if s == "" {
		return
	}
	d := font.Drawer{
		Dst:  fb.RGBA(),
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(baseline * 64))},
	}
	d.DrawString(s)
}
