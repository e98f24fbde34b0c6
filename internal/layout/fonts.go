package layout

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Measurer reports the advance width of s at the given pixel size.
type Measurer interface {
	MeasureString(size float64, s string) float64
}

// FontBank caches opentype faces by pixel size. It is not safe for
// concurrent use; the UI thread owns it.
type FontBank struct {
	regular *opentype.Font
	cache   map[int]font.Face
}

func NewFontBank() *FontBank {
	bank := &FontBank{cache: map[int]font.Face{}}
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return bank
	}
	bank.regular = reg
	return bank
}

// Face returns a cached face for size, falling back to the fixed 7x13
// bitmap face if the vector font is unavailable.
func (b *FontBank) Face(size float64) font.Face {
	key := int(math.Round(size * 10))
	if f, ok := b.cache[key]; ok {
		return f
	}
	if b.regular == nil || size <= 0 {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(b.regular, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return basicfont.Face7x13
	}
	b.cache[key] = face
	return face
}

func (b *FontBank) MeasureString(size float64, s string) float64 {
	if s == "" {
		return 0
	}
	adv := font.MeasureString(b.Face(size), s)
	return float64(adv) / 64
}
