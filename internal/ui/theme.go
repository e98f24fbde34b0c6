package ui

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"ocrselect/internal/render"
)

type Theme struct {
	AppBackground color.RGBA
	TopBar        color.RGBA
	TopBarText    color.RGBA
	Canvas        color.RGBA
	Border        color.RGBA
	StatusBar     color.RGBA
	StatusText    color.RGBA
	Accent        color.RGBA

	LineBackground color.RGBA
	Text           color.RGBA
	Highlight      color.RGBA
	Handle         color.RGBA
	HandleStroke   color.RGBA
	MenuBackground color.RGBA
	MenuBorder     color.RGBA
	MenuText       color.RGBA
	FabActive      color.RGBA

	TopBarHeightDp    int
	StatusHeightDp    int
	CanvasMarginDp    int
	BarFontSize       float64
	MenuFontSize      float64
	MenuRadius        float64
	HandleStrokeWidth float64
}

func DefaultTheme() Theme {
	accent := mustHex("#2B579A")
	ink := mustHex("#1B1F24")
	paper := mustHex("#FFFFFF")
	return Theme{
		AppBackground: opaque(mustHex("#F3F5F8")),
		TopBar:        opaque(accent),
		TopBarText:    opaque(paper),
		Canvas:        opaque(mustHex("#E2E7EF")),
		Border:        opaque(mustHex("#B2BFD0")),
		StatusBar:     opaque(mustHex("#EAEFF6")),
		StatusText:    opaque(ink),
		Accent:        opaque(accent),

		LineBackground: withAlpha(paper, 0xE6),
		Text:           opaque(ink),
		Highlight:      withAlpha(accent.BlendLab(paper, 0.35), 0x70),
		Handle:         opaque(accent),
		HandleStroke:   opaque(paper),
		MenuBackground: opaque(ink.BlendLab(paper, 0.1)),
		MenuBorder:     withAlpha(ink, 0x60),
		MenuText:       opaque(paper),
		FabActive:      opaque(mustHex("#2E7D32")),

		TopBarHeightDp:    34,
		StatusHeightDp:    28,
		CanvasMarginDp:    16,
		BarFontSize:       16,
		MenuFontSize:      18,
		MenuRadius:        8,
		HandleStrokeWidth: 4,
	}
}

// SelectionStyle maps the theme onto overlay drawing colors.
func (t Theme) SelectionStyle() render.Style {
	return render.Style{
		LineBackground: t.LineBackground,
		Text:           t.Text,
		Highlight:      t.Highlight,
		Handle:         t.Handle,
		HandleStroke:   t.HandleStroke,
		HandleWidth:    t.HandleStrokeWidth,
		MenuBackground: t.MenuBackground,
		MenuBorder:     t.MenuBorder,
		MenuText:       t.MenuText,
		MenuRadius:     t.MenuRadius,
		MenuFontSize:   t.MenuFontSize,
		Fab:            t.Accent,
		FabActive:      t.FabActive,
		FabIcon:        t.TopBarText,
	}
}

func opaque(c colorful.Color) color.RGBA {
	return withAlpha(c, 0xFF)
}

// withAlpha returns c at alpha a, premultiplied.
func withAlpha(c colorful.Color, a uint8) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	pm := func(v uint8) uint8 { return uint8(uint16(v) * uint16(a) / 0xFF) }
	return color.RGBA{R: pm(r), G: pm(g), B: pm(b), A: a}
}

// mustHex parses a palette literal and panics on malformed input.
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
