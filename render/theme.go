package render

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/hamidzr/recipemenu/core"
)

// MainTheme pins the app to the persisted light or dark variant instead of
// following the OS setting.
type MainTheme struct {
	fyne.Theme
	Dark bool
}

// NewMainTheme wraps the default fyne theme.
func NewMainTheme(dark bool) MainTheme {
	return MainTheme{Theme: theme.DefaultTheme(), Dark: dark}
}

func defaultThemeSizes() map[fyne.ThemeSizeName]float32 {
	sizes := map[fyne.ThemeSizeName]float32{
		theme.SizeNameInlineIcon:         float32(18),
		theme.SizeNameInnerPadding:       float32(6),
		theme.SizeNameLineSpacing:        float32(4),
		theme.SizeNamePadding:            float32(4),
		theme.SizeNameScrollBar:          float32(10),
		theme.SizeNameScrollBarSmall:     float32(2),
		theme.SizeNameSeparatorThickness: float32(1),
		theme.SizeNameText:               float32(15),
		theme.SizeNameHeadingText:        float32(26),
		theme.SizeNameSubHeadingText:     float32(18),
		theme.SizeNameCaptionText:        float32(12),
		theme.SizeNameInputBorder:        float32(2),
		theme.SizeNameInputRadius:        float32(6),
		theme.SizeNameSelectionRadius:    float32(4),
	}
	return sizes
}

func (m MainTheme) Size(name fyne.ThemeSizeName) float32 {
	if size, ok := defaultThemeSizes()[name]; ok {
		return size
	}
	return m.Theme.Size(name)
}

func (m MainTheme) variant() fyne.ThemeVariant {
	if m.Dark {
		return theme.VariantDark
	}
	return theme.VariantLight
}

// Color ignores the requested variant.
func (m MainTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	variant := m.variant()
	dark := variant == theme.VariantDark
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameSelection:
		return color.NRGBA{R: 0xe6, G: 0x7e, B: 0x22, A: 0xff} // paprika
	case theme.ColorNameHyperlink:
		if dark {
			return color.NRGBA{R: 0xf3, G: 0xa6, B: 0x5c, A: 0xff}
		}
		return color.NRGBA{R: 0xb3, G: 0x5a, B: 0x0c, A: 0xff}
	case theme.ColorNameForeground:
		if dark {
			return color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
		}
		return color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	case theme.ColorNameBackground:
		if dark {
			return color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
		}
		return color.NRGBA{R: 0xf8, G: 0xf8, B: 0xf8, A: 0xff}
	case theme.ColorNameInputBackground:
		if dark {
			return color.NRGBA{R: 0x2d, G: 0x2d, B: 0x2d, A: 0xff}
		}
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	case theme.ColorNamePlaceHolder:
		if dark {
			return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
		}
		return color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xff}
	case theme.ColorNameDisabled:
		if dark {
			return color.NRGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}
		}
		return color.NRGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}
	default:
		return m.Theme.Color(name, variant)
	}
}

// cardBackground is the fill behind a recipe card.
func cardBackground(dark, hovered bool) color.Color {
	switch {
	case dark && hovered:
		return color.NRGBA{R: 0x3a, G: 0x3a, B: 0x3a, A: 0xff}
	case dark:
		return color.NRGBA{R: 0x26, G: 0x26, B: 0x26, A: 0xff}
	case hovered:
		return color.NRGBA{R: 0xf1, G: 0xe4, B: 0xd6, A: 0xff}
	default:
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
}

// themeGlyphs maps the toggle icon to text both renderers can show.
var themeGlyphs = map[string]string{
	core.IconSun:  "☀",
	core.IconMoon: "☾",
}

func themeGlyph(icon string) string {
	if glyph, ok := themeGlyphs[icon]; ok {
		return glyph
	}
	return icon
}
