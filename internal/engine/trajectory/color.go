package trajectory

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// DefaultColor is the trace color when none is configured.
var DefaultColor = colornames.Yellow

// DefaultPalette is cycled through for end effectors without a color.
var DefaultPalette = []string{
	"#FFFF00", "#00FFFF", "#FF00FF", "#FF8000",
	"#80FF00", "#00FF80", "#8000FF", "#FF0080",
}

// ParseColor accepts #RGB, #RRGGBB, #AARRGGBB and SVG color names.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		if c, ok := colornames.Map[strings.ToLower(s)]; ok {
			return c, nil
		}
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
	if len(hex) == 8 {
		c.A = uint8(v >> 24)
	}
	return c, nil
}

// Hex formats c as #RRGGBB, or #AARRGGBB when not opaque.
func Hex(c color.RGBA) string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// Float returns the components of c scaled to [0, 1].
func Float(c color.RGBA) [4]float64 {
	return [4]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}

// PickColor returns fallback if it parses, else the palette entry for index.
func PickColor(index int, fallback string) color.RGBA {
	if fallback != "" {
		if c, err := ParseColor(fallback); err == nil {
			return c
		}
	}
	if index < 0 {
		index = -index
	}
	c, _ := ParseColor(DefaultPalette[index%len(DefaultPalette)])
	return c
}
