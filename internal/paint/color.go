package paint

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a paint color with 8-bit channels.
type Color struct {
	R, G, B uint8
}

// Fallback is returned for any color spec that cannot be parsed.
var Fallback = Color{R: 17, G: 17, B: 17}

// ParseColor reads "#rgb", "#rrggbb", "rgb" or "rrggbb". Anything else
// yields Fallback, so callers never handle a parse error.
func ParseColor(spec string) Color {
	hex := strings.TrimPrefix(strings.TrimSpace(spec), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return Fallback
	}
	for _, r := range hex {
		if !isHexDigit(r) {
			return Fallback
		}
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Fallback
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// NRGBA returns the color with the given opacity in [0,1].
func (c Color) NRGBA(alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp(alpha, 0, 1)*255 + 0.5)}
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}
