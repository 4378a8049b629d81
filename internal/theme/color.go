package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBA is a parsed CSS color. Channels are 0..1.
type RGBA struct {
	R, G, B, A float64
}

// transparentAlpha is the alpha at or below which a background is treated as
// see-through and the ancestor walk continues.
const transparentAlpha = 0.05

// Transparent reports whether the color lets the parent's background through.
func (c RGBA) Transparent() bool {
	return c.A <= transparentAlpha
}

// Luminance returns the relative luminance of the color: each channel is
// gamma-linearized, then weighted 0.2126/0.7152/0.0722.
func (c RGBA) Luminance() float64 {
	r, g, b := colorful.Color{R: c.R, G: c.G, B: c.B}.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

var namedColors = map[string]RGBA{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 1},
	"white":       {1, 1, 1, 1},
}

// ParseColor parses a computed CSS color value: hex (#rgb, #rgba, #rrggbb,
// #rrggbbaa), rgb()/rgba() and hsl()/hsla(), in either the comma or the
// space-and-slash syntax.
func ParseColor(value string) (RGBA, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return RGBA{}, fmt.Errorf("empty color")
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return RGBA{}, fmt.Errorf("unsupported color %q", value)
	}
	fn := s[:open]
	args := splitArgs(s[open+1 : len(s)-1])

	switch fn {
	case "rgb", "rgba":
		return parseRGB(args, value)
	case "hsl", "hsla":
		return parseHSL(args, value)
	default:
		return RGBA{}, fmt.Errorf("unsupported color function %q", fn)
	}
}

func parseHex(s string) (RGBA, error) {
	digits := s[1:]
	switch len(digits) {
	case 3, 4:
		var b strings.Builder
		for _, r := range digits {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		digits = b.String()
	case 6, 8:
	default:
		return RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	// colorful.Hex scans with %02x, which stops at the first bad digit
	// instead of failing.
	for _, r := range digits {
		if !isHexDigit(r) {
			return RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
	}

	alpha := 1.0
	if len(digits) == 8 {
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		digits = digits[:6]
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGBA{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// splitArgs accepts "1, 2, 3, 0.5", "1 2 3 / 50%" and mixes thereof.
func splitArgs(inner string) []string {
	inner = strings.ReplaceAll(inner, "/", " ")
	inner = strings.ReplaceAll(inner, ",", " ")
	return strings.Fields(inner)
}

func parseRGB(args []string, raw string) (RGBA, error) {
	if len(args) != 3 && len(args) != 4 {
		return RGBA{}, fmt.Errorf("invalid rgb color %q", raw)
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, err := parseChannel(args[i], 255)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid rgb color %q: %w", raw, err)
		}
		ch[i] = v
	}
	alpha, err := parseAlpha(args, 3)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid rgb color %q: %w", raw, err)
	}
	return RGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
}

func parseHSL(args []string, raw string) (RGBA, error) {
	if len(args) != 3 && len(args) != 4 {
		return RGBA{}, fmt.Errorf("invalid hsl color %q", raw)
	}
	hue, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hsl hue %q: %w", raw, err)
	}
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	sat, err := parseChannel(args[1], 100)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hsl saturation %q: %w", raw, err)
	}
	light, err := parseChannel(args[2], 100)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hsl lightness %q: %w", raw, err)
	}
	alpha, err := parseAlpha(args, 3)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hsl color %q: %w", raw, err)
	}

	c := colorful.Hsl(hue, sat, light).Clamped()
	return RGBA{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// parseChannel reads "128" (scaled by full) or "50%" into 0..1.
func parseChannel(s string, full float64) (float64, error) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, err
		}
		return clamp01(v / 100), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return clamp01(v / full), nil
}

func parseAlpha(args []string, idx int) (float64, error) {
	if len(args) <= idx {
		return 1, nil
	}
	return parseChannel(args[idx], 1)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
