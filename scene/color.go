package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor accepts #RGB, #RRGGBB, #RRGGBBAA, rgb(...), rgba(...), hsl(...)
// and CSS color names.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("scene: empty color")
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "rgba(") || strings.HasPrefix(lower, "rgb("):
		return parseRGB(lower)
	case strings.HasPrefix(lower, "hsla(") || strings.HasPrefix(lower, "hsl("):
		return parseHSL(lower)
	}
	if c, ok := colornames.Map[lower]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("scene: invalid color %q", s)
}

// MustColor parses s and falls back to fallback when s is not a color.
func MustColor(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

func parseHex(value string) (color.NRGBA, error) {
	s := strings.TrimPrefix(value, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("scene: invalid color format: %s", value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.NRGBA{}, err
		}
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

func functionArgs(s string) ([]string, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("scene: invalid color %q", s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func parseRGB(s string) (color.NRGBA, error) {
	parts, err := functionArgs(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("scene: invalid color %q", s)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("scene: invalid color %q: %w", s, err)
		}
		ch[i] = clampByte(v)
	}
	a := uint8(255)
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("scene: invalid color %q: %w", s, err)
		}
		a = clampByte(v * 255)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: a}, nil
}

func parseHSL(s string) (color.NRGBA, error) {
	parts, err := functionArgs(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("scene: invalid color %q", s)
	}
	var v [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(strings.TrimSuffix(parts[i], "%"), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("scene: invalid color %q: %w", s, err)
		}
		v[i] = f
	}
	a := 1.0
	if len(parts) == 4 {
		f, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("scene: invalid color %q: %w", s, err)
		}
		a = f
	}
	r, g, b := hslToRGB(v[0], v[1]/100, v[2]/100)
	return color.NRGBA{R: clampByte(r * 255), G: clampByte(g * 255), B: clampByte(b * 255), A: clampByte(a * 255)}, nil
}

// HSL builds a color from hue in degrees and saturation/lightness in [0,1].
func HSL(h, s, l float64) color.NRGBA {
	r, g, b := hslToRGB(h, s, l)
	return color.NRGBA{R: clampByte(r * 255), G: clampByte(g * 255), B: clampByte(b * 255), A: 255}
}

func hslToRGB(h, s, l float64) (float64, float64, float64) {
	h = h - 360*float64(int(h/360))
	if h < 0 {
		h += 360
	}
	c := (1 - abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - abs(mod2(hp)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g = c, x
	case hp < 2:
		r, g = x, c
	case hp < 3:
		g, b = c, x
	case hp < 4:
		g, b = x, c
	case hp < 5:
		r, b = x, c
	default:
		r, b = c, x
	}
	m := l - c/2
	return r + m, g + m, b + m
}

func mod2(v float64) float64 {
	return v - 2*float64(int(v/2))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
