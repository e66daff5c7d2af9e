package motion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// colorFamily is the CSS syntax a color was written in. Interpolated colors
// are written back in the target endpoint's family.
type colorFamily uint8

const (
	familyHex colorFamily = iota
	familyRGB
	familyHSL
)

// rgba is a parsed CSS color: an sRGB color plus straight alpha in [0, 1].
type rgba struct {
	c      colorful.Color
	a      float64
	family colorFamily
}

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"aqua":    "#00ffff",
	"magenta": "#ff00ff",
	"fuchsia": "#ff00ff",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"maroon":  "#800000",
	"olive":   "#808000",
	"navy":    "#000080",
	"purple":  "#800080",
	"teal":    "#008080",
	"orange":  "#ffa500",
	"pink":    "#ffc0cb",
}

func looksLikeColor(s string) bool {
	l := strings.ToLower(s)
	if strings.HasPrefix(l, "#") || strings.HasPrefix(l, "rgb(") || strings.HasPrefix(l, "rgba(") ||
		strings.HasPrefix(l, "hsl(") || strings.HasPrefix(l, "hsla(") {
		return true
	}
	_, ok := namedColors[l]
	return ok || l == "transparent"
}

// parseColor reads hex (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb()/rgba(),
// hsl()/hsla(), "transparent" and a small set of named colors.
func parseColor(s string) (rgba, error) {
	l := strings.ToLower(strings.TrimSpace(s))
	if l == "transparent" {
		return rgba{c: colorful.Color{}, a: 0, family: familyRGB}, nil
	}
	if hex, ok := namedColors[l]; ok {
		l = hex
	}
	switch {
	case strings.HasPrefix(l, "#"):
		return parseHexColor(l)
	case strings.HasPrefix(l, "rgb"):
		return parseFuncColor(l, familyRGB)
	case strings.HasPrefix(l, "hsl"):
		return parseFuncColor(l, familyHSL)
	}
	return rgba{}, fmt.Errorf("unrecognized color %q", s)
}

// ParseColor parses a CSS color into an sRGB color and straight alpha.
// Hosts use it to paint style values such as backgroundColor.
func ParseColor(s string) (colorful.Color, float64, error) {
	c, err := parseColor(s)
	if err != nil {
		return colorful.Color{}, 0, err
	}
	return c.c, c.a, nil
}

func parseHexColor(l string) (rgba, error) {
	h := l[1:]
	alpha := 1.0
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		b.WriteByte('#')
		for i := 0; i < 3; i++ {
			b.WriteByte(h[i])
			b.WriteByte(h[i])
		}
		if len(h) == 4 {
			a, err := strconv.ParseUint(string([]byte{h[3], h[3]}), 16, 8)
			if err != nil {
				return rgba{}, fmt.Errorf("bad hex alpha in %q: %w", l, err)
			}
			alpha = float64(a) / 255
		}
		h = b.String()[1:]
	case 6:
	case 8:
		a, err := strconv.ParseUint(h[6:], 16, 8)
		if err != nil {
			return rgba{}, fmt.Errorf("bad hex alpha in %q: %w", l, err)
		}
		alpha = float64(a) / 255
		h = h[:6]
	default:
		return rgba{}, fmt.Errorf("bad hex color %q", l)
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return rgba{}, err
	}
	return rgba{c: c, a: alpha, family: familyHex}, nil
}

func parseFuncColor(l string, fam colorFamily) (rgba, error) {
	open := strings.IndexByte(l, '(')
	if open < 0 || !strings.HasSuffix(l, ")") {
		return rgba{}, fmt.Errorf("bad color function %q", l)
	}
	body := l[open+1 : len(l)-1]
	body = strings.NewReplacer("/", " ", ",", " ").Replace(body)
	fields := strings.Fields(body)
	if len(fields) != 3 && len(fields) != 4 {
		return rgba{}, fmt.Errorf("bad color function %q", l)
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		pct := strings.HasSuffix(f, "%")
		f = strings.TrimSuffix(strings.TrimSuffix(f, "%"), "deg")
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return rgba{}, fmt.Errorf("bad color component in %q: %w", l, err)
		}
		if pct {
			switch {
			case i == 3:
				v /= 100
			case fam == familyRGB:
				v = v / 100 * 255
			default:
				v /= 100
			}
		}
		vals[i] = v
	}
	alpha := 1.0
	if len(vals) == 4 {
		alpha = clamp01(vals[3])
	}
	if fam == familyHSL {
		return rgba{c: colorful.Hsl(vals[0], clamp01(vals[1]), clamp01(vals[2])), a: alpha, family: familyHSL}, nil
	}
	return rgba{
		c:      colorful.Color{R: clamp01(vals[0] / 255), G: clamp01(vals[1] / 255), B: clamp01(vals[2] / 255)},
		a:      alpha,
		family: familyRGB,
	}, nil
}

// format writes the color in its family's syntax.
func (c rgba) format() string {
	cl := c.c.Clamped()
	a := clamp01(c.a)
	switch c.family {
	case familyRGB:
		r, g, b := cl.RGB255()
		if a < 1 {
			return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, formatNumber(a))
		}
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	case familyHSL:
		h, s, l := cl.Hsl()
		if math.IsNaN(h) {
			h = 0
		}
		if a < 1 {
			return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)", formatNumber(h), formatNumber(s*100), formatNumber(l*100), formatNumber(a))
		}
		return fmt.Sprintf("hsl(%s, %s%%, %s%%)", formatNumber(h), formatNumber(s*100), formatNumber(l*100))
	}
	if a < 1 {
		return fmt.Sprintf("%s%02x", cl.Hex(), uint8(math.Round(a*255)))
	}
	return cl.Hex()
}

// interpolateColor blends two CSS colors in linear sRGB and writes the result
// in b's syntax family. Unparseable endpoints snap at the midpoint.
func interpolateColor(a, b Value, t float64) Value {
	ca, errA := parseColor(a.Text)
	cb, errB := parseColor(b.Text)
	if errA != nil || errB != nil {
		return snap(a, b, t)
	}
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	out := rgba{
		c:      ca.c.BlendLinearRgb(cb.c, t),
		a:      ca.a + (cb.a-ca.a)*t,
		family: cb.family,
	}
	return Color(out.format())
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
