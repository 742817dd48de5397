// Package contrast computes WCAG 2.x relative luminance and contrast ratios.
package contrast

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for color syntax the calculator does not support
// (rgba(), hsl(), named colors, malformed hex). Callers skip the check.
var ErrInvalidColor = errors.New("invalid or unsupported color")

// Required ratios for WCAG AA.
const (
	RatioNormalText = 4.5
	RatioLargeText  = 3.0
)

// darkenFactor is applied to every channel by SuggestFix.
const darkenFactor = 0.8

var rgbPattern = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)

// RGB is an opaque sRGB color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorPair is one foreground/background combination to check.
type ColorPair struct {
	Foreground string
	Background string
	Context    string // e.g. "text on background"
}

// TextStyle carries caller-supplied font metadata; color alone never implies large text.
type TextStyle struct {
	SizePt float64
	Bold   bool
}

// IsLargeText reports whether the style qualifies for the WCAG large-text carve-out:
// at least 18pt, or at least 14pt and bold.
func (s TextStyle) IsLargeText() bool {
	return s.SizePt >= 18 || (s.SizePt >= 14 && s.Bold)
}

// RequiredRatio returns the minimum AA ratio for the given text style.
func RequiredRatio(style TextStyle) float64 {
	if style.IsLargeText() {
		return RatioLargeText
	}
	return RatioNormalText
}

// Result is the outcome of one contrast check.
type Result struct {
	Ratio         float64 `json:"ratio"`
	RequiredRatio float64 `json:"requiredRatio"`
	Passes        bool    `json:"passes"`
	IsLargeText   bool    `json:"isLargeText"`
}

// ParseColor parses #rrggbb, #rgb or rgb(r, g, b).
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	}

	if m := rgbPattern.FindStringSubmatch(s); m != nil {
		var ch [3]uint8
		for i := range ch {
			n, err := strconv.Atoi(m[i+1])
			if err != nil || n > 255 {
				return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			ch[i] = uint8(n)
		}
		return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
	}

	return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// Luminance returns the relative luminance of c in [0, 1].
func Luminance(c RGB) float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

// LuminanceHex parses s and returns its relative luminance.
func LuminanceHex(s string) (float64, error) {
	c, err := ParseColor(s)
	if err != nil {
		return 0, err
	}
	return Luminance(c), nil
}

func linearize(v uint8) float64 {
	c := float64(v) / 255
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// Ratio returns the contrast ratio between two colors. It is symmetric and >= 1.
func Ratio(a, b RGB) float64 {
	l1, l2 := Luminance(a), Luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// RatioHex parses both colors and returns their contrast ratio.
func RatioHex(a, b string) (float64, error) {
	ca, err := ParseColor(a)
	if err != nil {
		return 0, err
	}
	cb, err := ParseColor(b)
	if err != nil {
		return 0, err
	}
	return Ratio(ca, cb), nil
}

// Check evaluates a color pair against the ratio required for style.
func Check(pair ColorPair, style TextStyle) (Result, error) {
	ratio, err := RatioHex(pair.Foreground, pair.Background)
	if err != nil {
		return Result{}, err
	}
	required := RequiredRatio(style)
	return Result{
		Ratio:         ratio,
		RequiredRatio: required,
		Passes:        ratio >= required,
		IsLargeText:   style.IsLargeText(),
	}, nil
}

// Fix is a heuristic suggestion produced by SuggestFix.
type Fix struct {
	Original    string  `json:"original"`
	Suggested   string  `json:"suggested"`
	Ratio       float64 `json:"ratio"`
	Improved    bool    `json:"improved"`
	MeetsTarget bool    `json:"meetsTarget"`
}

// SuggestFix darkens the foreground by a fixed factor per channel and reports the
// resulting ratio. When MeetsTarget is false the color needs manual adjustment.
func SuggestFix(fg, bg string, target float64) (Fix, error) {
	f, err := ParseColor(fg)
	if err != nil {
		return Fix{}, err
	}
	b, err := ParseColor(bg)
	if err != nil {
		return Fix{}, err
	}

	darker := RGB{
		R: uint8(math.Round(float64(f.R) * darkenFactor)),
		G: uint8(math.Round(float64(f.G) * darkenFactor)),
		B: uint8(math.Round(float64(f.B) * darkenFactor)),
	}
	before := Ratio(f, b)
	after := Ratio(darker, b)

	return Fix{
		Original:    f.Hex(),
		Suggested:   darker.Hex(),
		Ratio:       Round2(after),
		Improved:    after > before,
		MeetsTarget: after >= target,
	}, nil
}

// Round2 rounds to two decimals for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Describe runs Check and formats the outcome as a short human-readable report,
// with a SuggestFix line when the pair fails. The Result is returned alongside.
func Describe(pair ColorPair, style TextStyle) (string, Result, error) {
	res, err := Check(pair, style)
	if err != nil {
		return "", Result{}, err
	}

	var sb strings.Builder
	status := "PASS"
	if !res.Passes {
		status = "FAIL"
	}
	fmt.Fprintf(&sb, "%s on %s: %.2f:1 (required %.1f:1, %s)\n",
		pair.Foreground, pair.Background, Round2(res.Ratio), res.RequiredRatio, status)
	if res.IsLargeText {
		sb.WriteString("Large text: the 3:1 threshold applies.\n")
	}
	if !res.Passes {
		if fix, err := SuggestFix(pair.Foreground, pair.Background, res.RequiredRatio); err == nil {
			fmt.Fprintf(&sb, "Suggested foreground: %s (%.2f:1)", fix.Suggested, fix.Ratio)
			if !fix.MeetsTarget {
				sb.WriteString(", still below target; adjust manually")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String(), res, nil
}
