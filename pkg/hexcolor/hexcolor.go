// Package hexcolor validates and parses #RRGGBB color strings, including the
// partial values an input field holds while the user is still typing.
package hexcolor

import (
	"fmt"
	"strings"
)

// CompleteLen is the length of a full color string: '#' plus six hex digits.
const CompleteLen = 7

// Normalize prefixes the value with '#' when it is missing. Empty input stays
// empty so a cleared field does not turn into a lone '#'.
func Normalize(v string) string {
	if v == "" || strings.HasPrefix(v, "#") {
		return v
	}
	return "#" + v
}

// ValidPartial reports whether v is an acceptable in-progress value: an
// optional '#' followed by zero to six hex digits. The empty string is valid.
func ValidPartial(v string) bool {
	s := strings.TrimPrefix(v, "#")
	if len(s) > 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

// Complete reports whether v is a full color: '#' plus exactly six hex digits.
func Complete(v string) bool {
	return len(v) == CompleteLen && v[0] == '#' && ValidPartial(v)
}

// Strip removes a leading '#'.
func Strip(v string) string {
	return strings.TrimPrefix(v, "#")
}

// RGB is a parsed 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// Parse converts a color of six hex digits, with or without a leading '#',
// into its channels.
func Parse(v string) (RGB, error) {
	s := Strip(v)
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", v)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexVal(s[i*2])
		lo, ok2 := hexVal(s[i*2+1])
		if !ok1 || !ok2 {
			return RGB{}, fmt.Errorf("invalid hex color %q", v)
		}
		ch[i] = hi<<4 | lo
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// Hex renders the color as a lowercase #rrggbb string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Shift lightens (positive delta) or darkens (negative delta) every channel,
// clamping at the channel bounds.
func (c RGB) Shift(delta int) RGB {
	return RGB{
		R: clamp8(int(c.R) + delta),
		G: clamp8(int(c.G) + delta),
		B: clamp8(int(c.B) + delta),
	}
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func isHexDigit(b byte) bool {
	switch {
	case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		return true
	}
	return false
}

func hexVal(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
