package genome

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/matzehuels/genomering/pkg/errors"
)

// Color is an 8-bit RGBA colour. In configuration files it is written as
// #rgb, #rrggbb or #rrggbbaa. The zero value (fully transparent) means
// "not set" wherever a colour is optional.
type Color color.RGBA

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// Common colours.
var (
	Black = RGB(0, 0, 0)
	White = RGB(0xff, 0xff, 0xff)
	Gray  = RGB(0x80, 0x80, 0x80)
)

// IsSet reports whether the colour is not the zero value.
func (c Color) IsSet() bool { return c != Color{} }

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA(c).RGBA()
}

// Or returns c when set, otherwise fallback.
func (c Color) Or(fallback Color) Color {
	if c.IsSet() {
		return c
	}
	return fallback
}

// Hex formats the colour as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses a hex colour.
func ParseColor(s string) (Color, error) {
	if err := errors.ValidateColor(s); err != nil {
		return Color{}, err
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid colour %q", s)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
