package message

import (
	"errors"
	"fmt"
	"strconv"
)

// DefaultColor is the sidebar color used when none is set (white).
const DefaultColor Color = "FFFFFF"

// ErrInvalidColor is returned for colors that are not six hex digits.
var ErrInvalidColor = errors.New("message: color must be 6 hex digits")

// Color is an RGB color written as six hexadecimal digits without a leading
// "#", e.g. "2196F3". The wire format carries its decimal value.
type Color string

// Decimal returns the 24-bit integer value of the color. The empty color
// resolves to DefaultColor.
func (c Color) Decimal() (int, error) {
	if c == "" {
		c = DefaultColor
	}
	if len(c) != 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, string(c))
	}
	n, err := strconv.ParseUint(string(c), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, string(c))
	}
	return int(n), nil
}

// Valid reports whether the color is empty or six hex digits.
func (c Color) Valid() bool {
	_, err := c.Decimal()
	return err == nil
}

// Or returns c, or fallback when c is empty.
func (c Color) Or(fallback Color) Color {
	if c == "" {
		return fallback
	}
	return c
}
