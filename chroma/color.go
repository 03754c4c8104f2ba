package chroma

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is the composite color published to surfaces
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack = RGB{0, 0, 0}
)

// Colorful converts to a go-colorful color for formatting and blending
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex returns the #rrggbb form
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}

// Get returns the value of one component
func (c RGB) Get(id ChannelID) uint8 {
	switch id {
	case Red:
		return c.R
	case Green:
		return c.G
	default:
		return c.B
	}
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}
