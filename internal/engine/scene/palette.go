package scene

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

var linkPalette = []color.RGBA{
	{R: 255, G: 100, B: 100, A: 255},
	{R: 100, G: 255, B: 100, A: 255},
	{R: 100, G: 100, B: 255, A: 255},
	{R: 255, G: 255, B: 100, A: 255},
	{R: 255, G: 100, B: 255, A: 255},
	{R: 100, G: 255, B: 255, A: 255},
	{R: 255, G: 180, B: 100, A: 255},
	{R: 180, G: 100, B: 255, A: 255},
	{R: 100, G: 255, B: 180, A: 255},
	{R: 255, G: 100, B: 180, A: 255},
	{R: 180, G: 255, B: 100, A: 255},
	{R: 100, G: 180, B: 255, A: 255},
}

// LinkColor returns a distinct color for the index-th link in build order.
// Past the fixed palette, hues step by 67 degrees.
func LinkColor(index int) color.RGBA {
	if index < 0 {
		index = -index
	}
	if index < len(linkPalette) {
		return linkPalette[index]
	}
	hue := float64((index * 67) % 360)
	r, g, b := colorful.Hsv(hue, 200.0/255, 220.0/255).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func rgbaFloat(c color.RGBA) [4]float64 {
	return [4]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}
