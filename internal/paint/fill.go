package paint

import (
	"image"
	"image/color"

	"github.com/example/layerpaint/internal/raster"
)

// FloodFill paints c into the 4-connected region of fully transparent
// pixels containing (x, y). Pixels with any alpha are boundaries and are
// never written. A start point outside the buffer or on a non-transparent
// pixel fills nothing. It returns the number of pixels filled.
func FloodFill(b *raster.Buffer, x, y int, c color.RGBA) int {
	if !b.In(x, y) || b.At(x, y).A != 0 || c.A == 0 {
		return 0
	}
	filled := 0
	stack := []image.Point{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !b.In(p.X, p.Y) || b.At(p.X, p.Y).A != 0 {
			continue
		}
		b.Set(p.X, p.Y, c)
		filled++
		stack = append(stack,
			image.Pt(p.X+1, p.Y),
			image.Pt(p.X-1, p.Y),
			image.Pt(p.X, p.Y+1),
			image.Pt(p.X, p.Y-1),
		)
	}
	return filled
}
