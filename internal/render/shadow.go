package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow drawn behind the canvas.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a soft shadow that stays inside Margin.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  6,
		Offset:  image.Pt(4, 4),
		Opacity: 0.35,
	}
}

// FrameShadow draws a blurred shadow of the rectangle frame onto dst. The
// canvas itself is drawn afterwards and covers the inner part.
func FrameShadow(dst *image.RGBA, frame image.Rectangle, opts ShadowOptions) {
	if frame.Empty() || opts.Opacity <= 0 {
		return
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	padded := image.Rect(0, 0, frame.Dx()+2*radius, frame.Dy()+2*radius)
	mask := image.NewGray(padded)
	inner := image.Rect(radius, radius, radius+frame.Dx(), radius+frame.Dy())
	draw.Draw(mask, inner, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)

	blurred := blurGray(mask, radius)
	alpha := alphaOf(blurred)

	at := frame.Min.Add(opts.Offset).Sub(image.Pt(radius, radius))
	shade := image.NewUniform(color.RGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, padded.Add(at), shade, image.Point{}, alpha, image.Point{}, draw.Over)
}

// alphaOf reinterprets grey levels as coverage.
func alphaOf(g *image.Gray) *image.Alpha {
	a := image.NewAlpha(g.Bounds())
	copy(a.Pix, g.Pix)
	return a
}

// blurGray is a separable box blur using running prefix sums.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
