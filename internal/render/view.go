// Package render draws the editor canvas into a window-sized RGBA buffer:
// letterboxing, checkerboard, drop shadow and the transient overlays for
// crop, mask and shape previews.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/theme"
)

// Margin keeps the canvas clear of the window edge so the shadow shows.
const Margin = 16

// CheckerSize is the edge length of one checkerboard square.
const CheckerSize = 8

// Fit returns the largest rectangle with src's aspect ratio that fits in
// win less Margin on every side, centred. Images smaller than the space
// are shown at 1:1.
func Fit(src, win image.Point) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 {
		return image.Rectangle{}
	}
	availW := win.X - 2*Margin
	availH := win.Y - 2*Margin
	if availW <= 0 || availH <= 0 {
		return image.Rectangle{}
	}
	zoom := 1.0
	zx := float64(availW) / float64(src.X)
	zy := float64(availH) / float64(src.Y)
	if zx < zoom {
		zoom = zx
	}
	if zy < zoom {
		zoom = zy
	}
	w := max(1, int(float64(src.X)*zoom))
	h := max(1, int(float64(src.Y)*zoom))
	x0 := (win.X - w) / 2
	y0 := (win.Y - h) / 2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// ToDisplay converts a raster-space point into window coordinates for an
// image drawn at rect. s is the raster/display scale of the session.
func ToDisplay(p geom.Point, s geom.Scale, rect image.Rectangle) image.Point {
	x, y := p.X, p.Y
	if s.X > 0 {
		x /= s.X
	}
	if s.Y > 0 {
		y /= s.Y
	}
	return image.Pt(rect.Min.X+geom.RoundHalfUp(x), rect.Min.Y+geom.RoundHalfUp(y))
}

// Local converts a window position into the canvas-relative display space
// the editor session expects.
func Local(x, y float32, rect image.Rectangle) geom.Point {
	return geom.Pt(float64(x)-float64(rect.Min.X), float64(y)-float64(rect.Min.Y))
}

// Checkerboard fills rect of dst with alternating squares.
func Checkerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	lu, du := image.NewUniform(light), image.NewUniform(dark)
	for y := rect.Min.Y - rect.Min.Y%size; y < rect.Max.Y; y += size {
		for x := rect.Min.X - rect.Min.X%size; x < rect.Max.X; x += size {
			src := lu
			if ((x/size)+(y/size))%2 != 0 {
				src = du
			}
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}

// Canvas paints the window background, the canvas shadow, a checkerboard
// for transparency and finally img scaled into rect.
func Canvas(dst *image.RGBA, img *image.RGBA, rect image.Rectangle, th *theme.Theme) {
	if th == nil {
		th = theme.Default()
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)
	if rect.Empty() || img == nil {
		return
	}
	FrameShadow(dst, rect, DefaultShadowOptions())
	Checkerboard(dst, rect, CheckerSize, th.CheckerLight, th.CheckerDark)
	scaler := xdraw.Interpolator(xdraw.ApproxBiLinear)
	if rect.Dx() >= img.Bounds().Dx() {
		scaler = xdraw.NearestNeighbor
	}
	scaler.Scale(dst, rect, img, img.Bounds(), draw.Over, nil)
}

// Veil tints the whole canvas, used while a remote operation runs.
func Veil(dst *image.RGBA, rect image.Rectangle, c color.RGBA) {
	draw.Draw(dst, rect, image.NewUniform(c), image.Point{}, draw.Over)
}
