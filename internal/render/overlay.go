package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/paint"
	"github.com/example/layerpaint/internal/raster"
)

// DashedLine draws an axis-aligned dashed line alternating c1 and c2.
func DashedLine(img *image.RGBA, x0, y0, x1, y1, dash, thickness int, c1, c2 color.Color) {
	if dash <= 0 {
		dash = 1
	}
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	step := 1
	if length < 0 {
		length, step = -length, -1
	}
	for i := 0; i <= length; i++ {
		col := c1
		if (i/dash)%2 == 1 {
			col = c2
		}
		for t := 0; t < thickness; t++ {
			if horiz {
				img.Set(x0+i*step, y0+t, col)
			} else {
				img.Set(x0+t, y0+i*step, col)
			}
		}
	}
}

// DashedRect outlines rect with DashedLine on all four sides.
func DashedRect(img *image.RGBA, rect image.Rectangle, dash, thickness int, c1, c2 color.Color) {
	DashedLine(img, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y, dash, thickness, c1, c2)
	DashedLine(img, rect.Max.X, rect.Min.Y, rect.Max.X, rect.Max.Y, dash, thickness, c1, c2)
	DashedLine(img, rect.Max.X, rect.Max.Y, rect.Min.X, rect.Max.Y, dash, thickness, c1, c2)
	DashedLine(img, rect.Min.X, rect.Max.Y, rect.Min.X, rect.Min.Y, dash, thickness, c1, c2)
}

// CropSelection shades the canvas outside the pending crop box and outlines
// it. box is in canvas display space, as returned by the session.
func CropSelection(dst *image.RGBA, canvas image.Rectangle, box geom.Box, line, shade color.RGBA) {
	sel := image.Rect(
		canvas.Min.X+geom.RoundHalfUp(box.X),
		canvas.Min.Y+geom.RoundHalfUp(box.Y),
		canvas.Min.X+geom.RoundHalfUp(box.X+box.Width),
		canvas.Min.Y+geom.RoundHalfUp(box.Y+box.Height),
	)
	su := image.NewUniform(shade)
	for _, r := range []image.Rectangle{
		image.Rect(canvas.Min.X, canvas.Min.Y, canvas.Max.X, sel.Min.Y),
		image.Rect(canvas.Min.X, sel.Max.Y, canvas.Max.X, canvas.Max.Y),
		image.Rect(canvas.Min.X, sel.Min.Y, sel.Min.X, sel.Max.Y),
		image.Rect(sel.Max.X, sel.Min.Y, canvas.Max.X, sel.Max.Y),
	} {
		r = r.Intersect(canvas)
		if !r.Empty() {
			draw.Draw(dst, r, su, image.Point{}, draw.Over)
		}
	}
	inverse := color.RGBA{255 - line.R, 255 - line.G, 255 - line.B, 255}
	DashedRect(dst, sel, 4, 1, line, inverse)
}

// MaskTint draws m scaled into canvas using tint, whose alpha is multiplied
// by the mask coverage.
func MaskTint(dst *image.RGBA, canvas image.Rectangle, m *raster.Mask, tint color.RGBA) {
	if m == nil || canvas.Empty() || !m.Selected() {
		return
	}
	scaled := image.NewGray(image.Rect(0, 0, canvas.Dx(), canvas.Dy()))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), m.Gray(), m.Bounds(), draw.Src, nil)
	draw.DrawMask(dst, canvas, image.NewUniform(tint), image.Point{}, alphaOf(scaled), image.Point{}, draw.Over)
}

// ShapeOutline draws the outline of the shape being dragged. The preview
// is in raster space; s is the session's raster/display scale.
func ShapeOutline(dst *image.RGBA, canvas image.Rectangle, pv paint.Preview, s geom.Scale, c color.RGBA) {
	a := ToDisplay(pv.Anchor, s, canvas)
	b := ToDisplay(pv.Current, s, canvas)
	ax, ay, bx, by := float64(a.X), float64(a.Y), float64(b.X), float64(b.Y)

	dc := gg.NewContextForRGBA(dst)
	dc.SetColor(c)
	dc.SetLineWidth(1)
	dc.SetDash(4, 3)
	switch pv.Tool {
	case paint.ToolRectangle:
		box := geom.Normalize(geom.Pt(ax, ay), geom.Pt(bx, by))
		dc.DrawRectangle(box.X, box.Y, box.Width, box.Height)
	case paint.ToolCircle:
		dc.DrawCircle((ax+bx)/2, (ay+by)/2, math.Hypot(bx-ax, by-ay)/2)
	case paint.ToolOval:
		dc.DrawEllipse((ax+bx)/2, (ay+by)/2, math.Abs(bx-ax)/2, math.Abs(by-ay)/2)
	case paint.ToolTriangle:
		p := paint.TrianglePoints(geom.Pt(ax, ay), geom.Pt(bx, by))
		dc.MoveTo(p[0].X, p[0].Y)
		dc.LineTo(p[1].X, p[1].Y)
		dc.LineTo(p[2].X, p[2].Y)
		dc.ClosePath()
	case paint.ToolLine:
		dc.DrawLine(ax, ay, bx, by)
	default:
		// Text and fill apply at the anchor; mark it with a crosshair.
		dc.DrawLine(ax-4, ay, ax+4, ay)
		dc.DrawLine(ax, ay-4, ax, ay+4)
	}
	dc.Stroke()
}
