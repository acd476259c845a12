package paint

import (
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/raster"
)

// TextSize is the pixel size of stamped text.
const TextSize = 40

var (
	textOnce sync.Once
	textFace font.Face
)

func boldFace() font.Face {
	textOnce.Do(func() {
		f, err := truetype.Parse(gobold.TTF)
		if err != nil {
			log.Printf("parse text font: %v", err)
			return
		}
		textFace = truetype.NewFace(f, &truetype.Options{Size: TextSize, DPI: 72, Hinting: font.HintingFull})
	})
	return textFace
}

func strokeSegment(img *image.RGBA, a, b geom.Point, c color.Color, width float64) {
	if a.Eq(b) {
		fillDot(img, a, c, width)
		return
	}
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(c)
	dc.SetLineWidth(math.Max(width, 1))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	dc.Stroke()
}

func fillDot(img *image.RGBA, p geom.Point, c color.Color, width float64) {
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(c)
	dc.DrawCircle(p.X, p.Y, math.Max(width, 1)/2)
	dc.Fill()
}

// eraseSegment renders the stroke coverage into a scratch buffer and
// removes it from dst.
func eraseSegment(dst *raster.Buffer, a, b geom.Point, width float64) {
	cut := raster.New(dst.Width(), dst.Height())
	strokeSegment(cut.RGBA(), a, b, color.Black, width)
	dst.Erase(cut)
}

func eraseDot(dst *raster.Buffer, p geom.Point, width float64) {
	cut := raster.New(dst.Width(), dst.Height())
	fillDot(cut.RGBA(), p, color.Black, width)
	dst.Erase(cut)
}

func fillRect(img *image.RGBA, a, b geom.Point, c color.Color) {
	box := geom.Normalize(a, b)
	if box.Width == 0 || box.Height == 0 {
		return
	}
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(c)
	dc.DrawRectangle(box.X, box.Y, box.Width, box.Height)
	dc.Fill()
}

func fillCircle(img *image.RGBA, a, b geom.Point, c color.Color) {
	r := math.Hypot(b.X-a.X, b.Y-a.Y) / 2
	if r == 0 {
		return
	}
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(c)
	dc.DrawCircle((a.X+b.X)/2, (a.Y+b.Y)/2, r)
	dc.Fill()
}

func fillOval(img *image.RGBA, a, b geom.Point, c color.Color) {
	rx := math.Abs(b.X-a.X) / 2
	ry := math.Abs(b.Y-a.Y) / 2
	if rx == 0 || ry == 0 {
		return
	}
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(c)
	dc.DrawEllipse((a.X+b.X)/2, (a.Y+b.Y)/2, rx, ry)
	dc.Fill()
}

// TrianglePoints returns the anchor, the release point and an apex centred
// between them and raised |dy| above the anchor.
func TrianglePoints(a, b geom.Point) [3]geom.Point {
	apex := geom.Pt(a.X+(b.X-a.X)/2, a.Y-math.Abs(b.Y-a.Y))
	return [3]geom.Point{a, b, apex}
}

func fillTriangle(img *image.RGBA, a, b geom.Point, c color.Color) {
	p := TrianglePoints(a, b)
	area := (p[1].X-p[0].X)*(p[2].Y-p[0].Y) - (p[2].X-p[0].X)*(p[1].Y-p[0].Y)
	if area == 0 {
		return
	}
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(c)
	dc.MoveTo(p[0].X, p[0].Y)
	dc.LineTo(p[1].X, p[1].Y)
	dc.LineTo(p[2].X, p[2].Y)
	dc.ClosePath()
	dc.Fill()
}

// stampText draws s with its top-left corner at p.
func stampText(img *image.RGBA, p geom.Point, s string, c color.Color) {
	if s == "" {
		return
	}
	face := boldFace()
	if face == nil {
		return
	}
	dc := gg.NewContextForRGBA(img)
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawStringAnchored(s, p.X, p.Y, 0, 1)
}
