// Package mask paints selection strokes for mask-driven remote edits.
package mask

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/raster"
)

// StrokeColor is the fixed colour of mask strokes. Only its coverage ends
// up in the mask.
var StrokeColor = color.White

// Painter draws freehand strokes into a Mask. Points are in raster space.
type Painter struct {
	mask    *raster.Mask
	width   float64
	drawing bool
	last    geom.Point
	moved   bool
}

// New returns a painter over an empty w x h mask.
func New(w, h int, width float64) *Painter {
	return &Painter{mask: raster.NewMask(w, h), width: width}
}

// Resize drops the mask and allocates an empty one of the new size.
func (p *Painter) Resize(w, h int) {
	p.drawing = false
	p.mask = raster.NewMask(w, h)
}

// SetWidth changes the brush width for subsequent strokes.
func (p *Painter) SetWidth(w float64) { p.width = w }

// Width returns the brush width.
func (p *Painter) Width() float64 { return p.width }

// Drawing reports whether a stroke is in progress.
func (p *Painter) Drawing() bool { return p.drawing }

// Mask returns a copy of the mask.
func (p *Painter) Mask() *raster.Mask { return p.mask.Clone() }

// Reset clears the mask and abandons any stroke.
func (p *Painter) Reset() {
	p.drawing = false
	p.mask.Reset()
}

// Down begins a stroke at pt.
func (p *Painter) Down(pt geom.Point) bool {
	if p.drawing {
		return false
	}
	p.drawing = true
	p.moved = false
	p.last = pt
	return true
}

// Move extends the stroke to pt.
func (p *Painter) Move(pt geom.Point) bool {
	if !p.drawing {
		return false
	}
	p.stroke(p.last, pt)
	p.last = pt
	p.moved = true
	return true
}

// Up ends the stroke and returns a copy of the finished mask.
func (p *Painter) Up(pt geom.Point) (*raster.Mask, bool) {
	if !p.drawing {
		return nil, false
	}
	if !pt.Eq(p.last) || !p.moved {
		p.stroke(p.last, pt)
	}
	p.drawing = false
	return p.mask.Clone(), true
}

// Cancel abandons the stroke, keeping what was already painted.
func (p *Painter) Cancel() { p.drawing = false }

func (p *Painter) stroke(a, b geom.Point) {
	sz := p.mask.Size()
	cover := raster.New(sz.X, sz.Y)
	dc := gg.NewContextForRGBA(cover.RGBA())
	dc.SetColor(StrokeColor)
	w := math.Max(p.width, 1)
	if a.Eq(b) {
		dc.DrawCircle(a.X, a.Y, w/2)
		dc.Fill()
	} else {
		dc.SetLineWidth(w)
		dc.SetLineCap(gg.LineCapRound)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}
	p.mask.Cover(cover)
}
