// Package crop tracks an interactive crop rectangle in display space and
// converts it to integer raster coordinates on release.
package crop

import (
	"fmt"

	"github.com/example/layerpaint/internal/geom"
)

// Rect is a committed crop in raster pixels.
type Rect struct {
	X, Y, Width, Height int
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Params returns r as operation parameters for the processing service.
func (r Rect) Params() map[string]any {
	return map[string]any{"x": r.X, "y": r.Y, "width": r.Width, "height": r.Height}
}

// Selector is the crop state machine. It is idle until Down and selecting
// until Up or Leave.
type Selector struct {
	scale     geom.Scale
	selecting bool
	start     geom.Point
	end       geom.Point
}

// New returns an idle selector using scale to map display to raster space.
func New(scale geom.Scale) *Selector {
	if !scale.Valid() {
		scale = geom.Identity
	}
	return &Selector{scale: scale}
}

// SetScale updates the display-to-raster mapping.
func (s *Selector) SetScale(scale geom.Scale) {
	if scale.Valid() {
		s.scale = scale
	}
}

// Selecting reports whether a drag is in progress.
func (s *Selector) Selecting() bool { return s.selecting }

// Down starts a selection at the display point p.
func (s *Selector) Down(p geom.Point) bool {
	if s.selecting {
		return false
	}
	s.selecting = true
	s.start, s.end = p, p
	return true
}

// Move updates the live rectangle.
func (s *Selector) Move(p geom.Point) bool {
	if !s.selecting {
		return false
	}
	s.end = p
	return true
}

// Overlay returns the normalized display-space rectangle being dragged.
func (s *Selector) Overlay() (geom.Box, bool) {
	if !s.selecting {
		return geom.Box{}, false
	}
	return geom.Normalize(s.start, s.end), true
}

// Up ends the selection at p. The rectangle is converted to raster space
// and rounded; it is returned only when both sides are at least one pixel.
func (s *Selector) Up(p geom.Point) (Rect, bool) {
	if !s.selecting {
		return Rect{}, false
	}
	s.end = p
	s.selecting = false
	return s.commit()
}

// Leave ends the selection at the last known point, as when the pointer
// exits the editing surface.
func (s *Selector) Leave() (Rect, bool) {
	if !s.selecting {
		return Rect{}, false
	}
	s.selecting = false
	return s.commit()
}

// Cancel abandons the selection.
func (s *Selector) Cancel() { s.selecting = false }

func (s *Selector) commit() (Rect, bool) {
	box := geom.Normalize(s.scale.ToRaster(s.start), s.scale.ToRaster(s.end))
	r := Rect{
		X:      geom.RoundHalfUp(box.X),
		Y:      geom.RoundHalfUp(box.Y),
		Width:  geom.RoundHalfUp(box.Width),
		Height: geom.RoundHalfUp(box.Height),
	}
	if r.Width <= 0 || r.Height <= 0 {
		return Rect{}, false
	}
	return r, true
}
