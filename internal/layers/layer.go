package layers

import (
	"github.com/google/uuid"

	"github.com/example/layerpaint/internal/raster"
)

const (
	MinOpacity = 0
	MaxOpacity = 100
)

// Layer is one named raster in a Stack. Pixels are canonical; the overlay
// holds tool output that has not yet been flattened.
type Layer struct {
	ID      uuid.UUID
	Name    string
	Visible bool
	Opacity int

	pixels  *raster.Buffer
	overlay *raster.Buffer
}

func newLayer(name string, pixels *raster.Buffer) *Layer {
	return &Layer{
		ID:      uuid.New(),
		Name:    name,
		Visible: true,
		Opacity: MaxOpacity,
		pixels:  pixels,
	}
}

// Pixels returns a copy of the canonical raster.
func (l *Layer) Pixels() *raster.Buffer { return l.pixels.Clone() }

// Overlay returns a copy of the scratch overlay, or nil when there is none.
func (l *Layer) Overlay() *raster.Buffer {
	if l.overlay == nil {
		return nil
	}
	return l.overlay.Clone()
}

// HasOverlay reports whether the layer carries unflattened tool output.
func (l *Layer) HasOverlay() bool { return l.overlay != nil }

// Flattened returns the pixels with the overlay composited on top.
func (l *Layer) Flattened() *raster.Buffer {
	out := l.pixels.Clone()
	if l.overlay != nil {
		out.Over(l.overlay)
	}
	return out
}

func (l *Layer) clone() *Layer {
	c := *l
	c.pixels = l.pixels.Clone()
	if l.overlay != nil {
		c.overlay = l.overlay.Clone()
	}
	return &c
}

func clampOpacity(o int) int {
	if o < MinOpacity {
		return MinOpacity
	}
	if o > MaxOpacity {
		return MaxOpacity
	}
	return o
}
