// Package layers implements the ordered layer stack and its compositor.
package layers

import (
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"

	"github.com/example/layerpaint/internal/raster"
)

// BaseName is the name given to the layer created by Load.
const BaseName = "Background"

var (
	// ErrDimensions reports a buffer whose size differs from the stack's.
	ErrDimensions = errors.New("buffer dimensions do not match the base layer")
	// ErrIndex reports a layer index outside the stack.
	ErrIndex = errors.New("layer index out of range")
)

// Info is a read-only view of a layer's attributes.
type Info struct {
	ID         uuid.UUID
	Name       string
	Visible    bool
	Opacity    int
	HasOverlay bool
}

// Stack is an ordered, bottom-to-top list of layers with one active layer.
type Stack struct {
	layers []*Layer
	active int
	size   image.Point
}

// New returns an empty stack. Nothing can be edited until Load is called.
func New() *Stack { return &Stack{} }

// Load replaces the whole stack with a single base layer holding a copy of
// base. The base layer defines the canonical dimensions.
func (s *Stack) Load(base *raster.Buffer, name string) {
	if name == "" {
		name = BaseName
	}
	s.layers = []*Layer{newLayer(name, base.Clone())}
	s.active = 0
	s.size = base.Size()
}

// Loaded reports whether an image has been loaded.
func (s *Stack) Loaded() bool { return len(s.layers) > 0 }

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }

// Active returns the index of the active layer, or -1 when empty.
func (s *Stack) Active() int {
	if len(s.layers) == 0 {
		return -1
	}
	return s.active
}

// Size returns the canonical raster dimensions.
func (s *Stack) Size() image.Point { return s.size }

func (s *Stack) valid(i int) bool { return i >= 0 && i < len(s.layers) }

// Info describes the layer at i.
func (s *Stack) Info(i int) (Info, bool) {
	if !s.valid(i) {
		return Info{}, false
	}
	l := s.layers[i]
	return Info{ID: l.ID, Name: l.Name, Visible: l.Visible, Opacity: l.Opacity, HasOverlay: l.HasOverlay()}, true
}

// Infos describes every layer, bottom first.
func (s *Stack) Infos() []Info {
	out := make([]Info, 0, len(s.layers))
	for i := range s.layers {
		info, _ := s.Info(i)
		out = append(out, info)
	}
	return out
}

// Add appends a copy of the active layer's flattened raster and makes it
// active. It returns the new index.
func (s *Stack) Add() (int, bool) {
	if !s.Loaded() {
		return -1, false
	}
	src := s.layers[s.active].Flattened()
	s.layers = append(s.layers, newLayer(fmt.Sprintf("Layer %d", len(s.layers)+1), src))
	s.active = len(s.layers) - 1
	return s.active, true
}

// Delete removes the layer at i. Removing the sole layer is refused. When
// the active layer goes, the one below it becomes active; removing a lower
// layer shifts the active index so it keeps pointing at the same layer.
func (s *Stack) Delete(i int) bool {
	if len(s.layers) <= 1 || !s.valid(i) {
		return false
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	switch {
	case i == s.active:
		s.active = max(0, i-1)
	case i < s.active:
		s.active--
	}
	return true
}

// Select makes i the active layer.
func (s *Stack) Select(i int) bool {
	if !s.valid(i) {
		return false
	}
	s.active = i
	return true
}

// SetVisibility shows or hides layer i.
func (s *Stack) SetVisibility(i int, visible bool) bool {
	if !s.valid(i) {
		return false
	}
	s.layers[i].Visible = visible
	return true
}

// SetOpacity sets layer i's opacity, clamped to [0,100].
func (s *Stack) SetOpacity(i, opacity int) bool {
	if !s.valid(i) {
		return false
	}
	s.layers[i].Opacity = clampOpacity(opacity)
	return true
}

// Rename changes the display name of layer i.
func (s *Stack) Rename(i int, name string) bool {
	if !s.valid(i) || name == "" {
		return false
	}
	s.layers[i].Name = name
	return true
}

// Pixels returns a copy of layer i's canonical raster.
func (s *Stack) Pixels(i int) (*raster.Buffer, bool) {
	if !s.valid(i) {
		return nil, false
	}
	return s.layers[i].Pixels(), true
}

// Overlay returns a copy of layer i's overlay. A layer without one yields a
// fresh transparent buffer of the canonical size.
func (s *Stack) Overlay(i int) (*raster.Buffer, bool) {
	if !s.valid(i) {
		return nil, false
	}
	if o := s.layers[i].Overlay(); o != nil {
		return o, true
	}
	return raster.New(s.size.X, s.size.Y), true
}

// Flattened returns layer i's pixels with its overlay applied.
func (s *Stack) Flattened(i int) (*raster.Buffer, bool) {
	if !s.valid(i) {
		return nil, false
	}
	return s.layers[i].Flattened(), true
}

// SetOverlay stores a copy of overlay as layer i's scratch buffer.
func (s *Stack) SetOverlay(i int, overlay *raster.Buffer) error {
	if !s.valid(i) {
		return ErrIndex
	}
	if overlay.Size() != s.size {
		return fmt.Errorf("overlay %v on layer %d: %w", overlay.Size(), i, ErrDimensions)
	}
	s.layers[i].overlay = overlay.Clone()
	return nil
}

// ClearOverlay drops layer i's overlay.
func (s *Stack) ClearOverlay(i int) bool {
	if !s.valid(i) {
		return false
	}
	s.layers[i].overlay = nil
	return true
}

// ReplacePixels swaps layer i's canonical raster for a copy of pixels and
// drops its overlay. A different size is accepted only when i is the base
// of a single-layer stack, where it re-establishes the canonical size.
func (s *Stack) ReplacePixels(i int, pixels *raster.Buffer) error {
	if !s.valid(i) {
		return ErrIndex
	}
	if pixels.Size() != s.size {
		if i != 0 || len(s.layers) != 1 {
			return fmt.Errorf("replace layer %d with %v: %w", i, pixels.Size(), ErrDimensions)
		}
		s.size = pixels.Size()
	}
	s.layers[i].pixels = pixels.Clone()
	s.layers[i].overlay = nil
	return nil
}

// Composite renders the visible layers bottom to top into a new buffer.
func (s *Stack) Composite() *raster.Buffer {
	dst := raster.New(s.size.X, s.size.Y)
	for _, l := range s.layers {
		if !l.Visible || l.Opacity == 0 {
			continue
		}
		// alpha is per layer; nothing carries over to the next one.
		alpha := float64(l.Opacity) / MaxOpacity
		dst.Blend(l.Flattened(), alpha)
	}
	return dst
}
