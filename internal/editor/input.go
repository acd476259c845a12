package editor

import (
	"log"

	"github.com/example/layerpaint/internal/crop"
	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/paint"
	"github.com/example/layerpaint/internal/raster"
)

// PointerDown routes a press at the display point p to the component for
// the current mode. Input is ignored while busy or before Load.
func (s *Session) PointerDown(p geom.Point) {
	s.mu.Lock()
	if s.busy || !s.stack.Loaded() {
		s.mu.Unlock()
		return
	}
	switch s.mode {
	case ModeDraw:
		if s.engine.Down(s.scale.ToRaster(p)) {
			s.strokeBase = s.engine.Overlay()
		}
	case ModeMask:
		s.masks.Down(s.scale.ToRaster(p))
	case ModeCrop:
		s.crops.Down(p)
	}
	s.mu.Unlock()
}

// PointerMove extends the current gesture.
func (s *Session) PointerMove(p geom.Point) {
	s.mu.Lock()
	if s.busy || !s.stack.Loaded() {
		s.mu.Unlock()
		return
	}
	fire := nop
	switch s.mode {
	case ModeDraw:
		if s.engine.Move(s.scale.ToRaster(p)) {
			if err := s.stack.SetOverlay(s.stack.Active(), s.engine.Overlay()); err != nil {
				log.Printf("draw: %v", err)
				s.abandonStroke()
			}
		}
		if s.engine.State() != paint.StateIdle {
			fire = s.changed()
		}
	case ModeMask:
		if s.masks.Move(s.scale.ToRaster(p)) {
			fire = s.changed()
		}
	case ModeCrop:
		if s.crops.Move(p) {
			fire = s.changed()
		}
	}
	s.mu.Unlock()
	fire()
}

// PointerUp finishes the gesture and emits its commit.
func (s *Session) PointerUp(p geom.Point) {
	s.mu.Lock()
	if s.busy || !s.stack.Loaded() {
		s.mu.Unlock()
		return
	}
	var fire func()
	switch s.mode {
	case ModeDraw:
		fire = s.commitDraw(s.engine.Up(s.scale.ToRaster(p)))
	case ModeMask:
		fire = s.commitMask(s.masks.Up(s.scale.ToRaster(p)))
	case ModeCrop:
		fire = s.commitCrop(s.crops.Up(p))
	default:
		fire = nop
	}
	s.mu.Unlock()
	fire()
}

// PointerLeave handles the pointer leaving the editing surface. A crop
// drag finishes at its last point; other gestures are unaffected.
func (s *Session) PointerLeave() {
	s.mu.Lock()
	fire := nop
	if !s.busy && s.mode == ModeCrop {
		fire = s.commitCrop(s.crops.Leave())
	}
	s.mu.Unlock()
	fire()
}

func (s *Session) commitDraw(overlay *raster.Buffer, ok bool) func() {
	base := s.strokeBase
	s.strokeBase = nil
	if !ok {
		return nop
	}
	if err := s.stack.SetOverlay(s.stack.Active(), overlay); err != nil {
		log.Printf("draw: %v", err)
		if base != nil {
			_ = s.stack.SetOverlay(s.stack.Active(), base)
			s.engine.Attach(base)
		}
		return s.changed()
	}
	s.hist.Commit(s.stack.Snapshot())
	fns := []func(){s.changed()}
	for _, fn := range s.onDraw {
		fn := fn
		c := overlay.Clone()
		fns = append(fns, func() { fn(c) })
	}
	return chain(fns...)
}

func (s *Session) commitMask(m *raster.Mask, ok bool) func() {
	if !ok {
		return nop
	}
	fns := []func(){s.changed()}
	for _, fn := range s.onMask {
		fn := fn
		c := m.Clone()
		fns = append(fns, func() { fn(c) })
	}
	return chain(fns...)
}

// commitCrop returns to view mode only when a rectangle was committed.
// A discarded selection leaves the session in crop mode.
func (s *Session) commitCrop(r crop.Rect, ok bool) func() {
	if !ok {
		return s.changed()
	}
	s.mode = ModeView
	fns := []func(){s.changed()}
	for _, fn := range s.onCrop {
		fn := fn
		fns = append(fns, func() { fn(r) })
	}
	return chain(fns...)
}

// CropOverlay returns the live crop rectangle in display space.
func (s *Session) CropOverlay() (geom.Box, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeCrop {
		return geom.Box{}, false
	}
	return s.crops.Overlay()
}

// ShapePreview returns the shape being dragged, in raster space.
func (s *Session) ShapePreview() (paint.Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeDraw {
		return paint.Preview{}, false
	}
	return s.engine.Preview()
}
