package editor

import (
	"context"
	"fmt"
	"log"

	"github.com/example/layerpaint/internal/crop"
	"github.com/example/layerpaint/internal/raster"
	"github.com/example/layerpaint/internal/remote"
)

// Apply sends the active layer, flattened with its overlay, through the
// remote operation op and replaces the layer with the result. The session
// is busy for the duration of the call; on failure nothing changes and
// nothing is committed.
func (s *Session) Apply(ctx context.Context, op string, params map[string]any) error {
	return s.run(ctx, op, params, false)
}

// ApplyMask runs op with the current mask attached. An empty op means
// inpainting. Whatever the outcome, the mask is cleared afterwards and the
// session returns to the mode it was in before mask mode.
func (s *Session) ApplyMask(ctx context.Context, op string) error {
	if op == "" {
		op = remote.OpInpaint
	}
	return s.run(ctx, op, nil, true)
}

// ApplyCrop crops the active layer on the processing service.
func (s *Session) ApplyCrop(ctx context.Context, r crop.Rect) error {
	if r.Width <= 0 || r.Height <= 0 {
		return nil
	}
	return s.run(ctx, remote.OpCrop, r.Params(), false)
}

func (s *Session) run(ctx context.Context, op string, params map[string]any, withMask bool) error {
	s.mu.Lock()
	if !s.stack.Loaded() {
		s.mu.Unlock()
		return ErrNoImage
	}
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.proc == nil {
		s.mu.Unlock()
		return ErrNoProcessor
	}
	idx := s.stack.Active()
	src, _ := s.stack.Flattened(idx)
	req := remote.Request{Operation: op, Params: params}
	var err error
	if req.Image, err = src.PNG(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode layer: %w", err)
	}
	if withMask {
		if req.Mask, err = s.masks.Mask().PNG(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("encode mask: %w", err)
		}
	}
	s.cancelGestures()
	s.busy = true
	gen := s.gen
	proc := s.proc
	fire := s.changed()
	s.mu.Unlock()
	fire()

	data, perr := proc.Process(ctx, req)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		log.Printf("%s: session reset, result dropped", op)
		return nil
	}
	s.busy = false
	if withMask {
		s.masks.Reset()
		s.setMode(s.prevMode)
	}
	err = s.applyResult(idx, op, data, perr)
	fire = s.changed()
	s.mu.Unlock()
	fire()
	return err
}

func (s *Session) applyResult(idx int, op string, data []byte, perr error) error {
	if perr != nil {
		log.Printf("%s: %v", op, perr)
		return perr
	}
	out, err := raster.DecodeBytes(data)
	if err != nil {
		log.Printf("%s: %v", op, err)
		return fmt.Errorf("%s result: %w", op, err)
	}
	before := s.stack.Size()
	if err := s.stack.ReplacePixels(idx, out); err != nil {
		log.Printf("%s: %v", op, err)
		return fmt.Errorf("%s result: %w", op, err)
	}
	if s.stack.Size() != before {
		s.masks.Resize(s.stack.Size().X, s.stack.Size().Y)
		s.rescale()
	}
	s.hist.Commit(s.stack.Snapshot())
	s.attach()
	return nil
}

// Composite renders the visible layers.
func (s *Session) Composite() (*raster.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stack.Loaded() {
		return nil, ErrNoImage
	}
	return s.stack.Composite(), nil
}

// CompositePNG is Composite encoded as PNG.
func (s *Session) CompositePNG() ([]byte, error) {
	c, err := s.Composite()
	if err != nil {
		return nil, err
	}
	return c.PNG()
}

// Mask returns a copy of the selection mask.
func (s *Session) Mask() *raster.Mask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.masks.Mask()
}

// MaskPNG is Mask encoded as PNG.
func (s *Session) MaskPNG() ([]byte, error) {
	return s.Mask().PNG()
}

// ClearMask empties the selection mask.
func (s *Session) ClearMask() {
	s.mu.Lock()
	s.masks.Reset()
	fire := s.changed()
	s.mu.Unlock()
	fire()
}

// Flattened returns layer i with its overlay applied.
func (s *Session) Flattened(i int) (*raster.Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Flattened(i)
}
