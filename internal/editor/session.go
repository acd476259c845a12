// Package editor ties the layer stack, drawing tools, mask, crop selector
// and history together into one editing session.
package editor

import (
	"errors"
	"image"
	"log"
	"sync"

	"github.com/example/layerpaint/internal/crop"
	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/history"
	"github.com/example/layerpaint/internal/layers"
	"github.com/example/layerpaint/internal/mask"
	"github.com/example/layerpaint/internal/paint"
	"github.com/example/layerpaint/internal/raster"
	"github.com/example/layerpaint/internal/remote"
)

var (
	// ErrBusy is returned while a remote operation is in flight.
	ErrBusy = errors.New("session is busy with a remote operation")
	// ErrNoImage is returned before an image has been loaded.
	ErrNoImage = errors.New("no image loaded")
	// ErrNoProcessor is returned by remote operations when no processing
	// service is configured.
	ErrNoProcessor = errors.New("no processing service configured")
)

// Session is one editing context. All methods are safe for concurrent use;
// listeners run on the calling goroutine after the session lock is
// released and receive copies.
type Session struct {
	mu sync.Mutex

	stack  *layers.Stack
	hist   *history.Manager
	engine *paint.Engine
	masks  *mask.Painter
	crops  *crop.Selector
	proc   remote.Processor

	mode     Mode
	prevMode Mode
	display  image.Point
	scale    geom.Scale
	busy     bool
	gen      int
	histOpts []history.Option

	// strokeBase is the active overlay as it was when the current draw
	// gesture started.
	strokeBase *raster.Buffer

	onDraw   []func(*raster.Buffer)
	onMask   []func(*raster.Mask)
	onCrop   []func(crop.Rect)
	onChange []func()
}

// Option configures a Session.
type Option func(*Session)

// WithProcessor sets the remote processing service.
func WithProcessor(p remote.Processor) Option { return func(s *Session) { s.proc = p } }

// WithSettings sets the initial brush.
func WithSettings(st paint.Settings) Option {
	return func(s *Session) { s.engine.SetSettings(st) }
}

// WithTool sets the initial drawing tool.
func WithTool(t paint.Tool) Option { return func(s *Session) { s.engine.SetTool(t) } }

// WithMode sets the initial mode.
func WithMode(m Mode) Option { return func(s *Session) { s.mode = m } }

// WithHistoryLimit caps the number of undo entries.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.histOpts = append(s.histOpts, history.WithLimit(n)) }
}

// WithOnDraw registers a draw-commit listener.
func WithOnDraw(fn func(*raster.Buffer)) Option {
	return func(s *Session) { s.onDraw = append(s.onDraw, fn) }
}

// WithOnMask registers a mask-commit listener.
func WithOnMask(fn func(*raster.Mask)) Option {
	return func(s *Session) { s.onMask = append(s.onMask, fn) }
}

// WithOnCrop registers a crop-commit listener.
func WithOnCrop(fn func(crop.Rect)) Option {
	return func(s *Session) { s.onCrop = append(s.onCrop, fn) }
}

// WithOnChange registers a listener for any visible change.
func WithOnChange(fn func()) Option {
	return func(s *Session) { s.onChange = append(s.onChange, fn) }
}

// New returns an empty session in view mode.
func New(opts ...Option) *Session {
	s := &Session{
		stack:  layers.New(),
		engine: paint.New(),
		masks:  mask.New(0, 0, paint.DefaultSettings.Width),
		crops:  crop.New(geom.Identity),
		scale:  geom.Identity,
	}
	for _, o := range opts {
		o(s)
	}
	s.hist = history.New(s.histOpts...)
	s.masks.SetWidth(s.engine.Settings().Width)
	return s
}

// Reset discards the image, history and any pending gesture. Results of
// remote operations started before Reset are dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	s.stack = layers.New()
	s.hist.Reset()
	s.engine.Detach()
	s.masks.Resize(0, 0)
	s.crops.Cancel()
	s.mode = ModeView
	s.prevMode = ModeView
	s.busy = false
	s.gen++
	s.rescale()
	fire := s.changed()
	s.mu.Unlock()
	fire()
}

// OnDraw adds a draw-commit listener.
func (s *Session) OnDraw(fn func(*raster.Buffer)) {
	s.mu.Lock()
	s.onDraw = append(s.onDraw, fn)
	s.mu.Unlock()
}

// OnMask adds a mask-commit listener.
func (s *Session) OnMask(fn func(*raster.Mask)) {
	s.mu.Lock()
	s.onMask = append(s.onMask, fn)
	s.mu.Unlock()
}

// OnCrop adds a crop-commit listener.
func (s *Session) OnCrop(fn func(crop.Rect)) {
	s.mu.Lock()
	s.onCrop = append(s.onCrop, fn)
	s.mu.Unlock()
}

// OnChange adds a listener called after any change worth redrawing.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// SetProcessor replaces the remote processing service.
func (s *Session) SetProcessor(p remote.Processor) {
	s.mu.Lock()
	s.proc = p
	s.mu.Unlock()
}

// Load replaces everything with a single base layer holding b and starts
// a fresh history.
func (s *Session) Load(b *raster.Buffer) error {
	if b == nil || b.Width() == 0 || b.Height() == 0 {
		return ErrNoImage
	}
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.stack.Load(b, "")
	s.hist.Reset()
	s.hist.Commit(s.stack.Snapshot())
	s.masks.Resize(b.Width(), b.Height())
	s.crops.Cancel()
	s.rescale()
	s.attach()
	fire := s.changed()
	s.mu.Unlock()
	fire()
	return nil
}

// Loaded reports whether an image is present.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Loaded()
}

// Busy reports whether a remote operation is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Size returns the canonical raster size.
func (s *Session) Size() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Size()
}

// SetViewport records the size the raster is displayed at. Pointer
// coordinates are mapped to raster space with raster/display per axis.
func (s *Session) SetViewport(display image.Point) {
	s.mu.Lock()
	s.display = display
	s.rescale()
	s.mu.Unlock()
}

// Scale returns the current display-to-raster scale.
func (s *Session) Scale() geom.Scale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

func (s *Session) rescale() {
	s.scale = geom.Identity
	if s.stack.Loaded() && s.display.X > 0 && s.display.Y > 0 {
		s.scale = geom.ScaleFor(s.stack.Size(), s.display)
	}
	s.crops.SetScale(s.scale)
}

// attach points the drawing engine at the active layer's overlay.
func (s *Session) attach() {
	s.strokeBase = nil
	if !s.stack.Loaded() {
		s.engine.Detach()
		return
	}
	o, _ := s.stack.Overlay(s.stack.Active())
	s.engine.Attach(o)
}

// Mode returns the current input mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches input mode, cancelling gestures in progress. Entering
// mask mode clears the mask. Mask and crop remember the mode they were
// entered from.
func (s *Session) SetMode(m Mode) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if m != ModeView && !s.stack.Loaded() {
		s.mu.Unlock()
		return ErrNoImage
	}
	s.setMode(m)
	fire := s.changed()
	s.mu.Unlock()
	fire()
	return nil
}

func (s *Session) setMode(m Mode) {
	s.cancelGestures()
	if m == s.mode {
		return
	}
	if (m == ModeMask || m == ModeCrop) && s.mode != ModeMask && s.mode != ModeCrop {
		s.prevMode = s.mode
	}
	if m == ModeMask {
		s.masks.Reset()
	}
	s.mode = m
}

func (s *Session) cancelGestures() {
	s.abandonStroke()
	s.masks.Cancel()
	s.crops.Cancel()
}

// abandonStroke ends the draw gesture without committing it. Segments a
// stroke already wrote to the active layer are rolled back so the stack
// matches the last history entry again.
func (s *Session) abandonStroke() {
	base := s.strokeBase
	s.strokeBase = nil
	if s.engine.State() == paint.StateIdle || base == nil {
		s.engine.Cancel()
		return
	}
	if err := s.stack.SetOverlay(s.stack.Active(), base); err != nil {
		log.Printf("draw: rollback: %v", err)
	}
	s.engine.Attach(base)
}

// Tool returns the drawing tool.
func (s *Session) Tool() paint.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Tool()
}

// SetTool selects the drawing tool.
func (s *Session) SetTool(t paint.Tool) {
	s.mu.Lock()
	s.abandonStroke()
	s.engine.SetTool(t)
	s.mu.Unlock()
}

// Settings returns the brush settings.
func (s *Session) Settings() paint.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Settings()
}

// SetSettings replaces the brush settings. The width also applies to the
// mask brush.
func (s *Session) SetSettings(st paint.Settings) {
	s.mu.Lock()
	s.engine.SetSettings(st)
	s.masks.SetWidth(st.Width)
	s.mu.Unlock()
}

func (s *Session) changed() func() {
	fns := append([]func(){}, s.onChange...)
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}

func chain(fns ...func()) func() {
	return func() {
		for _, fn := range fns {
			if fn != nil {
				fn()
			}
		}
	}
}

func nop() {}
