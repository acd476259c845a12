package paint

import (
	"image/color"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/raster"
)

// Settings are the brush parameters applied at commit time.
type Settings struct {
	Color color.RGBA
	Width float64
	Text  string
}

// DefaultSettings is a 5px black brush.
var DefaultSettings = Settings{Color: color.RGBA{A: 255}, Width: 5}

// Preview describes an in-progress shape drag for display.
type Preview struct {
	Tool    Tool
	Anchor  geom.Point
	Current geom.Point
}

// Engine is the drawing tool state machine. All points are in raster
// space; the engine never sees display coordinates.
type Engine struct {
	tool     Tool
	settings Settings
	state    State

	overlay *raster.Buffer
	anchor  geom.Point
	last    geom.Point
	current geom.Point
}

// Option configures an Engine.
type Option func(*Engine)

// WithTool sets the initial tool.
func WithTool(t Tool) Option { return func(e *Engine) { e.tool = t } }

// WithSettings sets the initial brush.
func WithSettings(s Settings) Option { return func(e *Engine) { e.settings = s } }

// New returns an idle engine with no overlay attached.
func New(opts ...Option) *Engine {
	e := &Engine{settings: DefaultSettings}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Attach gives the engine a copy of overlay to draw into. Any gesture in
// progress is cancelled.
func (e *Engine) Attach(overlay *raster.Buffer) {
	e.Cancel()
	if overlay == nil {
		e.overlay = nil
		return
	}
	e.overlay = overlay.Clone()
}

// Detach drops the overlay.
func (e *Engine) Detach() {
	e.Cancel()
	e.overlay = nil
}

// Attached reports whether an overlay is present.
func (e *Engine) Attached() bool { return e.overlay != nil }

// Overlay returns a copy of the current overlay, nil when detached.
func (e *Engine) Overlay() *raster.Buffer {
	if e.overlay == nil {
		return nil
	}
	return e.overlay.Clone()
}

// Tool returns the selected tool.
func (e *Engine) Tool() Tool { return e.tool }

// SetTool switches tools, abandoning any gesture in progress.
func (e *Engine) SetTool(t Tool) {
	e.Cancel()
	e.tool = t
}

// Settings returns the brush settings.
func (e *Engine) Settings() Settings { return e.settings }

// SetSettings replaces the brush settings.
func (e *Engine) SetSettings(s Settings) { e.settings = s }

// State returns the gesture state.
func (e *Engine) State() State { return e.state }

// Cancel returns to idle without committing. Segments already drawn by a
// stroke stay in the overlay.
func (e *Engine) Cancel() { e.state = StateIdle }

// Down starts a gesture at p. It reports false when no overlay is attached
// or a gesture is already active.
func (e *Engine) Down(p geom.Point) bool {
	if e.overlay == nil || e.state != StateIdle {
		return false
	}
	e.anchor, e.last, e.current = p, p, p
	if e.tool.Stroked() {
		e.state = StateStroke
	} else {
		e.state = StateShape
	}
	return true
}

// Move extends a stroke or updates the shape preview. It reports whether
// the overlay changed.
func (e *Engine) Move(p geom.Point) bool {
	switch e.state {
	case StateStroke:
		e.segment(e.last, p)
		e.last = p
		e.current = p
		return true
	case StateShape:
		e.current = p
	}
	return false
}

// Preview returns the live shape endpoints while a shape drag is active.
func (e *Engine) Preview() (Preview, bool) {
	if e.state != StateShape {
		return Preview{}, false
	}
	return Preview{Tool: e.tool, Anchor: e.anchor, Current: e.current}, true
}

// Up finishes the gesture at p and returns a copy of the overlay as the
// commit. It reports false when no gesture was active.
func (e *Engine) Up(p geom.Point) (*raster.Buffer, bool) {
	switch e.state {
	case StateStroke:
		if !p.Eq(e.last) {
			e.segment(e.last, p)
		} else if e.last.Eq(e.anchor) {
			e.dot(p)
		}
	case StateShape:
		e.shape(e.anchor, p)
	default:
		return nil, false
	}
	e.state = StateIdle
	return e.overlay.Clone(), true
}

func (e *Engine) segment(a, b geom.Point) {
	if e.tool == ToolEraser {
		eraseSegment(e.overlay, a, b, e.settings.Width)
		return
	}
	strokeSegment(e.overlay.RGBA(), a, b, e.settings.Color, e.settings.Width)
}

func (e *Engine) dot(p geom.Point) {
	if e.tool == ToolEraser {
		eraseDot(e.overlay, p, e.settings.Width)
		return
	}
	fillDot(e.overlay.RGBA(), p, e.settings.Color, e.settings.Width)
}

func (e *Engine) shape(a, b geom.Point) {
	img := e.overlay.RGBA()
	c := e.settings.Color
	switch e.tool {
	case ToolRectangle:
		fillRect(img, a, b, c)
	case ToolCircle:
		fillCircle(img, a, b, c)
	case ToolOval:
		fillOval(img, a, b, c)
	case ToolTriangle:
		fillTriangle(img, a, b, c)
	case ToolLine:
		strokeSegment(img, a, b, c, e.settings.Width)
	case ToolText:
		stampText(img, a, e.settings.Text, c)
	case ToolFill:
		FloodFill(e.overlay, a.Round().X, a.Round().Y, c)
	}
}
