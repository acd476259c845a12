// Package appstate hosts an editor session in a shiny window: it turns
// mouse and key events into session calls, runs remote operations off the
// event loop and paints the result.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/example/layerpaint/internal/clipboard"
	"github.com/example/layerpaint/internal/crop"
	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/export"
	"github.com/example/layerpaint/internal/notify"
	"github.com/example/layerpaint/internal/paint"
	"github.com/example/layerpaint/internal/raster"
	"github.com/example/layerpaint/internal/remote"
	"github.com/example/layerpaint/internal/theme"
)

// messageDuration is how long a banner stays up.
const messageDuration = 2 * time.Second

// opacityStep is the change applied by the opacity shortcuts.
const opacityStep = 10

// AppState holds application configuration for the UI.
type AppState struct {
	Session  *editor.Session
	Theme    *theme.Theme
	Output   string
	Notifier *notify.Notifier
	Title    string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	updateCh chan struct{}

	mu            sync.Mutex
	message       string
	messageUntil  time.Time
	confirmDelete bool
	textEditing   bool
	shownSize     image.Point

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the session the window edits.
func WithSession(s *editor.Session) Option { return func(a *AppState) { a.Session = s } }

// WithTheme sets the canvas colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithOutput sets the output file path used when saving.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithTitle sets the window title shown in the status line.
func WithTitle(t string) Option { return func(a *AppState) { a.Title = t } }

// WithOnClose registers a callback run once when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New wires the session listeners: crop and mask commits start the
// matching remote operation in the background and every visible change
// requests a repaint.
func New(opts ...Option) *AppState {
	a := &AppState{
		Output:   export.DefaultName,
		Title:    "Layerpaint",
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.Session == nil {
		a.Session = editor.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.Session.OnChange(a.NotifyImageChanged)
	a.Session.OnCrop(func(r crop.Rect) {
		a.Go(remote.OpCrop, func(ctx context.Context) error { return a.Session.ApplyCrop(ctx, r) })
	})
	a.Session.OnMask(func(*raster.Mask) {
		a.Go(remote.OpInpaint, func(ctx context.Context) error { return a.Session.ApplyMask(ctx, "") })
	})
	return a
}

// NotifyImageChanged requests a repaint of the UI.
func (a *AppState) NotifyImageChanged() {
	if a.updateCh == nil {
		return
	}
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

// Flash shows msg in a banner for a short time and logs it.
func (a *AppState) Flash(msg string) {
	log.Print(msg)
	a.mu.Lock()
	a.message = msg
	a.messageUntil = time.Now().Add(messageDuration)
	a.mu.Unlock()
	a.NotifyImageChanged()
}

// Message returns the banner text if it is still current.
func (a *AppState) Message() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.message == "" || time.Now().After(a.messageUntil) {
		return ""
	}
	return a.message
}

// Go runs a remote operation on its own goroutine and reports the outcome
// through the banner and the notifier.
func (a *AppState) Go(op string, fn func(ctx context.Context) error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.NotifyImageChanged()
		err := fn(a.ctx)
		a.finish(op, err)
	}()
}

// Wait blocks until background operations have finished.
func (a *AppState) Wait() { a.wg.Wait() }

func (a *AppState) finish(op string, err error) {
	switch {
	case err == nil:
		a.Flash(op + " done")
	case errors.Is(err, context.Canceled):
		return
	default:
		a.Flash(fmt.Sprintf("%s: %v", op, err))
	}
	var result *raster.Buffer
	if err == nil {
		result, _ = a.Session.Composite()
	}
	if result != nil {
		a.Notifier.Process(op, result.RGBA(), nil)
	} else {
		a.Notifier.Process(op, nil, err)
	}
}

func (a *AppState) close() {
	a.closeOnce.Do(func() {
		a.cancel()
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Save writes the composite to Output.
func (a *AppState) Save() error {
	c, err := a.Session.Composite()
	if err != nil {
		return err
	}
	if err := export.File(a.Output, c); err != nil {
		return err
	}
	a.Flash(fmt.Sprintf("saved %s", a.Output))
	a.Notifier.Save(a.Output)
	return nil
}

// ExportPDF writes the composite next to Output with a .pdf extension.
func (a *AppState) ExportPDF() error {
	c, err := a.Session.Composite()
	if err != nil {
		return err
	}
	path := a.Output[:len(a.Output)-len(filepath.Ext(a.Output))] + ".pdf"
	if err := export.File(path, c); err != nil {
		return err
	}
	a.Flash(fmt.Sprintf("exported %s", path))
	a.Notifier.Export(path)
	return nil
}

// Copy puts the composite on the clipboard.
func (a *AppState) Copy() error {
	c, err := a.Session.Composite()
	if err != nil {
		return err
	}
	if err := clipboard.WriteBuffer(c); err != nil {
		return err
	}
	a.Flash("image copied to clipboard")
	a.Notifier.Export("clipboard")
	return nil
}

// Paste replaces the session image with the clipboard contents.
func (a *AppState) Paste() error {
	b, err := clipboard.ReadBuffer()
	if err != nil {
		return err
	}
	if err := a.Session.Load(b); err != nil {
		return err
	}
	a.Flash("pasted image from clipboard")
	return nil
}

// Perform runs a named action. Unknown names report false.
func (a *AppState) Perform(action string) bool {
	fn, ok := a.actions()[action]
	if !ok {
		return false
	}
	if err := fn(); err != nil {
		a.Flash(fmt.Sprintf("%s: %v", action, err))
	}
	return true
}

func (a *AppState) actions() map[string]func() error {
	s := a.Session
	mode := func(m editor.Mode) func() error { return func() error { return s.SetMode(m) } }
	tool := func(t paint.Tool) func() error {
		return func() error {
			s.SetTool(t)
			if s.Mode() != editor.ModeDraw {
				return s.SetMode(editor.ModeDraw)
			}
			return nil
		}
	}
	apply := func(op string) func() error {
		return func() error {
			if s.Busy() {
				return editor.ErrBusy
			}
			a.Go(op, func(ctx context.Context) error { return s.Apply(ctx, op, nil) })
			return nil
		}
	}
	width := func(delta float64) func() error {
		return func() error {
			st := s.Settings()
			st.Width = max(1, st.Width+delta)
			s.SetSettings(st)
			a.Flash(fmt.Sprintf("width %g", st.Width))
			return nil
		}
	}
	opacity := func(delta int) func() error {
		return func() error {
			infos, i := s.Layers(), s.Active()
			if i < 0 || i >= len(infos) {
				return editor.ErrNoImage
			}
			s.SetOpacity(i, infos[i].Opacity+delta)
			return nil
		}
	}
	selectRel := func(delta int) func() error {
		return func() error {
			s.SelectLayer(s.Active() + delta)
			return nil
		}
	}

	return map[string]func() error{
		"view":      mode(editor.ModeView),
		"draw":      mode(editor.ModeDraw),
		"mask":      mode(editor.ModeMask),
		"crop":      mode(editor.ModeCrop),
		"freehand":  tool(paint.ToolFreehand),
		"eraser":    tool(paint.ToolEraser),
		"rectangle": tool(paint.ToolRectangle),
		"circle":    tool(paint.ToolCircle),
		"oval":      tool(paint.ToolOval),
		"triangle":  tool(paint.ToolTriangle),
		"line":      tool(paint.ToolLine),
		"text":      tool(paint.ToolText),
		"fill":      tool(paint.ToolFill),
		"undo":      func() error { s.Undo(); return nil },
		"redo":      func() error { s.Redo(); return nil },
		"save":      a.Save,
		"pdf":       a.ExportPDF,
		"copy":      a.Copy,
		"paste":     a.Paste,
		"addlayer":  func() error { s.AddLayer(); return nil },
		"dellayer":  func() error { s.DeleteLayer(s.Active()); return nil },
		"hide":      func() error { s.ToggleVisibility(s.Active()); return nil },
		"layerup":   selectRel(1),
		"layerdown": selectRel(-1),
		"opaque":    opacity(opacityStep),
		"fade":      opacity(-opacityStep),
		"wider":     width(1),
		"thinner":   width(-1),
		"clear":     func() error { s.ClearOverlay(); return nil },
		"autocolor": apply(remote.OpAutoColor),
		"removebg":  apply(remote.OpRemoveBG),
		"upscale":   apply(remote.OpSuperResolution),
		"cancel": func() error {
			if s.Mode() == editor.ModeMask {
				s.ClearMask()
			}
			return s.SetMode(editor.ModeView)
		},
	}
}
