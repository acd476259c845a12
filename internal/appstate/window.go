package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/geom"
	lpaint "github.com/example/layerpaint/internal/paint"
	"github.com/example/layerpaint/internal/raster"
	"github.com/example/layerpaint/internal/render"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// frame is everything drawFrame needs, captured on the event goroutine.
type frame struct {
	width, height int
	canvas        image.Rectangle
	composite     *raster.Buffer
	mode          editor.Mode
	busy          bool
	mask          *raster.Mask
	crop          geom.Box
	cropping      bool
	preview       lpaint.Preview
	previewing    bool
	scale         geom.Scale
	message       string
	status        string
}

func (a *AppState) snapshot(width, height int, canvas image.Rectangle) frame {
	s := a.Session
	f := frame{width: width, height: height, canvas: canvas, mode: s.Mode(), busy: s.Busy(), scale: s.Scale()}
	f.composite, _ = s.Composite()
	switch f.mode {
	case editor.ModeMask:
		f.mask = s.Mask()
	case editor.ModeCrop:
		f.crop, f.cropping = s.CropOverlay()
	case editor.ModeDraw:
		f.preview, f.previewing = s.ShapePreview()
	}
	f.message = a.Message()
	f.status = a.statusText()
	return f
}

func (a *AppState) statusText() string {
	s := a.Session
	st := s.Settings()
	layer := "-"
	if infos, i := s.Layers(), s.Active(); i >= 0 && i < len(infos) {
		vis := ""
		if !infos[i].Visible {
			vis = " hidden"
		}
		layer = fmt.Sprintf("%s %d/%d %d%%%s", infos[i].Name, i+1, len(infos), infos[i].Opacity, vis)
	}
	text := fmt.Sprintf("%s | %s | %s | width %g | %s", a.Title, s.Mode(), s.Tool(), st.Width, layer)
	if s.Tool() == lpaint.ToolText {
		text += fmt.Sprintf(" | text %q", st.Text)
	}
	if s.Busy() {
		text += " | working..."
	}
	return text
}

func (a *AppState) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, f frame) {
	b, err := s.NewBuffer(image.Point{f.width, f.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	th := a.Theme

	var img *image.RGBA
	if f.composite != nil {
		img = f.composite.RGBA()
	}
	render.Canvas(dst, img, f.canvas, th)
	if ctx.Err() != nil {
		return
	}

	if f.mask != nil {
		render.MaskTint(dst, f.canvas, f.mask, th.MaskTint)
	}
	if f.cropping {
		render.CropSelection(dst, f.canvas, f.crop, th.CropLine, th.CropShade)
	}
	if f.previewing {
		render.ShapeOutline(dst, f.canvas, f.preview, f.scale, th.PreviewLine)
	}
	if f.busy {
		render.Veil(dst, f.canvas, th.BusyTint)
	}
	if ctx.Err() != nil {
		return
	}

	render.StatusLine(dst, f.status, th.Foreground)
	render.Banner(dst, f.message, th.Foreground)
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// Main runs the event loop on s until the window closes.
func (a *AppState) Main(s screen.Screen) {
	defer a.close()

	width, height := 800, 600
	if sz := a.Session.Size(); sz.X > 0 && sz.Y > 0 {
		width = sz.X + 2*render.Margin
		height = sz.Y + 2*render.Margin
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	var (
		paintMu     sync.Mutex
		paintCancel context.CancelFunc
		dropCount   int
	)
	paintCh := make(chan frame, 1)
	defer close(paintCh)
	go func() {
		for f := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			a.drawFrame(ctx, s, w, f)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	var canvas image.Rectangle
	layout := func() {
		canvas = render.Fit(a.Session.Size(), image.Pt(width, height))
		a.Session.SetViewport(canvas.Size())
	}
	layout()

	pressed := false
	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			layout()
			w.Send(paint.Event{})
		case paint.Event:
			if a.Session.Size() != a.lastSize() {
				layout()
			}
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			f := a.snapshot(width, height, canvas)
			select {
			case paintCh <- f:
			default:
				<-paintCh
				paintCh <- f
			}
			a.setLastSize(a.Session.Size())
		case mouse.Event:
			if e.Button != mouse.ButtonLeft && e.Button != mouse.ButtonNone {
				continue
			}
			p := render.Local(e.X, e.Y, canvas)
			inside := image.Pt(int(e.X), int(e.Y)).In(canvas)
			switch e.Direction {
			case mouse.DirPress:
				if !inside {
					continue
				}
				pressed = true
				a.Session.PointerDown(p)
			case mouse.DirRelease:
				if !pressed {
					continue
				}
				pressed = false
				a.Session.PointerUp(p)
			case mouse.DirNone:
				if !pressed {
					continue
				}
				if !inside && a.Session.Mode() == editor.ModeCrop {
					pressed = false
					a.Session.PointerLeave()
					continue
				}
				a.Session.PointerMove(p)
			}
		case key.Event:
			if a.HandleKey(e) {
				stopPaint()
				return
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}

func (a *AppState) lastSize() image.Point {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shownSize
}

func (a *AppState) setLastSize(p image.Point) {
	a.mu.Lock()
	a.shownSize = p
	a.mu.Unlock()
}
