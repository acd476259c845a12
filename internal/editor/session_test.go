package editor

import (
	"context"
	"errors"
	"image"
	"image/color"
	"net/http"
	"testing"

	"github.com/example/layerpaint/internal/crop"
	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/paint"
	"github.com/example/layerpaint/internal/raster"
	"github.com/example/layerpaint/internal/remote"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func loadedSession(t *testing.T, w, h int, opts ...Option) *Session {
	t.Helper()
	s := New(opts...)
	if err := s.Load(raster.NewFilled(w, h, red)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func click(s *Session, p geom.Point) {
	s.PointerDown(p)
	s.PointerUp(p)
}

func TestHalfOpacityFillScenario(t *testing.T) {
	s := loadedSession(t, 100, 100)
	if _, ok := s.AddLayer(); !ok {
		t.Fatal("add layer failed")
	}
	if !s.SetOpacity(1, 50) {
		t.Fatal("set opacity failed")
	}
	if err := s.SetMode(ModeDraw); err != nil {
		t.Fatalf("mode: %v", err)
	}
	s.SetTool(paint.ToolFill)
	s.SetSettings(paint.Settings{Color: blue, Width: 5})
	click(s, geom.Pt(10, 10))

	out, err := s.Composite()
	if err != nil {
		t.Fatalf("composite: %v", err)
	}
	want := color.RGBA{R: 128, G: 0, B: 128, A: 255}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if got := out.At(x, y); got != want {
				t.Fatalf("(%d,%d) = %+v want %+v", x, y, got, want)
			}
		}
	}
}

func TestDrawCommitUndoRedo(t *testing.T) {
	var drawn *raster.Buffer
	s := loadedSession(t, 10, 10, WithOnDraw(func(b *raster.Buffer) { drawn = b }))
	_ = s.SetMode(ModeDraw)
	s.SetTool(paint.ToolRectangle)
	s.SetSettings(paint.Settings{Color: blue, Width: 2})
	s.PointerDown(geom.Pt(2, 2))
	s.PointerMove(geom.Pt(5, 5))
	if _, ok := s.ShapePreview(); !ok {
		t.Fatal("no preview during drag")
	}
	s.PointerUp(geom.Pt(8, 8))
	if drawn == nil || drawn.At(5, 5) != blue {
		t.Fatal("draw listener did not receive the overlay")
	}
	drawn.Set(5, 5, red)
	out, _ := s.Composite()
	if out.At(5, 5) != blue {
		t.Fatal("listener copy aliases session state")
	}
	if !s.Undo() {
		t.Fatal("undo refused")
	}
	out, _ = s.Composite()
	if out.At(5, 5) != red {
		t.Fatal("undo did not remove the drawing")
	}
	if s.Undo() {
		t.Fatal("undo past load")
	}
	if !s.Redo() {
		t.Fatal("redo refused")
	}
	out, _ = s.Composite()
	if out.At(5, 5) != blue {
		t.Fatal("redo did not restore the drawing")
	}
}

func TestCancelledStrokeRollsBack(t *testing.T) {
	cancels := map[string]func(s *Session){
		"mode":   func(s *Session) { _ = s.SetMode(ModeView) },
		"select": func(s *Session) { s.SelectLayer(0) },
		"tool":   func(s *Session) { s.SetTool(paint.ToolLine) },
	}
	for name, cancel := range cancels {
		t.Run(name, func(t *testing.T) {
			s := loadedSession(t, 10, 10)
			s.AddLayer()
			_ = s.SetMode(ModeDraw)
			s.SetTool(paint.ToolFreehand)
			s.SetSettings(paint.Settings{Color: blue, Width: 2})
			undoable := s.CanUndo()

			s.PointerDown(geom.Pt(1, 5))
			s.PointerMove(geom.Pt(8, 5))
			out, _ := s.Composite()
			if out.At(5, 5) == red {
				t.Fatal("stroke not shown while drawing")
			}

			cancel(s)
			out, _ = s.Composite()
			if out.At(5, 5) != red {
				t.Fatalf("cancelled stroke left %+v", out.At(5, 5))
			}
			if s.CanUndo() != undoable {
				t.Fatal("cancelled stroke changed history")
			}

			// The rolled back segments must not come back with the next stroke.
			_ = s.SetMode(ModeDraw)
			s.SelectLayer(1)
			s.SetTool(paint.ToolFreehand)
			click(s, geom.Pt(5, 1))
			out, _ = s.Composite()
			if out.At(5, 5) != red {
				t.Fatal("abandoned segments reappeared on commit")
			}
		})
	}
}

func TestSelectDoesNotCommit(t *testing.T) {
	s := loadedSession(t, 4, 4)
	s.AddLayer()
	s.Undo()
	if !s.SelectLayer(0) {
		t.Fatal("select failed")
	}
	if !s.CanRedo() {
		t.Fatal("select truncated history")
	}
	if s.Active() != 0 {
		t.Fatalf("active = %d", s.Active())
	}
}

func TestDeleteSoleLayer(t *testing.T) {
	s := loadedSession(t, 4, 4)
	if s.DeleteLayer(0) {
		t.Fatal("deleted the only layer")
	}
	if s.CanUndo() {
		t.Fatal("rejected delete entered history")
	}
}

func TestViewModeIgnoresPointer(t *testing.T) {
	s := loadedSession(t, 4, 4)
	s.SetTool(paint.ToolFill)
	click(s, geom.Pt(1, 1))
	if s.CanUndo() {
		t.Fatal("view mode accepted a draw")
	}
}

func TestPointerMapsThroughViewport(t *testing.T) {
	s := loadedSession(t, 20, 20)
	s.SetViewport(image.Pt(10, 10))
	_ = s.SetMode(ModeDraw)
	s.SetTool(paint.ToolRectangle)
	s.SetSettings(paint.Settings{Color: blue, Width: 1})
	s.PointerDown(geom.Pt(5, 5))
	s.PointerUp(geom.Pt(10, 10))
	out, _ := s.Composite()
	if out.At(15, 15) != blue || out.At(5, 5) != red {
		t.Fatal("display points were not scaled to raster space")
	}
}

type blockingProc struct {
	started chan remote.Request
	release chan struct{}
	result  []byte
	err     error
}

func (p *blockingProc) Process(ctx context.Context, req remote.Request) ([]byte, error) {
	p.started <- req
	<-p.release
	return p.result, p.err
}

func pngOf(t *testing.T, b *raster.Buffer) []byte {
	t.Helper()
	data, err := b.PNG()
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	return data
}

func TestBusyDuringRemoteCall(t *testing.T) {
	proc := &blockingProc{
		started: make(chan remote.Request, 1),
		release: make(chan struct{}),
		result:  pngOf(t, raster.NewFilled(6, 6, blue)),
	}
	s := loadedSession(t, 6, 6, WithProcessor(proc))
	done := make(chan error, 1)
	go func() { done <- s.Apply(context.Background(), "auto_color", nil) }()
	req := <-proc.started
	if req.Operation != "auto_color" || len(req.Image) == 0 {
		t.Fatalf("unexpected request %+v", req.Operation)
	}
	if !s.Busy() {
		t.Fatal("session not busy during call")
	}
	if _, ok := s.AddLayer(); ok {
		t.Fatal("layer edit accepted while busy")
	}
	if s.Undo() {
		t.Fatal("undo accepted while busy")
	}
	if err := s.Apply(context.Background(), "x", nil); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(proc.release)
	if err := <-done; err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.Busy() {
		t.Fatal("busy flag not cleared")
	}
	out, _ := s.Composite()
	if out.At(3, 3) != blue {
		t.Fatal("result not applied")
	}
	if !s.Undo() {
		t.Fatal("successful remote edit was not committed")
	}
}

func TestRemoteFailureLeavesStack(t *testing.T) {
	fail := &remote.Error{Op: "filters.blur", Status: http.StatusInternalServerError, Message: "boom"}
	proc := remote.ProcessorFunc(func(context.Context, remote.Request) ([]byte, error) { return nil, fail })
	s := loadedSession(t, 4, 4, WithProcessor(proc))
	err := s.Apply(context.Background(), "filters.blur", nil)
	var rerr *remote.Error
	if !errors.As(err, &rerr) || rerr.Status != http.StatusInternalServerError {
		t.Fatalf("expected remote error, got %v", err)
	}
	if s.CanUndo() || s.Busy() {
		t.Fatal("failed edit changed history or left session busy")
	}
	out, _ := s.Composite()
	if out.At(0, 0) != red {
		t.Fatal("failed edit changed pixels")
	}
}

func TestApplyWithoutProcessorOrImage(t *testing.T) {
	s := New()
	if err := s.Apply(context.Background(), "x", nil); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
	_ = s.Load(raster.New(2, 2))
	if err := s.Apply(context.Background(), "x", nil); !errors.Is(err, ErrNoProcessor) {
		t.Fatalf("expected ErrNoProcessor, got %v", err)
	}
}

func TestCropCommitAndApply(t *testing.T) {
	var got []crop.Rect
	var sent remote.Request
	proc := remote.ProcessorFunc(func(_ context.Context, req remote.Request) ([]byte, error) {
		sent = req
		return raster.NewFilled(20, 40, blue).PNG()
	})
	s := loadedSession(t, 100, 100, WithProcessor(proc), WithOnCrop(func(r crop.Rect) { got = append(got, r) }))
	s.SetViewport(image.Pt(50, 50))
	_ = s.SetMode(ModeCrop)
	s.PointerDown(geom.Pt(5, 5))
	s.PointerMove(geom.Pt(12, 20))
	if _, ok := s.CropOverlay(); !ok {
		t.Fatal("no live crop overlay")
	}
	s.PointerUp(geom.Pt(15, 25))
	if len(got) != 1 || got[0] != (crop.Rect{X: 10, Y: 10, Width: 20, Height: 40}) {
		t.Fatalf("crop commits %+v", got)
	}
	if s.Mode() != ModeView {
		t.Fatalf("mode after crop = %v", s.Mode())
	}
	if err := s.ApplyCrop(context.Background(), got[0]); err != nil {
		t.Fatalf("apply crop: %v", err)
	}
	if sent.Operation != remote.OpCrop || sent.Params["width"] != 20 {
		t.Fatalf("request %q %v", sent.Operation, sent.Params)
	}
	if sz := s.Size(); sz != image.Pt(20, 40) {
		t.Fatalf("size after crop %v", sz)
	}
}

func TestZeroAreaCropDiscarded(t *testing.T) {
	calls := 0
	s := loadedSession(t, 10, 10, WithOnCrop(func(crop.Rect) { calls++ }))
	_ = s.SetMode(ModeCrop)
	s.PointerDown(geom.Pt(3, 3))
	s.PointerUp(geom.Pt(3, 8))
	if calls != 0 {
		t.Fatal("zero-area crop emitted")
	}
	if s.Mode() != ModeCrop {
		t.Fatalf("discarded crop left crop mode: %v", s.Mode())
	}

	s.PointerLeave()
	if s.Mode() != ModeCrop {
		t.Fatalf("idle leave left crop mode: %v", s.Mode())
	}
	s.PointerUp(geom.Pt(5, 5))
	if s.Mode() != ModeCrop || calls != 0 {
		t.Fatalf("stray up: mode %v calls %d", s.Mode(), calls)
	}

	s.PointerDown(geom.Pt(2, 2))
	s.PointerUp(geom.Pt(6, 7))
	if calls != 1 || s.Mode() != ModeView {
		t.Fatalf("committed crop: mode %v calls %d", s.Mode(), calls)
	}
}

func TestCropResultSizeRejectedWithLayers(t *testing.T) {
	proc := remote.ProcessorFunc(func(context.Context, remote.Request) ([]byte, error) {
		return raster.NewFilled(2, 2, blue).PNG()
	})
	s := loadedSession(t, 8, 8, WithProcessor(proc))
	s.AddLayer()
	err := s.ApplyCrop(context.Background(), crop.Rect{Width: 2, Height: 2})
	if err == nil {
		t.Fatal("mismatched result accepted into a multi-layer stack")
	}
	if s.Size() != image.Pt(8, 8) {
		t.Fatal("stack resized")
	}
}

func TestMaskFlow(t *testing.T) {
	var masks int
	var sent remote.Request
	proc := remote.ProcessorFunc(func(_ context.Context, req remote.Request) ([]byte, error) {
		sent = req
		return raster.NewFilled(10, 10, blue).PNG()
	})
	s := loadedSession(t, 10, 10, WithProcessor(proc), WithOnMask(func(*raster.Mask) { masks++ }))
	_ = s.SetMode(ModeDraw)
	_ = s.SetMode(ModeMask)
	s.SetSettings(paint.Settings{Color: red, Width: 4})
	s.PointerDown(geom.Pt(1, 5))
	s.PointerMove(geom.Pt(8, 5))
	s.PointerUp(geom.Pt(8, 5))
	if masks != 1 {
		t.Fatalf("mask listener fired %d times", masks)
	}
	if !s.Mask().Selected() {
		t.Fatal("stroke did not select")
	}
	if err := s.ApplyMask(context.Background(), ""); err != nil {
		t.Fatalf("apply mask: %v", err)
	}
	if sent.Operation != remote.OpInpaint || len(sent.Mask) == 0 {
		t.Fatalf("mask request %q mask=%d bytes", sent.Operation, len(sent.Mask))
	}
	if s.Mask().Selected() {
		t.Fatal("mask not cleared after the operation")
	}
	if s.Mode() != ModeDraw {
		t.Fatalf("mode after mask = %v", s.Mode())
	}
}

func TestMaskClearedOnFailure(t *testing.T) {
	proc := remote.ProcessorFunc(func(context.Context, remote.Request) ([]byte, error) {
		return nil, &remote.Error{Op: remote.OpInpaint, Message: "no model"}
	})
	s := loadedSession(t, 6, 6, WithProcessor(proc))
	_ = s.SetMode(ModeMask)
	click(s, geom.Pt(3, 3))
	if err := s.ApplyMask(context.Background(), ""); err == nil {
		t.Fatal("expected failure")
	}
	if s.Mask().Selected() || s.Mode() != ModeView {
		t.Fatal("mask state not reset after failure")
	}
}

func TestRemoteFlattensOverlay(t *testing.T) {
	var sent *raster.Buffer
	proc := remote.ProcessorFunc(func(_ context.Context, req remote.Request) ([]byte, error) {
		b, err := raster.DecodeBytes(req.Image)
		sent = b
		return req.Image, err
	})
	s := loadedSession(t, 6, 6, WithProcessor(proc))
	_ = s.SetMode(ModeDraw)
	s.SetTool(paint.ToolRectangle)
	s.SetSettings(paint.Settings{Color: blue, Width: 1})
	s.PointerDown(geom.Pt(0, 0))
	s.PointerUp(geom.Pt(3, 3))
	if err := s.Apply(context.Background(), remote.OpAutoColor, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sent.At(1, 1) != blue {
		t.Fatal("overlay not flattened into the request")
	}
	if info := s.Layers()[0]; info.HasOverlay {
		t.Fatal("overlay survived a successful remote edit")
	}
}

func TestResetDropsEverything(t *testing.T) {
	s := loadedSession(t, 4, 4)
	s.AddLayer()
	s.Reset()
	if s.Loaded() || s.CanUndo() || s.Active() != -1 {
		t.Fatal("reset kept state")
	}
	if _, err := s.Composite(); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}
