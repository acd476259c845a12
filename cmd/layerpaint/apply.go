package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/example/layerpaint/internal/crop"
	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/paint"
	"github.com/example/layerpaint/internal/raster"
	"github.com/example/layerpaint/internal/remote"
)

// opAliases maps short command-line names to service operations.
var opAliases = map[string]string{
	"crop":        remote.OpCrop,
	"inpaint":     remote.OpInpaint,
	"autocolor":   remote.OpAutoColor,
	"removebg":    remote.OpRemoveBG,
	"upscale":     remote.OpSuperResolution,
	"adjust":      remote.OpAdjustments,
	"adjustments": remote.OpAdjustments,
}

func resolveOp(name string) string {
	if op, ok := opAliases[strings.ToLower(name)]; ok {
		return op
	}
	return name
}

// applyCmd runs one processing service operation on an image.
type applyCmd struct {
	*root
	fs          *flag.FlagSet
	output      string
	toClipboard bool
	width       float64
	params      paramFlag
	source      string
	op          string
	crop        crop.Rect
	stroke      []geom.Point
}

func (a *applyCmd) Program() string {
	if a.root == nil {
		return "layerpaint apply"
	}
	return a.root.program + " apply"
}

func (a *applyCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	a := &applyCmd{root: r, fs: fs, params: paramFlag{}}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.output, "output", "", "output file path (defaults to the input file)")
	fs.BoolVar(&a.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.Float64Var(&a.width, "width", paint.DefaultSettings.Width, "mask brush width for inpaint strokes")
	fs.Var(a.params, "param", "operation parameter as key=value (repeatable)")

	flagArgs, positionals, err := splitArgs(fs, args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 2 {
		return nil, &UsageError{of: a}
	}
	a.source = positionals[0]
	a.op = resolveOp(positionals[1])
	rest := positionals[2:]
	switch a.op {
	case remote.OpCrop:
		v, err := expectInts(rest, 4, "crop")
		if err != nil {
			return nil, err
		}
		a.crop = crop.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
		if a.crop.Width <= 0 || a.crop.Height <= 0 {
			return nil, fmt.Errorf("crop width and height must be positive")
		}
	case remote.OpInpaint:
		if a.stroke, err = parsePoints(rest, "inpaint"); err != nil {
			return nil, err
		}
	default:
		if len(rest) > 0 {
			return nil, fmt.Errorf("unexpected arguments for %s: %s", a.op, strings.Join(rest, " "))
		}
	}
	if a.width <= 0 {
		return nil, fmt.Errorf("width must be positive")
	}
	if a.output == "" && !a.toClipboard {
		if !writableSource(a.source) {
			return nil, fmt.Errorf("output file is required when reading from %s", a.source)
		}
		a.output = a.source
	}
	return a, nil
}

// process runs the operation on b with proc and returns the new composite.
func (a *applyCmd) process(ctx context.Context, b *raster.Buffer, proc remote.Processor) (*raster.Buffer, error) {
	s := editor.New(
		editor.WithProcessor(proc),
		editor.WithSettings(paint.Settings{Color: paint.DefaultSettings.Color, Width: a.width}),
	)
	if err := s.Load(b); err != nil {
		return nil, err
	}
	s.SetViewport(s.Size())
	var err error
	switch a.op {
	case remote.OpCrop:
		err = s.ApplyCrop(ctx, a.crop)
	case remote.OpInpaint:
		if err = s.SetMode(editor.ModeMask); err != nil {
			return nil, err
		}
		s.PointerDown(a.stroke[0])
		for _, p := range a.stroke[1:] {
			s.PointerMove(p)
		}
		s.PointerUp(a.stroke[len(a.stroke)-1])
		err = s.ApplyMask(ctx, "")
	default:
		var params map[string]any
		if len(a.params) > 0 {
			params = a.params
		}
		err = s.Apply(ctx, a.op, params)
	}
	if err != nil {
		return nil, err
	}
	return s.Composite()
}

func (a *applyCmd) Run() error {
	ctx := context.Background()
	b, err := a.root.loadSource(ctx, a.source)
	if err != nil {
		return err
	}
	c, err := a.root.client(ctx)
	if err != nil {
		return err
	}
	out, err := a.process(ctx, b, c)
	a.root.notifier.Process(a.op, imageOf(out), err)
	if err != nil {
		return fmt.Errorf("failed to apply %s: %w", a.op, err)
	}
	return a.root.writeResult(out, a.output, a.toClipboard)
}
