package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/paint"
	"github.com/example/layerpaint/internal/raster"
	"github.com/example/layerpaint/internal/theme"
)

// drawCmd replays one tool gesture on an image without opening a window.
type drawCmd struct {
	*root
	fs          *flag.FlagSet
	output      string
	toClipboard bool
	colorSpec   string
	width       float64
	text        string
	newLayer    bool
	opacity     int
	source      string
	tool        paint.Tool
	points      []geom.Point
	settings    paint.Settings
}

func (d *drawCmd) Program() string {
	if d.root == nil {
		return "layerpaint draw"
	}
	return d.root.program + " draw"
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	brush := paint.DefaultSettings
	if r != nil && r.config != nil {
		brush = r.config.Brush
	}
	fs.StringVar(&d.output, "output", "", "output file path (defaults to the input file)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&d.colorSpec, "color", theme.Hex(brush.Color), "brush color name or hex value")
	fs.Float64Var(&d.width, "width", brush.Width, "brush width in pixels")
	fs.StringVar(&d.text, "text", brush.Text, "text stamped by the text tool")
	fs.BoolVar(&d.newLayer, "new-layer", false, "draw on a new layer above the image")
	fs.IntVar(&d.opacity, "opacity", 100, "opacity of the layer drawn on, 0 to 100")

	flagArgs, positionals, err := splitArgs(fs, args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 2 {
		return nil, &UsageError{of: d}
	}
	d.source = positionals[0]
	if d.tool, err = paint.ParseTool(positionals[1]); err != nil {
		return nil, err
	}
	if d.points, err = parsePoints(positionals[2:], d.tool.String()); err != nil {
		return nil, err
	}
	switch {
	case d.tool.Stroked():
	case d.tool == paint.ToolFill || d.tool == paint.ToolText:
		if len(d.points) != 1 {
			return nil, fmt.Errorf("%s requires a single x y point", d.tool)
		}
	default:
		if len(d.points) != 2 {
			return nil, fmt.Errorf("%s requires x1 y1 x2 y2", d.tool)
		}
	}
	if d.tool == paint.ToolText && strings.TrimSpace(d.text) == "" {
		return nil, fmt.Errorf("text content cannot be empty")
	}
	c, err := theme.ParseColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	if d.width <= 0 {
		return nil, fmt.Errorf("width must be positive")
	}
	if d.opacity < 0 || d.opacity > 100 {
		return nil, fmt.Errorf("opacity must be between 0 and 100")
	}
	d.settings = paint.Settings{Color: c, Width: d.width, Text: d.text}
	if d.output == "" && !d.toClipboard {
		if !writableSource(d.source) {
			return nil, fmt.Errorf("output file is required when reading from %s", d.source)
		}
		d.output = d.source
	}
	return d, nil
}

// render applies the gesture to b through an editor session and returns
// the composite.
func (d *drawCmd) render(b *raster.Buffer) (*raster.Buffer, error) {
	s := editor.New(editor.WithSettings(d.settings), editor.WithTool(d.tool), editor.WithMode(editor.ModeDraw))
	if err := s.Load(b); err != nil {
		return nil, err
	}
	s.SetViewport(s.Size())
	if d.newLayer {
		s.AddLayer()
	}
	if d.opacity != 100 {
		s.SetOpacity(s.Active(), d.opacity)
	}
	s.PointerDown(d.points[0])
	for _, p := range d.points[1:] {
		s.PointerMove(p)
	}
	s.PointerUp(d.points[len(d.points)-1])
	return s.Composite()
}

func (d *drawCmd) Run() error {
	b, err := d.root.loadSource(context.Background(), d.source)
	if err != nil {
		return err
	}
	out, err := d.render(b)
	if err != nil {
		return fmt.Errorf("failed to draw %s: %w", d.tool, err)
	}
	return d.root.writeResult(out, d.output, d.toClipboard)
}
