package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/example/layerpaint/internal/appstate"
	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/paint"
)

// editCmd opens an image in the interactive window.
type editCmd struct {
	*root
	fs      *flag.FlagSet
	output  string
	mode    string
	tool    string
	offline bool
	source  string
}

func (e *editCmd) Program() string        { return e.root.program + " edit" }
func (e *editCmd) FlagSet() *flag.FlagSet { return e.fs }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	e := &editCmd{root: r, fs: fs}
	fs.StringVar(&e.output, "output", "", "file written by Ctrl+S (default "+r.outputPath("")+")")
	fs.StringVar(&e.mode, "mode", "draw", "initial mode: view, draw, mask or crop")
	fs.StringVar(&e.tool, "tool", "freehand", "initial drawing tool")
	fs.BoolVar(&e.offline, "offline", false, "do not connect to the processing service")
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: e}
	}
	e.source = fs.Arg(0)
	if _, err := editor.ParseMode(e.mode); err != nil {
		return nil, err
	}
	if _, err := paint.ParseTool(e.tool); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *editCmd) session(ctx context.Context) (*editor.Session, error) {
	mode, _ := editor.ParseMode(e.mode)
	tool, _ := paint.ParseTool(e.tool)
	opts := []editor.Option{
		editor.WithMode(mode),
		editor.WithTool(tool),
		editor.WithSettings(e.root.config.Brush),
	}
	if !e.offline {
		c, err := e.root.client(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, editor.WithProcessor(c))
	}
	s := editor.New(opts...)
	b, err := e.root.loadSource(ctx, e.source)
	if err != nil {
		return nil, err
	}
	if err := s.Load(b); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", e.source, err)
	}
	return s, nil
}

func (e *editCmd) Run() error {
	s, err := e.session(context.Background())
	if err != nil {
		return err
	}
	title := "Layerpaint"
	if e.source != "-" {
		title = fmt.Sprintf("Layerpaint - %s", filepath.Base(e.source))
	}
	st := appstate.New(
		appstate.WithSession(s),
		appstate.WithTheme(e.root.activeTheme),
		appstate.WithOutput(e.root.outputPath(e.output)),
		appstate.WithNotifier(e.root.notifier),
		appstate.WithTitle(title),
	)
	st.Run()
	st.Wait()
	return nil
}
