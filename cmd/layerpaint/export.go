package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/layerpaint/internal/export"
	"github.com/example/layerpaint/internal/raster"
	"github.com/example/layerpaint/internal/remote"
)

// exportCmd converts an image to PNG, JPEG or PDF locally, or hands the
// conversion and storage to the processing service.
type exportCmd struct {
	*root
	fs         *flag.FlagSet
	format     string
	viaService bool
	remoteSave string
	normalize  bool
	source     string
	output     string
	stdout     io.Writer
}

func (x *exportCmd) Program() string {
	if x.root == nil {
		return "layerpaint export"
	}
	return x.root.program + " export"
}

func (x *exportCmd) FlagSet() *flag.FlagSet {
	return x.fs
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	x := &exportCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(x)
	fs.StringVar(&x.format, "format", "", "png, jpeg or pdf (default from the output extension)")
	fs.BoolVar(&x.viaService, "remote", false, "let the processing service encode the image (png or jpeg)")
	fs.BoolVar(&x.normalize, "normalize", false, "round-trip the image through the service's upload endpoint first")
	fs.StringVar(&x.remoteSave, "remote-save", "", "store the image at this path on the processing service instead of writing locally")

	flagArgs, positionals, err := splitArgs(fs, args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	switch {
	case x.remoteSave != "" && len(positionals) == 1:
	case x.remoteSave == "" && len(positionals) == 2:
		x.output = positionals[1]
	default:
		return nil, &UsageError{of: x}
	}
	x.source = positionals[0]
	if _, err := x.kind(); err != nil {
		return nil, err
	}
	return x, nil
}

func (x *exportCmd) kind() (export.Kind, error) {
	switch {
	case x.format != "":
		return export.KindFor(x.format)
	case x.remoteSave != "":
		return export.KindFor(x.remoteSave)
	case x.output == "-":
		return export.KindPNG, nil
	}
	return export.KindFor(x.output)
}

// serviceFormat maps an output kind to the formats the service accepts.
func serviceFormat(k export.Kind) (remote.Format, error) {
	switch k {
	case export.KindPNG:
		return raster.FormatPNG, nil
	case export.KindJPEG:
		return raster.FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: the processing service cannot produce %s", raster.ErrFormat, k)
}

func (x *exportCmd) Run() error {
	ctx := context.Background()
	b, err := x.root.loadSource(ctx, x.source)
	if err != nil {
		return err
	}
	k, err := x.kind()
	if err != nil {
		return err
	}
	if x.normalize {
		if b, err = x.upload(ctx, b); err != nil {
			return err
		}
	}
	if x.remoteSave != "" || x.viaService {
		return x.runRemote(ctx, b, k)
	}
	if x.output == "-" {
		return export.Write(x.stdout, b, k)
	}
	f, err := os.Create(x.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", x.output, err)
	}
	if err := export.Write(f, b, k); err != nil {
		f.Close()
		return fmt.Errorf("failed to export %s: %w", x.output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(x.stdout, x.output)
	x.root.notifier.Export(x.output)
	return nil
}

// upload normalises b on the processing service.
func (x *exportCmd) upload(ctx context.Context, b *raster.Buffer) (*raster.Buffer, error) {
	c, err := x.root.client(ctx)
	if err != nil {
		return nil, err
	}
	data, err := b.PNG()
	if err != nil {
		return nil, err
	}
	out, err := c.Upload(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload: %w", err)
	}
	return raster.DecodeBytes(out)
}

func (x *exportCmd) runRemote(ctx context.Context, b *raster.Buffer, k export.Kind) error {
	format, err := serviceFormat(k)
	if err != nil {
		return err
	}
	c, err := x.root.client(ctx)
	if err != nil {
		return err
	}
	data, err := b.PNG()
	if err != nil {
		return err
	}
	if x.remoteSave != "" {
		msg, err := c.Save(ctx, data, x.remoteSave, format)
		if err != nil {
			return fmt.Errorf("failed to save on service: %w", err)
		}
		fmt.Fprintln(x.stdout, msg)
		x.root.notifier.Export(x.remoteSave)
		return nil
	}
	out, err := c.Export(ctx, data, format)
	if err != nil {
		return fmt.Errorf("failed to export on service: %w", err)
	}
	if x.output == "-" {
		_, err = x.stdout.Write(out)
		return err
	}
	if err := os.WriteFile(x.output, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", x.output, err)
	}
	fmt.Fprintln(x.stdout, x.output)
	x.root.notifier.Export(x.output)
	return nil
}
