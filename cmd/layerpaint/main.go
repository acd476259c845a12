package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/example/layerpaint/internal/config"
	"github.com/example/layerpaint/internal/notify"
	"github.com/example/layerpaint/internal/remote"
	"github.com/example/layerpaint/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// discoverTimeout bounds the mDNS lookup for the processing service.
const discoverTimeout = 2 * time.Second

type runnable interface{ Run() error }

type root struct {
	fs             *flag.FlagSet
	program        string
	notifier       *notify.Notifier
	config         *config.Config
	saveAlerts     bool
	exportAlerts   bool
	processAlerts  bool
	themeName      string
	service        string
	discover       bool
	activeTheme    *theme.Theme
	discoverFn     func(ctx context.Context, timeout time.Duration) (string, error)
	remoteClient   *remote.Client
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:         flag.NewFlagSet("layerpaint", flag.ExitOnError),
		program:    "layerpaint",
		notifier:   notify.New(prefs),
		config:     cfg,
		discoverFn: remote.Discover,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting or copying")
	r.fs.BoolVar(&r.processAlerts, "notify-process", cfg.Notify.Process, "show a desktop notification when a remote operation finishes")

	// Precedence: CLI > Env > Config > Default. Empty flag values fall through.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.StringVar(&r.service, "service", "", "base URL of the processing service (env "+config.EnvService+")")
	r.fs.BoolVar(&r.discover, "discover", cfg.Discover, "look the processing service up over mDNS when no URL is configured")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventProcess, r.processAlerts)
	}

	themeName := r.config.ThemeName(r.themeName)
	t, err := r.config.ResolveTheme(themeName)
	if err != nil {
		if themeName != "" && themeName != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", themeName, err)
		}
		t = theme.Default()
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "apply":
		cmd, err = parseApplyCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// serviceURL resolves the processing service address. Discovery is only
// tried when nothing was configured explicitly.
func (r *root) serviceURL(ctx context.Context) string {
	explicit := r.service != "" || os.Getenv(config.EnvService) != "" || r.config.Service != ""
	if r.discover && !explicit && r.discoverFn != nil {
		u, err := r.discoverFn(ctx, discoverTimeout)
		if err == nil {
			log.Printf("discovered processing service at %s", u)
			return u
		}
		log.Printf("discover: %v", err)
	}
	return r.config.ServiceURL(r.service)
}

// client returns the processing service client, creating it on first use.
func (r *root) client(ctx context.Context) (*remote.Client, error) {
	if r.remoteClient != nil {
		return r.remoteClient, nil
	}
	c, err := remote.NewClient(r.serviceURL(ctx), remote.WithTimeouts(r.config.Timeouts))
	if err != nil {
		return nil, fmt.Errorf("processing service: %w", err)
	}
	r.remoteClient = c
	return c, nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
