package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/layerpaint/internal/remote"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/edits
service = http://proc.local:5000
discover = true

[brush]
color = crimson
width = 12.5
text = "Hello"

[timeouts]
filter = 45s
heavy = 20m

[notify]
save = true
export = false
process = true

[theme.my_custom_theme]
Background = #111111
MaskTint = #00FF0040
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/edits" {
		t.Errorf("Expected save_dir '/tmp/edits', got '%s'", cfg.SaveDir)
	}
	if cfg.Service != "http://proc.local:5000" || !cfg.Discover {
		t.Errorf("service %q discover %v", cfg.Service, cfg.Discover)
	}
	if cfg.Brush.Color != (color.RGBA{220, 20, 60, 255}) {
		t.Errorf("brush color %+v", cfg.Brush.Color)
	}
	if cfg.Brush.Width != 12.5 || cfg.Brush.Text != "Hello" {
		t.Errorf("brush %+v", cfg.Brush)
	}
	if cfg.Timeouts.Filter != 45*time.Second || cfg.Timeouts.Heavy != 20*time.Minute {
		t.Errorf("timeouts %+v", cfg.Timeouts)
	}
	if !cfg.Notify.Save || cfg.Notify.Export || !cfg.Notify.Process {
		t.Errorf("notify %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
	if th.MaskTint != (color.RGBA{0, 0x40, 0, 0x40}) {
		t.Errorf("Unexpected MaskTint: %+v", th.MaskTint)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timeouts != remote.DefaultTimeouts {
		t.Errorf("timeouts %+v", cfg.Timeouts)
	}
	if cfg.Brush.Width != 5 || cfg.Brush.Color != (color.RGBA{A: 255}) {
		t.Errorf("brush %+v", cfg.Brush)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"[timeouts]\nfilter = soon\n",
		"[brush]\nwidth = -1\n",
		"[brush]\ncolor = #zzzzzz\n",
		"[notify]\nsave = maybe\n",
		"discover = perhaps\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/edits
service = http://10.0.0.2:5000

[brush]
color = #336699
width = 3
text = Label

[timeouts]
filter = 10s
heavy = 5m

[notify]
save = true
export = true
process = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir || cfg.Service != cfg2.Service {
		t.Errorf("root mismatch:\n%s", generated)
	}
	if cfg.Brush != cfg2.Brush {
		t.Errorf("Brush mismatch: %+v vs %+v", cfg.Brush, cfg2.Brush)
	}
	if cfg.Timeouts != cfg2.Timeouts {
		t.Errorf("Timeouts mismatch: %+v vs %+v", cfg.Timeouts, cfg2.Timeouts)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestPrecedence(t *testing.T) {
	cfg := New()
	cfg.Service = "http://file:1"
	cfg.Theme = "file"

	t.Setenv(EnvService, "")
	t.Setenv(EnvTheme, "")
	if got := cfg.ServiceURL(""); got != "http://file:1" {
		t.Errorf("file value lost: %q", got)
	}

	t.Setenv(EnvService, "http://env:2")
	t.Setenv(EnvTheme, "env")
	if got := cfg.ServiceURL(""); got != "http://env:2" {
		t.Errorf("env should beat file: %q", got)
	}
	if got := cfg.ThemeName("flag"); got != "flag" {
		t.Errorf("flag should beat env: %q", got)
	}

	t.Setenv(EnvService, "")
	if got := New().ServiceURL(""); got != remote.DefaultBaseURL {
		t.Errorf("default: %q", got)
	}
}

func TestLoaderOverrideAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.rc")
	cfg := New()
	cfg.SaveDir = "/tmp/out"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	l := NewLoader("1.0.0", path)
	if got := l.GetConfigPath(); got != path {
		t.Fatalf("GetConfigPath = %q", got)
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.SaveDir != "/tmp/out" {
		t.Fatalf("save_dir %q", loaded.SaveDir)
	}
}

func TestResolveTheme(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[theme.night]\nBackground = #010101\n"))
	if err != nil {
		t.Fatal(err)
	}
	th, err := cfg.ResolveTheme("night")
	if err != nil || th.Background != (color.RGBA{1, 1, 1, 255}) {
		t.Fatalf("config theme: %+v %v", th, err)
	}
	th, err = cfg.ResolveTheme("dark")
	if err != nil || th.Name != "Dark" {
		t.Fatalf("builtin theme: %+v %v", th, err)
	}
}
