package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/example/layerpaint/internal/paint"
	"github.com/example/layerpaint/internal/remote"
	"github.com/example/layerpaint/internal/theme"
)

// Environment variables consulted between the command line and the file.
const (
	EnvService = "LAYERPAINT_SERVICE"
	EnvTheme   = "LAYERPAINT_THEME"
)

// Notify holds notification settings.
type Notify struct {
	Save    bool
	Export  bool
	Process bool
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	SaveDir  string
	Service  string // base URL of the processing service
	Discover bool   // look the service up over mDNS when Service is empty
	Brush    paint.Settings
	Timeouts remote.Timeouts
	Notify   Notify
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:    "", // Default to empty to allow fallback to Env/Default
		Brush:    paint.DefaultSettings,
		Timeouts: remote.DefaultTimeouts,
		Themes:   make(map[string]*theme.Theme),
	}
}

// ServiceURL resolves the service address: flag, then environment, then
// file, then the built-in default.
func (c *Config) ServiceURL(flagValue string) string {
	for _, v := range []string{flagValue, os.Getenv(EnvService), c.Service} {
		if v != "" {
			return v
		}
	}
	return remote.DefaultBaseURL
}

// ThemeName resolves the theme name with the same precedence as ServiceURL.
// An empty result means the default theme.
func (c *Config) ThemeName(flagValue string) string {
	for _, v := range []string{flagValue, os.Getenv(EnvTheme), c.Theme} {
		if v != "" {
			return v
		}
	}
	return ""
}

// ResolveTheme returns the named theme from the file's [theme.*] sections,
// falling back to the theme loader.
func (c *Config) ResolveTheme(name string) (*theme.Theme, error) {
	if t, ok := c.Themes[name]; ok {
		return t, nil
	}
	return theme.NewLoader().Load(name)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Service != "" {
		fmt.Fprintf(&sb, "service = %s\n", c.Service)
	}
	fmt.Fprintf(&sb, "discover = %v\n", c.Discover)
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(c.Brush.Color))
	fmt.Fprintf(&sb, "width = %g\n", c.Brush.Width)
	if c.Brush.Text != "" {
		fmt.Fprintf(&sb, "text = %q\n", c.Brush.Text)
	}
	sb.WriteString("\n")

	sb.WriteString("[timeouts]\n")
	fmt.Fprintf(&sb, "filter = %s\n", c.Timeouts.Filter)
	fmt.Fprintf(&sb, "heavy = %s\n", c.Timeouts.Heavy)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "process = %v\n", c.Notify.Process)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
