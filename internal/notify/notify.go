package notify

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/layerpaint/assets"
	"github.com/example/layerpaint/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave emits a notification when the composite is written to disk.
	EventSave Event = "save"
	// EventExport emits a notification when an export (PDF, JPEG, clipboard)
	// completes.
	EventExport Event = "export"
	// EventProcess emits a notification when a remote operation finishes,
	// successfully or not.
	EventProcess Event = "process"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Layerpaint",
		Events: map[Event]EventPreference{
			EventSave:    {Template: "Saved %s"},
			EventExport:  {Template: "Exported %s"},
			EventProcess: {Template: "%s"},
		},
	}
}

// LoadPreferences reads configuration from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("LAYERPAINT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("LAYERPAINT_NOTIFY_SAVE_TEXT", EventSave)
	apply("LAYERPAINT_NOTIFY_EXPORT_TEXT", EventExport)
	apply("LAYERPAINT_NOTIFY_PROCESS_TEXT", EventProcess)
	return prefs
}

// SendFunc delivers one notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the platform backend.
func WithSender(f SendFunc) Option {
	return func(n *Notifier) { n.send = f }
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences, opts ...Option) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	n := &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Save sends a save notification including the written filename when available.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil && strings.EqualFold(filepath.Ext(abs), ".png") {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Export sends an export notification.
func (n *Notifier) Export(detail string) {
	if !n.enabledFor(EventExport) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	opts := platform.Options{}
	if data, err := assets.IconPNG(64); err == nil {
		if path, cleanup, perr := writeTemp(data); perr == nil {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Process reports the outcome of a remote operation, with a preview of the
// result when one is available.
func (n *Notifier) Process(op string, result image.Image, err error) {
	if !n.enabledFor(EventProcess) {
		return
	}
	detail := op + " done"
	if err != nil {
		detail = fmt.Sprintf("%s failed: %v", op, err)
	}
	opts := platform.Options{}
	if result != nil && err == nil {
		if path, cleanup, perr := createPreview(result); perr != nil {
			log.Printf("notification preview: %v", perr)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventProcess, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

func createPreview(img image.Image) (string, func(), error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, err
	}
	return writeTemp(buf.Bytes())
}

// writeTemp stores PNG data in a temporary file and returns a cleanup func.
func writeTemp(data []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "layerpaint-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
