package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/layerpaint/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(out *[]sent) SendFunc {
	return func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		*out = append(*out, s)
		return nil
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Save("a.png")
	n.Export("a.pdf")
	n.Process("auto_color", nil, nil)
	if len(got) != 0 {
		t.Fatalf("expected nothing, got %+v", got)
	}
}

func TestSaveUsesAbsolutePath(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Enable(EventSave, true)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	n.Save(path)
	if len(got) != 1 {
		t.Fatalf("sent %d", len(got))
	}
	if got[0].title != "Layerpaint" || got[0].body != "Saved "+path {
		t.Fatalf("unexpected notification %+v", got[0])
	}
	if got[0].opts.IconPath != path {
		t.Fatalf("icon %q", got[0].opts.IconPath)
	}
}

func TestProcessPreviewIsCleanedUp(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Enable(EventProcess, true)
	n.Process("auto_color", image.NewRGBA(image.Rect(0, 0, 2, 2)), nil)
	if len(got) != 1 || got[0].body != "auto_color done" {
		t.Fatalf("unexpected %+v", got)
	}
	if !got[0].iconExisted {
		t.Fatal("preview should exist while sending")
	}
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("preview not removed: %v", err)
	}
}

func TestProcessFailure(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Enable(EventProcess, true)
	n.Process("inpaint", nil, errors.New("status 500"))
	if len(got) != 1 || !strings.Contains(got[0].body, "inpaint failed: status 500") {
		t.Fatalf("unexpected %+v", got)
	}
	if got[0].opts.IconPath != "" {
		t.Fatal("failures carry no preview")
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("LAYERPAINT_NOTIFY_TITLE", "Paint")
	t.Setenv("LAYERPAINT_NOTIFY_EXPORT_TEXT", "Wrote %s")
	var got []sent
	n := New(LoadPreferences(), WithSender(recorder(&got)))
	n.Enable(EventExport, true)
	n.Export("")
	if len(got) != 1 || got[0].title != "Paint" || got[0].body != "Wrote image" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	n.Enable(EventSave, true)
	n.Save("x")
	n.Process("x", nil, nil)
}

func TestExportCarriesAppIcon(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Enable(EventExport, true)
	n.Export("out.pdf")
	if len(got) != 1 || got[0].body != "Exported out.pdf" {
		t.Fatalf("unexpected %+v", got)
	}
	if !got[0].iconExisted {
		t.Fatal("icon should exist while sending")
	}
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("icon not removed: %v", err)
	}
}
