package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, opts...)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

func formFile(t *testing.T, r *http.Request, name string) []byte {
	t.Helper()
	f, _, err := r.FormFile(name)
	if err != nil {
		return nil
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Errorf("read %s: %v", name, err)
	}
	return data
}

func TestProcessSendsMultipart(t *testing.T) {
	var gotOp, gotParams string
	var gotImage, gotMask []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/edit" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse: %v", err)
		}
		gotOp = r.FormValue("operation")
		gotParams = r.FormValue("params")
		gotImage = formFile(t, r, "image")
		gotMask = formFile(t, r, "mask")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("result"))
	})
	out, err := c.Process(context.Background(), Request{
		Image:     []byte("img"),
		Operation: OpCrop,
		Params:    map[string]any{"x": 1, "width": 4},
		Mask:      []byte("mask"),
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if string(out) != "result" {
		t.Fatalf("body %q", out)
	}
	if gotOp != OpCrop || string(gotImage) != "img" || string(gotMask) != "mask" {
		t.Fatalf("op=%q image=%q mask=%q", gotOp, gotImage, gotMask)
	}
	var params map[string]int
	if err := json.Unmarshal([]byte(gotParams), &params); err != nil || params["width"] != 4 {
		t.Fatalf("params %q: %v", gotParams, err)
	}
}

func TestProcessErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid operation specified", http.StatusBadRequest)
	})
	_, err := c.Process(context.Background(), Request{Image: []byte("x"), Operation: "nope"})
	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if rerr.Status != http.StatusBadRequest || rerr.Message != "Invalid operation specified" || rerr.Op != "nope" {
		t.Fatalf("unexpected error %+v", rerr)
	}
}

func TestProcessTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeouts(Timeouts{Filter: 50 * time.Millisecond, Heavy: time.Minute}))
	defer close(release)
	_, err := c.Process(context.Background(), Request{Image: []byte("x"), Operation: "filters.blur"})
	var rerr *Error
	if !errors.As(err, &rerr) || rerr.Status != 0 {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("timeout not wrapped: %v", err)
	}
}

func TestSaveReturnsMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse: %v", err)
		}
		if r.FormValue("format") != "JPG" || r.FormValue("save_path") != "/tmp/out" {
			t.Errorf("fields %q %q", r.FormValue("format"), r.FormValue("save_path"))
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Image saved successfully to /tmp/out.jpg"})
	})
	msg, err := c.Save(context.Background(), []byte("img"), "/tmp/out", "JPG")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(msg, "/tmp/out.jpg") {
		t.Fatalf("message %q", msg)
	}
}

func TestOpenSendsPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/batch/open_image" {
			t.Errorf("path %s", r.URL.Path)
		}
		_ = r.ParseMultipartForm(1 << 20)
		_, _ = w.Write([]byte(r.FormValue("image_path")))
	})
	out, err := c.Open(context.Background(), "/srv/a.png")
	if err != nil || string(out) != "/srv/a.png" {
		t.Fatalf("open: %q %v", out, err)
	}
}

func TestTimeoutClasses(t *testing.T) {
	to := Timeouts{}
	if got := to.For("super_resolution.realesrgan"); got != 10*time.Minute {
		t.Fatalf("heavy = %s", got)
	}
	if got := to.For(OpInpaint); got != 10*time.Minute {
		t.Fatalf("inpaint = %s", got)
	}
	if got := to.For("adjustments"); got != 30*time.Second {
		t.Fatalf("filter = %s", got)
	}
}

func TestNewClientBareHost(t *testing.T) {
	c, err := NewClient("localhost:5000")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if c.BaseURL() != "http://localhost:5000" {
		t.Fatalf("base %q", c.BaseURL())
	}
}
