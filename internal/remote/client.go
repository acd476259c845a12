package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is where the service listens when run locally.
const DefaultBaseURL = "http://localhost:5000"

// Client is an HTTP Processor for the processing service.
type Client struct {
	base     *url.URL
	http     *http.Client
	timeouts Timeouts
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTimeouts sets the per-class timeouts.
func WithTimeouts(t Timeouts) Option { return func(c *Client) { c.timeouts = t } }

// NewClient returns a client for the service at base. A bare host:port is
// accepted and treated as http.
func NewClient(base string, opts ...Option) (*Client, error) {
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("service url %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("service url %q: missing host", base)
	}
	c := &Client{base: u, http: &http.Client{}, timeouts: DefaultTimeouts}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.base.String() }

// Process runs req through /api/edit.
func (c *Client) Process(ctx context.Context, req Request) ([]byte, error) {
	if req.Operation == "" {
		return nil, &Error{Op: "edit", Message: "no operation specified"}
	}
	f := form{}
	f.file("image", "image.png", req.Image)
	f.field("operation", req.Operation)
	if len(req.Params) > 0 {
		params, err := json.Marshal(req.Params)
		if err != nil {
			return nil, &Error{Op: req.Operation, Message: "encode params", Err: err}
		}
		f.field("params", string(params))
	}
	if len(req.Mask) > 0 {
		f.file("mask", "mask.png", req.Mask)
	}
	return c.post(ctx, req.Operation, "/api/edit", c.timeouts.For(req.Operation), f)
}

// Upload normalises an arbitrary encoded image to an RGB PNG.
func (c *Client) Upload(ctx context.Context, image []byte) ([]byte, error) {
	f := form{}
	f.file("image", "image", image)
	return c.post(ctx, "upload", "/api/upload", c.timeouts.Filter, f)
}

// Open asks the service to read the image at a path on its own filesystem.
func (c *Client) Open(ctx context.Context, path string) ([]byte, error) {
	f := form{}
	f.field("image_path", path)
	return c.post(ctx, "open_image", "/api/batch/open_image", c.timeouts.Filter, f)
}

// Save asks the service to store image on its side. It returns the
// service's confirmation message.
func (c *Client) Save(ctx context.Context, image []byte, path string, format Format) (string, error) {
	f := form{}
	f.file("image", "image.png", image)
	f.field("save_path", path)
	f.field("format", string(format))
	body, err := c.post(ctx, "save_image", "/api/batch/save_image", c.timeouts.Filter, f)
	if err != nil {
		return "", err
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &Error{Op: "save_image", Message: "decode response", Err: err}
	}
	return resp.Message, nil
}

// Export converts image to format on the service and returns the bytes.
func (c *Client) Export(ctx context.Context, image []byte, format Format) ([]byte, error) {
	f := form{}
	f.file("image", "image.png", image)
	f.field("format", string(format))
	return c.post(ctx, "export_image", "/api/batch/export_image", c.timeouts.Filter, f)
}

// EmptyLayer asks the service for a white w x h PNG.
func (c *Client) EmptyLayer(ctx context.Context, w, h int) ([]byte, error) {
	f := form{}
	f.field("width", strconv.Itoa(w))
	f.field("height", strconv.Itoa(h))
	return c.post(ctx, "create_empty_layer", "/api/image/create_empty_layer", c.timeouts.Filter, f)
}

func (c *Client) post(ctx context.Context, op, path string, timeout time.Duration, f form) ([]byte, error) {
	body, ctype, err := f.encode()
	if err != nil {
		return nil, &Error{Op: op, Message: "encode form", Err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	u := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", ctype)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Op: op, Message: fmt.Sprintf("timed out after %s", timeout), Err: err}
		}
		return nil, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Status: resp.StatusCode, Message: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &Error{Op: op, Status: resp.StatusCode, Message: msg}
	}
	log.Printf("remote %s: %d bytes in %s", op, len(data), time.Since(start).Round(time.Millisecond))
	return data, nil
}

type part struct {
	name, filename string
	data           []byte
}

type form struct {
	parts []part
}

func (f *form) field(name, value string) {
	f.parts = append(f.parts, part{name: name, data: []byte(value)})
}

func (f *form) file(name, filename string, data []byte) {
	f.parts = append(f.parts, part{name: name, filename: filename, data: data})
}

func (f *form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range f.parts {
		var dst io.Writer
		var err error
		if p.filename != "" {
			dst, err = w.CreateFormFile(p.name, p.filename)
		} else {
			dst, err = w.CreateFormField(p.name)
		}
		if err != nil {
			return nil, "", err
		}
		if _, err := dst.Write(p.data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
