package compose

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/openxiino/transcoder/internal/fetch"
	"github.com/openxiino/transcoder/internal/xconfig"
)

type fakeFetcher struct {
	bodies map[string][]byte
}

func (f *fakeFetcher) Fetch(ctx context.Context, u string, cookies []*http.Cookie, maxBytes int) (fetch.Result, error) {
	b, ok := f.bodies[u]
	if !ok {
		return fetch.Result{}, bytesNotFoundErr{u}
	}
	return fetch.Result{Body: b, FinalURL: u}, nil
}

type bytesNotFoundErr struct{ url string }

func (e bytesNotFoundErr) Error() string { return "not found: " + e.url }

func blackPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.Black)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func testComposer(bodies map[string][]byte, cfg xconfig.Config) *Composer {
	return New(cfg, &fakeFetcher{bodies: bodies}, nil)
}

func TestComposeTinyColorImage(t *testing.T) {
	cfg := xconfig.Default()
	bodies := map[string][]byte{"http://ex.com/t.png": blackPNG(10, 10)}
	c := testComposer(bodies, cfg)
	base, _ := url.Parse("http://ex.com/")

	out, err := c.Compose(context.Background(), []byte(`<img src="/t.png">`), base, nil, 0)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if !strings.Contains(out, `EBD="#1"`) {
		t.Fatalf("output missing EBD reference: %s", out)
	}
	if !strings.Contains(out, `MODE="9" NAME="1"`) {
		t.Fatalf("output missing mode-9 envelope: %s", out)
	}
}

func TestComposeGrayscaleRequest(t *testing.T) {
	cfg := xconfig.Default()
	bodies := map[string][]byte{"http://ex.com/t.png": blackPNG(10, 10)}
	c := testComposer(bodies, cfg)
	base, _ := url.Parse("http://ex.com/")

	out, err := c.Compose(context.Background(), []byte(`<img src="/t.png">`), base, nil, 4)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if !strings.Contains(out, `MODE="4"`) {
		t.Fatalf("output missing mode-4 envelope for 4-bit gray request: %s", out)
	}
}

func TestComposeLinkRewriting(t *testing.T) {
	cfg := xconfig.Default()
	c := testComposer(nil, cfg)
	base, _ := url.Parse("http://ex.com/p")

	out, err := c.Compose(context.Background(), []byte(`<a href="/x">T</a>`), base, nil, 0)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if !strings.Contains(out, `HREF="http://ex.com/x"`) {
		t.Fatalf("missing rewritten href: %s", out)
	}
}

func TestComposeOverBudget(t *testing.T) {
	cfg := xconfig.Default()
	cfg.MaxPageSize = 1024
	c := testComposer(nil, cfg)
	base, _ := url.Parse("http://ex.com/")

	big := strings.Repeat("x", 2048)
	_, err := c.Compose(context.Background(), []byte(big), base, nil, 0)
	if err == nil {
		t.Fatalf("expected PageTooLargeError, got nil")
	}
	if _, ok := err.(*PageTooLargeError); !ok {
		t.Fatalf("expected *PageTooLargeError, got %T: %v", err, err)
	}
}

func TestComposeImageLimitExceeded(t *testing.T) {
	cfg := xconfig.Default()
	cfg.MaxImagesPerPage = 1
	bodies := map[string][]byte{"http://ex.com/t.png": blackPNG(10, 10)}
	c := testComposer(bodies, cfg)
	base, _ := url.Parse("http://ex.com/")

	out, err := c.Compose(context.Background(), []byte(`<img src="/t.png"><img src="/t.png">`), base, nil, 0)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if !strings.Contains(out, "[Image limit exceeded]") {
		t.Fatalf("expected image-limit diagnostic, got: %s", out)
	}
}

func TestComposeAttributeFiltering(t *testing.T) {
	cfg := xconfig.Default()
	c := testComposer(nil, cfg)
	base, _ := url.Parse("http://ex.com/")

	out, err := c.Compose(context.Background(), []byte(`<div align="invalid">`), base, nil, 0)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if strings.Contains(out, "ALIGN") {
		t.Fatalf("invalid ALIGN value should have been dropped: %s", out)
	}
	if !strings.Contains(out, "<DIV>") {
		t.Fatalf("tag should survive with attribute dropped: %s", out)
	}
}
