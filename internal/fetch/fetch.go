// Package fetch defines the upstream-fetcher abstraction the page
// composer depends on, plus a net/http implementation.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/openxiino/transcoder/internal/cookiepolicy"
)

// Result is the bytes + final URL + cookie set returned for one fetch.
type Result struct {
	Body      []byte
	FinalURL  string
	SetCookie []*http.Cookie
}

// ErrContentTooLarge is returned when the upstream response's declared
// or observed length exceeds the caller's max.
var ErrContentTooLarge = fmt.Errorf("fetch: content too large")

// Fetcher retrieves a URL's bytes, following redirects, applying the
// request's cookies, and enforcing a maximum body size.
type Fetcher interface {
	Fetch(ctx context.Context, url string, cookies []*http.Cookie, maxBytes int) (Result, error)
}

// HTTPFetcher is the concrete net/http-backed Fetcher.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
	Cookies   cookiepolicy.Policy
}

// NewHTTPFetcher builds a fetcher with sane redirect limits matching the
// legacy client's expectations (no more than 10 hops).
func NewHTTPFetcher(client *http.Client, userAgent string, cookies cookiepolicy.Policy) *HTTPFetcher {
	if client.CheckRedirect == nil {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("fetch: too many redirects")
			}
			return nil
		}
	}
	return &HTTPFetcher{Client: client, UserAgent: userAgent, Cookies: cookies}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string, cookies []*http.Cookie, maxBytes int) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("fetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	for _, c := range f.Cookies.Filter(req.URL.Host, cookies) {
		req.AddCookie(c)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch: %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.ContentLength > int64(maxBytes) {
		return Result{}, ErrContentTooLarge
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)+1))
	if err != nil {
		return Result{}, fmt.Errorf("fetch: read body: %w", err)
	}
	if len(body) > maxBytes {
		return Result{}, ErrContentTooLarge
	}

	return Result{
		Body:      body,
		FinalURL:  resp.Request.URL.String(),
		SetCookie: f.Cookies.Filter(resp.Request.URL.Host, resp.Cookies()),
	}, nil
}
