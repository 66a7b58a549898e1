// Package compose implements the HTML tokenizer and page composer: it
// reduces upstream HTML to the client's tag subset and schedules
// concurrent image-transcode tasks under a total-output-size budget.
package compose

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/openxiino/transcoder/bitmap"
	"github.com/openxiino/transcoder/dither"
	"github.com/openxiino/transcoder/internal/fetch"
	"github.com/openxiino/transcoder/internal/xconfig"
)

// maxCPUWorkers bounds how many image tasks run at once. Each task holds
// its slot for its whole pipeline, the image fetch included, so
// fetches are bounded by the same limit as quantize/dither/encode.
const maxCPUWorkers = 4

// Composer reduces one HTML document to the client's tag subset,
// transcoding every inline image concurrently under a page-size budget.
type Composer struct {
	cfg       xconfig.Config
	fetcher   fetch.Fetcher
	strategy  dither.Strategy
	logger    *zap.Logger
	workerSem *semaphore.Weighted
}

// New builds a Composer. logger should already be named (see
// internal/xlog); a nil logger is replaced with zap.NewNop().
func New(cfg xconfig.Config, fetcher fetch.Fetcher, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	strategy := dither.Quality
	if cfg.DitherPriority == xconfig.Performance {
		strategy = dither.Performance
	}
	return &Composer{
		cfg:       cfg,
		fetcher:   fetcher,
		strategy:  strategy,
		logger:    logger,
		workerSem: semaphore.NewWeighted(maxCPUWorkers),
	}
}

// pageState is the shared, mutex-guarded state a single Compose call
// touches: the chunk buffer (each task writes only its own reserved
// index, so no contention there) plus the running counters (total size,
// image count, next NAME).
type pageState struct {
	mu         sync.Mutex
	totalSize  int
	chunks     []string
	imageCount int
	nextName   int
}

// appendText finalizes a chunk immediately (used for tag/text output
// produced synchronously by the tokenizer).
func (s *pageState) appendText(maxPageSize int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.totalSize+len(text) > maxPageSize {
		return &PageTooLargeError{Limit: maxPageSize, Attempted: s.totalSize + len(text)}
	}
	s.chunks = append(s.chunks, text)
	s.totalSize += len(text)
	return nil
}

// reserveSlot appends a placeholder and returns its index.
func (s *pageState) reserveSlot() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, "")
	return len(s.chunks) - 1
}

// finalizeSlot fills a previously reserved slot, atomically checking the
// combined tag+payload size against the budget.
func (s *pageState) finalizeSlot(maxPageSize, idx int, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.totalSize+len(content) > maxPageSize {
		return &PageTooLargeError{Limit: maxPageSize, Attempted: s.totalSize + len(content)}
	}
	s.chunks[idx] = content
	s.totalSize += len(content)
	return nil
}

// Compose runs the tokenizer over htmlBytes, reserving a slot for every
// valid `<img>` and filling each concurrently, then joins all tasks and
// returns the concatenated, budget-checked output bytes.
func (c *Composer) Compose(ctx context.Context, htmlBytes []byte, baseURL *url.URL, cookies []*http.Cookie, grayDepth int) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	state := &pageState{}
	g, gctx := errgroup.WithContext(ctx)

	tokErr := runTokenizer(htmlBytes, func(e event) error {
		switch e.kind {
		case eventText:
			return state.appendText(c.cfg.MaxPageSize, e.text)

		case eventStartTag:
			if e.tag == "IMG" {
				return c.handleImage(gctx, g, state, e, baseURL, cookies, grayDepth)
			}
			if e.tag == "A" {
				e = rewriteAnchor(e, baseURL)
			}
			return state.appendText(c.cfg.MaxPageSize, renderTag(e))

		case eventEndTag:
			if e.tag == "IMG" {
				return nil
			}
			return state.appendText(c.cfg.MaxPageSize, renderEndTag(e.tag))
		}
		return nil
	})
	if tokErr != nil {
		cancel()     // cancel in-flight image tasks
		_ = g.Wait() // and drain them before returning
		return "", tokErr
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, chunk := range state.chunks {
		b.WriteString(chunk)
	}
	return b.String(), nil
}

func rewriteAnchor(e event, baseURL *url.URL) event {
	href, ok := e.attr("HREF")
	if !ok {
		return e
	}
	rewritten := rewriteLink(baseURL, href)
	for i, a := range e.attrs {
		if a.Name == "HREF" {
			e.attrs[i].Value = rewritten
		}
	}
	return e
}

// handleImage implements the image-count cap, SRC validation, and slot
// reservation, and concurrent task spawn for a single <img> tag.
func (c *Composer) handleImage(ctx context.Context, g *errgroup.Group, state *pageState, e event, baseURL *url.URL, cookies []*http.Cookie, grayDepth int) error {
	state.mu.Lock()
	if state.imageCount >= c.cfg.MaxImagesPerPage {
		state.mu.Unlock()
		return state.appendText(c.cfg.MaxPageSize, diagnosticText[ImageLimitExceeded])
	}
	state.imageCount++
	state.mu.Unlock()

	src, _ := e.attr("SRC")
	src = resolveImageSrc(baseURL, src)

	if kind, ok := validateImageSrc(src, c.cfg.MaxDataURLSize); !ok {
		return state.appendText(c.cfg.MaxPageSize, diagnosticText[kind])
	}

	idx := state.reserveSlot()
	state.mu.Lock()
	state.nextName++
	name := state.nextName
	state.mu.Unlock()

	g.Go(func() error {
		if err := c.workerSem.Acquire(ctx, 1); err != nil {
			return nil // context canceled by a sibling's PageTooLarge; nothing more to do
		}
		bm, w, h, err := c.runImageTask(ctx, src, cookies, grayDepth)
		c.workerSem.Release(1)

		if err != nil {
			var taskErr *ImageTaskError
			diag := diagnosticText[ImageProcessingError]
			if errAs(err, &taskErr) {
				diag = taskErr.Diagnostic()
			}
			return state.finalizeSlot(c.cfg.MaxPageSize, idx, diag)
		}

		rendered := bitmap.Envelope(bm, name, w, h)
		if err := state.finalizeSlot(c.cfg.MaxPageSize, idx, rendered); err != nil {
			return err // PageTooLargeError: cancels siblings via errgroup
		}
		return nil
	})
	return nil
}

func resolveImageSrc(baseURL *url.URL, src string) string {
	if strings.HasPrefix(src, "data:") {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil || baseURL == nil {
		return src
	}
	return baseURL.ResolveReference(ref).String()
}

// validateImageSrc rejects SRC values the fetcher can't or shouldn't
// handle: anything other than http(s), a root-relative path, or a
// whitelisted data URL within the configured size cap.
func validateImageSrc(src string, maxDataURLSize int) (ImageTaskKind, bool) {
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return 0, true
	case strings.HasPrefix(src, "/"):
		return 0, true
	case strings.HasPrefix(src, "data:"):
		comma := strings.IndexByte(src, ',')
		if comma < 0 {
			return ImageInvalidURL, false
		}
		meta := strings.ToUpper(strings.SplitN(src[len("data:"):comma], ";", 2)[0])
		if !dataURLMimeWhitelist[meta] {
			return ImageInvalidURL, false
		}
		if len(src)-comma-1 > maxDataURLSize {
			return ImageTooLarge, false
		}
		return 0, true
	default:
		return ImageInvalidURL, false
	}
}

// errAs reports whether err is itself an *ImageTaskError. It is a direct
// type assertion: wrapped errors are not unwrapped.
func errAs(err error, target **ImageTaskError) bool {
	te, ok := err.(*ImageTaskError)
	if !ok {
		return false
	}
	*target = te
	return true
}
