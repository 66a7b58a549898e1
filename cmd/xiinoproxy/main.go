// Command xiinoproxy is the outer HTTP entrypoint: it wires config,
// logging, the upstream fetcher, the page composer, and the latin-1
// frame writer into a single handler a legacy handheld browser can
// point its proxy setting at.
package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/openxiino/transcoder/compose"
	"github.com/openxiino/transcoder/internal/cookiepolicy"
	"github.com/openxiino/transcoder/internal/fetch"
	"github.com/openxiino/transcoder/internal/staticpages"
	"github.com/openxiino/transcoder/internal/xconfig"
	"github.com/openxiino/transcoder/internal/xlog"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file, overriding built-in defaults")
	env := flag.String("env", "production", "logging environment: dev or production")
	flag.Parse()

	cfg, err := xconfig.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("xiinoproxy: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := xlog.New(*env)
	if err != nil {
		os.Stderr.WriteString("xiinoproxy: build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	policy := cookiepolicy.Policy{
		MaxTotal:   cfg.MaxCookiesTotal,
		MaxPerSite: cfg.MaxCookiesPerSite,
		MaxBytes:   cfg.MaxCookieBytes,
	}
	fetcher := fetch.NewHTTPFetcher(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.UserAgent, policy)
	composer := compose.New(cfg, fetcher, logger.Named(xlog.HTML))

	s := &server{
		cfg:      cfg,
		fetcher:  fetcher,
		composer: composer,
		logger:   logger.Named(xlog.Server),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}
	s.logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Fatal("server exited", zap.Error(err))
	}
}

type server struct {
	cfg      xconfig.Config
	fetcher  fetch.Fetcher
	composer *compose.Composer
	logger   *zap.Logger
}

// handlePage is the single route this proxy serves: the client's own
// "PROXY-URL" convention passes the real destination as a query
// parameter, since the handheld's HTTP stack can't speak CONNECT.
func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		s.writeStatic(w, http.StatusBadRequest)
		return
	}
	dest, err := url.Parse(target)
	if err != nil || (dest.Scheme != "http" && dest.Scheme != "https") {
		s.writeStatic(w, http.StatusBadRequest)
		return
	}

	grayDepth := 0
	if v := r.URL.Query().Get("g"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			grayDepth = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.HTTPTimeout)
	defer cancel()

	res, err := s.fetcher.Fetch(ctx, dest.String(), r.Cookies(), s.cfg.MaxPageSize)
	if err != nil {
		s.logger.Warn("upstream fetch failed", zap.String("url", dest.String()), zap.Error(err))
		s.writeStatic(w, http.StatusBadGateway)
		return
	}

	out, err := s.composer.Compose(ctx, res.Body, dest, res.SetCookie, grayDepth)
	if err != nil {
		if _, ok := err.(*compose.PageTooLargeError); ok {
			s.writeBody(w, http.StatusOK, staticpages.TooLarge())
			return
		}
		s.logger.Warn("compose failed", zap.String("url", dest.String()), zap.Error(err))
		s.writeStatic(w, http.StatusInternalServerError)
		return
	}

	framed, err := compose.Frame(out)
	if err != nil {
		s.logger.Warn("frame failed", zap.String("url", dest.String()), zap.Error(err))
		s.writeStatic(w, http.StatusInternalServerError)
		return
	}
	s.writeBody(w, http.StatusOK, framed)
}

func (s *server) writeStatic(w http.ResponseWriter, status int) {
	s.writeBody(w, status, staticpages.Render(status))
}

func (s *server) writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
	w.WriteHeader(status)
	_, _ = io.Copy(w, bytes.NewReader(body))
}
