// Package xlog builds the process-wide zap logger and hands out named
// children, one per concern, mirroring the per-module logger layout of
// the system this proxy replaces (one logger for HTML tokenization, one
// for color matching, one for dithering, and so on).
package xlog

import "go.uber.org/zap"

// New builds the base logger for the given environment name ("dev" uses
// a human-readable console encoder; anything else uses JSON).
func New(env string) (*zap.Logger, error) {
	if env == "dev" {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	return cfg.Build()
}

// Named component logger names, kept as constants so callers can't typo
// a logger name used for cross-component log correlation.
const (
	Server    = "server"
	HTML      = "html"
	Image     = "image"
	Color     = "color"
	Dither    = "dither"
	Scanline  = "scanline"
	Mode9     = "mode9"
	Fetch     = "fetch"
	SVG       = "svg"
	CookieJar = "cookies"
)
