// Package xconfig loads the process-wide immutable configuration, read
// once at startup and passed down by value/pointer to every component
// that needs a limit or timeout. No component holds process-wide mutable
// config state beyond this struct and the palette/control-code tables.
package xconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DitherPriority selects which dithering strategy a deployment prefers
// when the client doesn't otherwise constrain the choice.
type DitherPriority string

const (
	Quality     DitherPriority = "quality"
	Performance DitherPriority = "performance"
)

// Config is the complete, immutable runtime configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	UserAgent  string `yaml:"user_agent"`

	MaxPageSize       int `yaml:"max_page_size"`
	MaxImageSize      int `yaml:"max_image_size"`
	MaxImagesPerPage  int `yaml:"max_images_per_page"`
	MaxDataURLSize    int `yaml:"max_data_url_size"`
	MaxSVGSize        int `yaml:"max_svg_size"`
	MaxImageDimension int `yaml:"max_image_dimension"`

	ImageProcessingTimeout time.Duration `yaml:"image_processing_timeout"`
	SVGProcessingTimeout   time.Duration `yaml:"svg_processing_timeout"`
	HTTPTimeout            time.Duration `yaml:"http_timeout"`

	DitherPriority DitherPriority `yaml:"dither_priority"`

	MaxCookiesTotal   int `yaml:"max_cookies_total"`
	MaxCookiesPerSite int `yaml:"max_cookies_per_site"`
	MaxCookieBytes    int `yaml:"max_cookie_bytes"`
}

// Default matches the limits named explicitly in the governing
// specification and the legacy client's known defaults (the fixed
// User-Agent string in particular is part of the wire contract with
// upstream sites that sniff it).
func Default() Config {
	return Config{
		ListenAddr:             ":8080",
		UserAgent:              "Mozilla/1.22 (compatible; MSIE 5.01; PalmOS 3.0) OpenXiino/1.0; 160x160",
		MaxPageSize:            512 * 1024,
		MaxImageSize:           2 * 1024 * 1024,
		MaxImagesPerPage:       100,
		MaxDataURLSize:         64 * 1024,
		MaxSVGSize:             256 * 1024,
		MaxImageDimension:      4096,
		ImageProcessingTimeout: 10 * time.Second,
		SVGProcessingTimeout:   5 * time.Second,
		HTTPTimeout:            15 * time.Second,
		DitherPriority:         Quality,
		MaxCookiesTotal:        40,
		MaxCookiesPerSite:      20,
		MaxCookieBytes:         4096,
	}
}

// Load reads a YAML config file layered over Default(), then applies
// environment-variable overrides with an XIINO_ prefix (e.g.
// XIINO_LISTEN_ADDR), matching the original's .env-file + os.getenv
// layering.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("xconfig: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("xconfig: parse %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("XIINO_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("XIINO_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("XIINO_MAX_PAGE_SIZE"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.MaxPageSize)
	}
}
