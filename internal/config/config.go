// Package config collects the runtime settings of the editor from the
// environment. Command-line flags may override individual fields after
// FromEnv returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names.
const (
	EnvLogLevel      = "IMAGE_EDIT_LOG_LEVEL"
	EnvDefaultSource = "IMAGE_EDIT_DEFAULT_SOURCE"
	EnvFetchTimeout  = "IMAGE_EDIT_FETCH_TIMEOUT"
	EnvChartWidth    = "IMAGE_EDIT_CHART_WIDTH"
	EnvChartHeight   = "IMAGE_EDIT_CHART_HEIGHT"
)

// DefaultSource is the image loaded when image_load is called without a source.
const DefaultSource = "https://avatars.dzeninfra.ru/get-zen_doc/1244179/pub_62e41a4477aa332473c65a72_62e41d0877aa332473c9ed2f/scale_1200"

// Config holds the editor settings.
type Config struct {
	// LogLevel is "debug" to enable verbose logging; anything else is quiet.
	LogLevel string

	// DefaultSource is a file path or URL used when no source is given.
	DefaultSource string

	// FetchTimeout bounds a single remote image download.
	FetchTimeout time.Duration

	// ChartWidth and ChartHeight size the rendered histogram chart in pixels.
	ChartWidth  int
	ChartHeight int
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:      "info",
		DefaultSource: DefaultSource,
		FetchTimeout:  30 * time.Second,
		ChartWidth:    1200,
		ChartHeight:   400,
	}
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// FromEnv returns Default overridden by any environment variables that are
// set. A malformed numeric or duration value is an error.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvDefaultSource); ok && v != "" {
		cfg.DefaultSource = v
	}
	if v, ok := lookup(EnvFetchTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvFetchTimeout, err)
		}
		cfg.FetchTimeout = d
	}

	var err error
	if cfg.ChartWidth, err = intFromEnv(lookup, EnvChartWidth, cfg.ChartWidth); err != nil {
		return cfg, err
	}
	if cfg.ChartHeight, err = intFromEnv(lookup, EnvChartHeight, cfg.ChartHeight); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func intFromEnv(lookup func(string) (string, bool), name string, def int) (int, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", name, err)
	}
	if n <= 0 {
		return def, fmt.Errorf("invalid %s: must be positive, got %d", name, n)
	}
	return n, nil
}
