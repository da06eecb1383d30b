// Package config loads the speeddial configuration file.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nikbrunner/speeddial/internal/capture"
	"github.com/nikbrunner/speeddial/internal/storage"
	"github.com/nikbrunner/speeddial/internal/thumbnail"
	"github.com/nikbrunner/speeddial/internal/title"
)

// AppName is used for XDG directory paths.
const AppName = "speeddial"

// Config holds all configuration options.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Capture   CaptureConfig   `yaml:"capture"`
	Title     TitleConfig     `yaml:"title"`
	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
	Server    ServerConfig    `yaml:"server"`
	Health    HealthConfig    `yaml:"health"`
}

// StorageConfig selects where the collection is kept.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	// Path defaults to a file under $XDG_DATA_HOME/speeddial.
	Path string `yaml:"path,omitempty"`
}

// CaptureConfig configures the headless browser used for page thumbnails.
type CaptureConfig struct {
	Enabled           bool          `yaml:"enabled"`
	InstallBrowsers   bool          `yaml:"install_browsers"`
	ViewportWidth     int           `yaml:"viewport_width"`
	ViewportHeight    int           `yaml:"viewport_height"`
	LoadTimeout       time.Duration `yaml:"load_timeout"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	Quality           int           `yaml:"quality"`
}

type TitleConfig struct {
	Method   string        `yaml:"method"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type ThumbnailConfig struct {
	IconService string `yaml:"icon_service"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// HealthConfig configures `sd check`.
type HealthConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	// ExcludeDomains report 404s as possibly private instead of dead.
	ExcludeDomains []string `yaml:"exclude_domains"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: storage.BackendSQLite,
		},
		Capture: CaptureConfig{
			Enabled:           true,
			ViewportWidth:     capture.DefaultViewportWidth,
			ViewportHeight:    capture.DefaultViewportHeight,
			LoadTimeout:       capture.DefaultLoadTimeout,
			NavigationTimeout: 30 * time.Second,
			Quality:           capture.DefaultQuality,
		},
		Title: TitleConfig{
			Method:   title.MethodHTML,
			Timeout:  10 * time.Second,
			CacheTTL: time.Hour,
		},
		Thumbnail: ThumbnailConfig{
			IconService: thumbnail.DefaultIconService,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8421",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Health: HealthConfig{
			Concurrency:    10,
			Timeout:        10 * time.Second,
			ExcludeDomains: []string{"github.com", "gitlab.com"},
		},
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendSQLite, storage.BackendJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Storage.Backend)
	}

	if c.Capture.ViewportWidth <= 0 || c.Capture.ViewportHeight <= 0 {
		return ErrInvalidViewport
	}
	if c.Capture.Quality < 1 || c.Capture.Quality > 100 {
		return ErrInvalidQuality
	}
	if c.Capture.LoadTimeout <= 0 {
		return fmt.Errorf("capture.load_timeout: %w", ErrInvalidTimeout)
	}
	if c.Capture.NavigationTimeout <= 0 {
		return fmt.Errorf("capture.navigation_timeout: %w", ErrInvalidTimeout)
	}

	switch c.Title.Method {
	case title.MethodHTML, title.MethodSurface, title.MethodNone:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTitleMethod, c.Title.Method)
	}
	if c.Title.Timeout <= 0 {
		return fmt.Errorf("title.timeout: %w", ErrInvalidTimeout)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout: %w", ErrInvalidTimeout)
	}

	if c.Health.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Health.Timeout <= 0 {
		return fmt.Errorf("health.timeout: %w", ErrInvalidTimeout)
	}
	return nil
}

// StoragePath returns the configured storage path, or the default data file
// for the backend.
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return DefaultDataPath(c.Storage.Backend)
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/speeddial/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DefaultDataPath returns the default storage file for backend under $XDG_DATA_HOME/speeddial.
func DefaultDataPath(backend string) string {
	name := "speeddial.db"
	if backend == storage.BackendJSON {
		name = "speeddial.json"
	}
	return filepath.Join(xdg.DataHome, AppName, name)
}
