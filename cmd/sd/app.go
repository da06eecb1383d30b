package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/speeddial/internal/capture"
	"github.com/nikbrunner/speeddial/internal/config"
	"github.com/nikbrunner/speeddial/internal/model"
	"github.com/nikbrunner/speeddial/internal/speeddial"
	"github.com/nikbrunner/speeddial/internal/storage"
	"github.com/nikbrunner/speeddial/internal/thumbnail"
	"github.com/nikbrunner/speeddial/internal/title"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	storage storage.Storage
	store   *speeddial.Store
	policy  *thumbnail.Policy

	// nil when capture is disabled
	host       *capture.LazyHost
	controller *capture.Controller
}

func newLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if jsonFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadConfig reads the file named by the --config flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path)
}

// openApp loads configuration and opens the store. jsonLogs switches the
// logger to JSON for long-running commands.
func openApp(cmd *cobra.Command, jsonLogs bool) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), verbose, jsonLogs)

	st, err := storage.Open(cfg.Storage.Backend, cfg.StoragePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, storage: st}

	var capturer thumbnail.Capturer
	titleOpts := title.Options{
		Method:   cfg.Title.Method,
		Timeout:  cfg.Title.Timeout,
		CacheTTL: cfg.Title.CacheTTL,
		Logger:   logger,
	}
	if cfg.Capture.Enabled {
		a.host = capture.NewLazyHost(func() (capture.Host, error) {
			logger.Debug("launching headless browser")
			h, err := capture.LaunchPlaywright(capture.PlaywrightOptions{
				Install:           cfg.Capture.InstallBrowsers,
				NavigationTimeout: cfg.Capture.NavigationTimeout,
			})
			if err != nil {
				return nil, err
			}
			return h, nil
		})
		a.controller = capture.NewController(a.host, capture.Options{
			Width:       cfg.Capture.ViewportWidth,
			Height:      cfg.Capture.ViewportHeight,
			LoadTimeout: cfg.Capture.LoadTimeout,
			Quality:     cfg.Capture.Quality,
			Logger:      logger,
		})
		capturer = a.controller
		titleOpts.Loader = a.controller
	}

	a.policy = thumbnail.NewPolicy(thumbnail.Options{
		Capturer:    capturer,
		IconService: cfg.Thumbnail.IconService,
		Logger:      logger,
	})

	titles, err := title.New(titleOpts)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.store, err = speeddial.Open(cmd.Context(), speeddial.Params{
		Storage:    st,
		Thumbnails: a.policy,
		Titles:     titles,
		Logger:     logger,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases the browser and the storage.
func (a *app) Close() error {
	var errs []error
	if a.host != nil {
		if err := a.host.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}
	if err := a.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}
	return errors.Join(errs...)
}

// withApp opens the app, runs fn and closes the app.
func withApp(cmd *cobra.Command, fn func(*app) error) (err error) {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

// findGroup resolves a group reference by id, then by case-insensitive name.
func findGroup(view speeddial.View, ref string) (*model.Group, error) {
	for i := range view.Groups {
		if view.Groups[i].ID == ref {
			return &view.Groups[i], nil
		}
	}
	for i := range view.Groups {
		if strings.EqualFold(view.Groups[i].Name, ref) {
			return &view.Groups[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", speeddial.ErrGroupNotFound, ref)
}
