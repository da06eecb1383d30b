package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightOptions configures a PlaywrightHost.
type PlaywrightOptions struct {
	// Install downloads the driver and browsers before starting.
	Install bool

	// NavigationTimeout bounds a single navigation request.
	NavigationTimeout time.Duration
}

// PlaywrightHost runs one headless Chromium and hands out one isolated
// browser context per surface.
type PlaywrightHost struct {
	mu         sync.Mutex
	pw         *playwright.Playwright
	browser    playwright.Browser
	navTimeout float64 // milliseconds
}

// LaunchPlaywright starts playwright and a headless Chromium.
func LaunchPlaywright(opts PlaywrightOptions) (*PlaywrightHost, error) {
	// Discard driver output so it does not interleave with CLI output
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	navTimeout := opts.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}

	return &PlaywrightHost{
		pw:         pw,
		browser:    browser,
		navTimeout: float64(navTimeout.Milliseconds()),
	}, nil
}

// CreateSurface opens a new browser context and page sized to the viewport.
func (h *PlaywrightHost) CreateSurface(ctx context.Context, opts SurfaceOptions) (Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	browser := h.browser
	h.mu.Unlock()
	if browser == nil {
		return nil, errors.New("browser is closed")
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Width,
			Height: opts.Height,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultNavigationTimeout(h.navTimeout)

	return &playwrightSurface{context: bctx, page: page}, nil
}

// Close shuts down the browser and the playwright driver.
func (h *PlaywrightHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	if h.browser != nil {
		if err := h.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		h.browser = nil
	}
	if h.pw != nil {
		if err := h.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		h.pw = nil
	}
	return errors.Join(errs...)
}

type playwrightSurface struct {
	context playwright.BrowserContext
	page    playwright.Page
}

func (s *playwrightSurface) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Return once the navigation commits; load completion is observed separately.
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateCommit,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (s *playwrightSurface) OnLoadComplete() (*Subscription, error) {
	var fired atomic.Bool
	var sub *Subscription

	handler := func(playwright.Page) {
		fired.Store(true)
		sub.Signal()
	}
	// Once listeners are dropped by the emitter after firing, so release
	// only has work to do while the event is still pending.
	sub = NewSubscription(func() {
		if !fired.Load() {
			s.page.RemoveListener("load", handler)
		}
	})
	s.page.Once("load", handler)

	return sub, nil
}

func (s *playwrightSurface) Snapshot(ctx context.Context, opts SnapshotOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	screenshotOpts := playwright.PageScreenshotOptions{}
	switch opts.Format {
	case FormatPNG:
		screenshotOpts.Type = playwright.ScreenshotTypePng
	default:
		screenshotOpts.Type = playwright.ScreenshotTypeJpeg
		screenshotOpts.Quality = playwright.Int(opts.Quality)
	}

	return s.page.Screenshot(screenshotOpts)
}

func (s *playwrightSurface) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.Title()
}

func (s *playwrightSurface) Destroy() error {
	// Close the context even when the page refuses to close
	pageErr := s.page.Close()
	contextErr := s.context.Close()
	return errors.Join(pageErr, contextErr)
}
