package capture

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"
)

// Default values for captures.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultLoadTimeout    = 5 * time.Second
	DefaultQuality        = 70
)

// Image formats accepted by Surface.Snapshot.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)

// Host allocates browser surfaces.
type Host interface {
	CreateSurface(ctx context.Context, opts SurfaceOptions) (Surface, error)
}

// Surface is a single isolated, non-interactive browser viewport.
type Surface interface {
	Navigate(ctx context.Context, url string) error
	// OnLoadComplete registers a one-shot listener for the next load-complete event.
	OnLoadComplete() (*Subscription, error)
	Snapshot(ctx context.Context, opts SnapshotOptions) ([]byte, error)
	Title(ctx context.Context) (string, error)
	Destroy() error
}

// SurfaceOptions configures a new surface.
type SurfaceOptions struct {
	Width  int
	Height int
}

// SnapshotOptions configures the encoded snapshot.
type SnapshotOptions struct {
	Format  string
	Quality int // 0-100, ignored for PNG
}

// Options configures a Controller. Zero values take the defaults.
type Options struct {
	Width       int
	Height      int
	LoadTimeout time.Duration
	Quality     int
	Logger      *slog.Logger
}

// Controller orchestrates surface lifecycles. It holds no business data.
type Controller struct {
	host        Host
	width       int
	height      int
	loadTimeout time.Duration
	quality     int
	logger      *slog.Logger
}

// NewController creates a Controller on top of host.
func NewController(host Host, opts Options) *Controller {
	c := &Controller{
		host:        host,
		width:       opts.Width,
		height:      opts.Height,
		loadTimeout: opts.LoadTimeout,
		quality:     opts.Quality,
		logger:      opts.Logger,
	}
	if c.width <= 0 {
		c.width = DefaultViewportWidth
	}
	if c.height <= 0 {
		c.height = DefaultViewportHeight
	}
	if c.loadTimeout <= 0 {
		c.loadTimeout = DefaultLoadTimeout
	}
	if c.quality <= 0 || c.quality > 100 {
		c.quality = DefaultQuality
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Capture renders url on a fresh surface and returns a JPEG snapshot.
func (c *Controller) Capture(ctx context.Context, url string) ([]byte, error) {
	var image []byte
	err := c.withSurface(ctx, url, func(ctx context.Context, s Surface) error {
		b, err := s.Snapshot(ctx, SnapshotOptions{Format: FormatJPEG, Quality: c.quality})
		if err != nil {
			return &CaptureError{Reason: SnapshotFailed, URL: url, Err: err}
		}
		image = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("captured thumbnail", "url", url, "bytes", len(image))
	return image, nil
}

// Title loads url on a fresh surface and returns its document title.
func (c *Controller) Title(ctx context.Context, url string) (string, error) {
	var title string
	err := c.withSurface(ctx, url, func(ctx context.Context, s Surface) error {
		t, err := s.Title(ctx)
		if err != nil {
			return &CaptureError{Reason: TitleUnavailable, URL: url, Err: err}
		}
		title = t
		return nil
	})
	return title, err
}

// withSurface runs fn against a loaded surface and always destroys it.
func (c *Controller) withSurface(ctx context.Context, url string, fn func(context.Context, Surface) error) (err error) {
	surface, err := c.host.CreateSurface(ctx, SurfaceOptions{Width: c.width, Height: c.height})
	if err != nil {
		return &CaptureError{Reason: AllocationFailed, URL: url, Err: err}
	}

	defer func() {
		derr := surface.Destroy()
		if derr == nil {
			return
		}
		c.logger.Warn("surface teardown failed", "url", url, "error", derr)
		if err == nil {
			err = &CaptureError{Reason: TeardownFailed, URL: url, Err: derr}
		}
	}()

	// Subscribe before navigating so a fast load cannot be missed.
	sub, err := surface.OnLoadComplete()
	if err != nil {
		return &CaptureError{Reason: NavigationTimeout, URL: url, Err: err}
	}
	defer sub.Unsubscribe()

	if err := surface.Navigate(ctx, url); err != nil {
		return &CaptureError{Reason: NavigationTimeout, URL: url, Err: err}
	}

	if err := c.waitForLoad(ctx, sub, url); err != nil {
		return err
	}

	return fn(ctx, surface)
}

// waitForLoad blocks until the page signals load-complete or the ceiling elapses.
// Reaching the ceiling is not an error: whatever has rendered is used.
func (c *Controller) waitForLoad(ctx context.Context, sub *Subscription, url string) error {
	defer sub.Unsubscribe()

	timer := time.NewTimer(c.loadTimeout)
	defer timer.Stop()

	select {
	case <-sub.Done():
		return nil
	case <-timer.C:
		c.logger.Debug("load wait ceiling reached", "url", url, "timeout", c.loadTimeout)
		return nil
	case <-ctx.Done():
		return &CaptureError{Reason: NavigationTimeout, URL: url, Err: ctx.Err()}
	}
}

// DataURI encodes an image as a data URI.
func DataURI(format string, image []byte) string {
	return "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(image)
}
