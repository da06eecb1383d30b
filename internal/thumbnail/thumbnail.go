// Package thumbnail decides what image a site tile shows.
package thumbnail

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/nikbrunner/speeddial/internal/capture"
	"github.com/nikbrunner/speeddial/internal/model"
)

const (
	// DefaultIconService returns a 128px site icon for the domain appended to it.
	DefaultIconService = "https://www.google.com/s2/favicons?sz=128&domain="

	// DefaultImage is shown when a URL has no usable host.
	DefaultImage = "images/default.png"
)

// Capturer renders a page into an encoded image.
type Capturer interface {
	Capture(ctx context.Context, url string) ([]byte, error)
}

// Policy resolves a thumbnail reference for a site URL.
type Policy struct {
	capturer    Capturer
	iconService string
	logger      *slog.Logger
}

// Options configures a Policy.
type Options struct {
	// Capturer may be nil, in which case captures fall back to icons.
	Capturer    Capturer
	IconService string
	Logger      *slog.Logger
}

// NewPolicy creates a Policy.
func NewPolicy(opts Options) *Policy {
	p := &Policy{
		capturer:    opts.Capturer,
		iconService: opts.IconService,
		logger:      opts.Logger,
	}
	if p.iconService == "" {
		p.iconService = DefaultIconService
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// IconURL returns the icon-service reference for rawURL, or DefaultImage if
// rawURL has no host.
func (p *Policy) IconURL(rawURL string) string {
	host := model.Hostname(rawURL)
	if host == "" {
		return DefaultImage
	}
	return p.iconService + url.QueryEscape(host)
}

// Resolve returns a thumbnail reference for rawURL. It never fails: a
// failed capture degrades to the icon reference.
func (p *Policy) Resolve(ctx context.Context, rawURL string, settings model.Settings) string {
	if model.Hostname(rawURL) == "" {
		return DefaultImage
	}
	if !settings.UseThumbnails {
		return p.IconURL(rawURL)
	}
	if p.capturer == nil {
		p.logger.Warn("page capture unavailable, using icon", "url", rawURL)
		return p.IconURL(rawURL)
	}

	image, err := p.capturer.Capture(ctx, rawURL)
	if err != nil {
		p.logger.Warn("capture failed, using icon", "url", rawURL, "reason", capture.ReasonOf(err), "error", err)
		return p.IconURL(rawURL)
	}
	return capture.DataURI(capture.FormatJPEG, image)
}
