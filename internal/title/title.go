// Package title resolves the display name of a site from its page title.
//
// Every Resolver falls back to the URL's hostname, so callers always get a
// usable name.
package title

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/nikbrunner/speeddial/internal/model"
)

// Resolver returns a name for a URL. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, url string) string
}

// Method names accepted by New.
const (
	MethodHTML    = "html"
	MethodSurface = "surface"
	MethodNone    = "none"
)

const maxBodyBytes = 1 << 20

// TitleLoader loads a page and reports its document title.
type TitleLoader interface {
	Title(ctx context.Context, url string) (string, error)
}

// fallback returns the hostname, or the raw URL if it has none.
func fallback(rawURL string) string {
	if host := model.Hostname(rawURL); host != "" {
		return host
	}
	return rawURL
}

// HostnameResolver names every site after its host.
type HostnameResolver struct{}

func (HostnameResolver) Resolve(_ context.Context, url string) string {
	return fallback(url)
}

// SurfaceResolver reads the title from a background browser surface.
type SurfaceResolver struct {
	loader  TitleLoader
	timeout time.Duration
	logger  *slog.Logger
}

// NewSurfaceResolver creates a SurfaceResolver.
func NewSurfaceResolver(loader TitleLoader, timeout time.Duration, logger *slog.Logger) *SurfaceResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SurfaceResolver{loader: loader, timeout: timeout, logger: logger}
}

func (r *SurfaceResolver) Resolve(ctx context.Context, url string) string {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	t, err := r.loader.Title(ctx, url)
	if err != nil {
		r.logger.Debug("title lookup failed", "url", url, "error", err)
		return fallback(url)
	}
	if t = strings.TrimSpace(t); t == "" {
		return fallback(url)
	}
	return t
}

// HTMLResolver fetches the page over HTTP and reads its <title> element.
type HTMLResolver struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTMLResolver creates an HTMLResolver whose requests are bounded by timeout.
func NewHTMLResolver(timeout time.Duration, logger *slog.Logger) *HTMLResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLResolver{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (r *HTMLResolver) Resolve(ctx context.Context, url string) string {
	t, err := r.fetch(ctx, url)
	if err != nil {
		r.logger.Debug("title fetch failed", "url", url, "error", err)
		return fallback(url)
	}
	if t == "" {
		return fallback(url)
	}
	return t
}

func (r *HTMLResolver) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to decode body: %w", err)
	}
	return ParseTitle(body)
}

var errNoTitle = errors.New("no title element")

// ParseTitle returns the whitespace-collapsed text of the first <title> element.
func ParseTitle(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if found == nil {
		return "", errNoTitle
	}

	var text strings.Builder
	for c := found.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
		}
	}
	return strings.Join(strings.Fields(text.String()), " "), nil
}

// CachedResolver memoizes another Resolver per URL.
type CachedResolver struct {
	next  Resolver
	cache *cache.Cache
}

// NewCachedResolver wraps next with an in-memory cache whose entries expire after ttl.
func NewCachedResolver(next Resolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *CachedResolver) Resolve(ctx context.Context, url string) string {
	if v, ok := r.cache.Get(url); ok {
		return v.(string)
	}

	t := r.next.Resolve(ctx, url)
	// Hostname fallbacks are not cached so a later attempt can find the real title.
	if t != fallback(url) {
		r.cache.SetDefault(url, t)
	}
	return t
}

// Options selects and configures a Resolver.
type Options struct {
	Method   string
	Timeout  time.Duration
	CacheTTL time.Duration
	// Loader is required for MethodSurface.
	Loader TitleLoader
	Logger *slog.Logger
}

// New builds the Resolver named by opts.Method, wrapped in a cache when
// CacheTTL is positive.
func New(opts Options) (Resolver, error) {
	var r Resolver
	switch opts.Method {
	case MethodHTML, "":
		r = NewHTMLResolver(opts.Timeout, opts.Logger)
	case MethodSurface:
		if opts.Loader == nil {
			return nil, errors.New("surface title method needs a browser")
		}
		r = NewSurfaceResolver(opts.Loader, opts.Timeout, opts.Logger)
	case MethodNone:
		return HostnameResolver{}, nil
	default:
		return nil, fmt.Errorf("unknown title method %q", opts.Method)
	}

	if opts.CacheTTL > 0 {
		r = NewCachedResolver(r, opts.CacheTTL)
	}
	return r, nil
}
