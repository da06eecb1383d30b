// Package server exposes the speed dial over HTTP: a JSON API for the
// collection and the captureThumbnail message endpoint.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nikbrunner/speeddial/internal/speeddial"
)

// Capturer renders a page into a JPEG image.
type Capturer interface {
	Capture(ctx context.Context, url string) ([]byte, error)
}

// AddRoutes registers every endpoint on mux. capturer may be nil when page
// capture is disabled.
func AddRoutes(mux *http.ServeMux, logger *slog.Logger, store *speeddial.Store, capturer Capturer) {
	// Messages
	mux.Handle("POST /message", HandleMessage(logger, capturer))

	// Collection
	mux.Handle("GET /api/collection", HandleGetCollection(store))

	// Groups
	mux.Handle("POST /api/groups", HandleAddGroup(logger, store))
	mux.Handle("PATCH /api/groups/{id}", HandleRenameGroup(logger, store))
	mux.Handle("DELETE /api/groups/{id}", HandleRemoveGroup(logger, store))
	mux.Handle("POST /api/groups/{id}/select", HandleSelectGroup(logger, store))
	mux.Handle("POST /api/groups/{id}/sites", HandleAddSite(logger, store))

	// Sites
	mux.Handle("PATCH /api/sites/{id}", HandleEditSite(logger, store))
	mux.Handle("DELETE /api/sites/{id}", HandleRemoveSite(logger, store))
	mux.Handle("POST /api/sites/{id}/move", HandleMoveSite(logger, store))
	mux.Handle("POST /api/sites/{id}/refresh", HandleRefreshThumbnail(logger, store))

	// Settings
	mux.Handle("GET /api/settings", HandleGetSettings(store))
	mux.Handle("PATCH /api/settings", HandleUpdateSettings(logger, store))

	mux.Handle("GET /health", HandleGetHealth())
}

// NewHandler builds the full handler chain.
func NewHandler(logger *slog.Logger, store *speeddial.Store, capturer Capturer) http.Handler {
	mux := http.NewServeMux()
	AddRoutes(mux, logger, store, capturer)

	var handler http.Handler = mux
	handler = Recovery(logger)(handler)
	handler = AccessLogger(logger)(handler)
	return handler
}
