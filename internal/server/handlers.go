package server

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/nikbrunner/speeddial/internal/capture"
	"github.com/nikbrunner/speeddial/internal/model"
	"github.com/nikbrunner/speeddial/internal/speeddial"
)

// ActionCaptureThumbnail is the only message action.
const ActionCaptureThumbnail = "captureThumbnail"

var errCaptureDisabled = errors.New("page capture is disabled")

type messageRequest struct {
	Action string `json:"action"`
	URL    string `json:"url"`
}

type messageResponse struct {
	Thumbnail string `json:"thumbnail,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleMessage answers {"action":"captureThumbnail","url":...} with either
// {"thumbnail": dataURI} or {"error": message}.
func HandleMessage(logger *slog.Logger, capturer Capturer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Error: "invalid message: " + err.Error()})
			return
		}
		if req.Action != ActionCaptureThumbnail {
			writeJSON(w, http.StatusBadRequest, messageResponse{Error: "unknown action: " + req.Action})
			return
		}

		url, err := model.NormalizeURL(req.URL)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Error: err.Error()})
			return
		}
		if capturer == nil {
			writeJSON(w, http.StatusOK, messageResponse{Error: errCaptureDisabled.Error()})
			return
		}

		image, err := capturer.Capture(r.Context(), url)
		if err != nil {
			logger.Warn("capture message failed", "url", url, "reason", capture.ReasonOf(err), "error", err)
			writeJSON(w, http.StatusOK, messageResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Thumbnail: capture.DataURI(capture.FormatJPEG, image)})
	}
}

func HandleGetCollection(store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.View())
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

func HandleAddGroup(logger *slog.Logger, store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}

		group, err := store.AddGroup(r.Context(), req.Name)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, group)
	}
}

func HandleRenameGroup(logger *slog.Logger, store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}

		if err := store.RenameGroup(r.Context(), r.PathValue("id"), req.Name); err != nil {
			writeError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleRemoveGroup(logger *slog.Logger, store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.RemoveGroup(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleSelectGroup(logger *slog.Logger, store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.SelectGroup(r.PathValue("id")); err != nil {
			writeError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type siteRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

func HandleAddSite(logger *slog.Logger, store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req siteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}

		site, err := store.AddSite(r.Context(), r.PathValue("id"), req.URL, req.Name)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, site)
	}
}

type editSiteRequest struct {
	URL  *string `json:"url"`
	Name *string `json:"name"`
}

func HandleEditSite(logger *slog.Logger, store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editSiteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}

		site, err := store.EditSite(r.Context(), r.PathValue("id"), req.URL, req.Name)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, site)
	}
}

func HandleRemoveSite(logger *slog.Logger, store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.RemoveSite(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func HandleMoveSite(logger *slog.Logger, store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}

		if err := store.MoveSite(r.Context(), r.PathValue("id"), req.From, req.To); err != nil {
			writeError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleRefreshThumbnail(logger *slog.Logger, store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site, err := store.RefreshThumbnail(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, site)
	}
}

func HandleGetSettings(store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.View().Settings)
	}
}

func HandleUpdateSettings(logger *slog.Logger, store *speeddial.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch model.SettingsPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}

		settings, err := store.UpdateSettings(r.Context(), patch)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

func HandleGetHealth() http.HandlerFunc {
	type responseBody struct {
		Status   string `json:"status"`
		Version  string `json:"version"`
		Revision string `json:"revision,omitempty"`
		Uptime   string `json:"uptime"`
	}

	res := responseBody{Status: "ok", Version: "devel"}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" {
			res.Version = info.Main.Version
		}
		for _, kv := range info.Settings {
			if kv.Key == "vcs.revision" {
				res.Revision = kv.Value
			}
		}
	}

	up := time.Now()
	return func(w http.ResponseWriter, _ *http.Request) {
		body := res
		body.Uptime = time.Since(up).Round(time.Second).String()
		writeJSON(w, http.StatusOK, body)
	}
}
