package api

import (
	"errors"
	"net/http"

	"github.com/xraph/herald"
	"github.com/xraph/herald/id"
	"github.com/xraph/herald/watcher"
)

type watcherRequest struct {
	Login      string `json:"login"`
	WebhookURL string `json:"webhook_url,omitempty"`
	Mention    string `json:"mention,omitempty"`
}

func (r watcherRequest) input() watcher.Input {
	return watcher.Input{Login: r.Login, WebhookURL: r.WebhookURL, Mention: r.Mention}
}

// watchers returns the watcher service, writing 501 when the instance has
// no registry store.
func (h *Handler) watchers(w http.ResponseWriter) (*watcher.Service, bool) {
	svc := h.herald.Watchers()
	if svc == nil {
		writeError(w, http.StatusNotImplemented, "no watcher store configured")
		return nil, false
	}
	return svc, true
}

func (h *Handler) watcherID(w http.ResponseWriter, r *http.Request) (id.ID, bool) {
	wID, err := id.ParseWatcherID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid watcher ID")
		return id.Nil, false
	}
	return wID, true
}

// writeWatcherError maps service errors onto HTTP statuses.
func writeWatcherError(w http.ResponseWriter, err error) {
	var verr *watcher.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, herald.ErrWatcherNotFound):
		writeError(w, http.StatusNotFound, "watcher not found")
	case errors.Is(err, herald.ErrDuplicateWatcher):
		writeError(w, http.StatusConflict, "login already registered")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) createWatcher(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.watchers(w)
	if !ok {
		return
	}

	var req watcherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wt, err := svc.Create(r.Context(), req.input())
	if err != nil {
		writeWatcherError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, wt)
}

func (h *Handler) listWatchers(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.watchers(w)
	if !ok {
		return
	}

	opts := watcher.ListOpts{
		Offset: queryInt(r, "offset", 0),
		Limit:  queryInt(r, "limit", 50),
	}

	list, err := svc.List(r.Context(), opts)
	if err != nil {
		writeWatcherError(w, err)
		return
	}
	if list == nil {
		list = []*watcher.Watcher{}
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) getWatcher(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.watchers(w)
	if !ok {
		return
	}
	wID, ok := h.watcherID(w, r)
	if !ok {
		return
	}

	wt, err := svc.Get(r.Context(), wID)
	if err != nil {
		writeWatcherError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, wt)
}

func (h *Handler) updateWatcher(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.watchers(w)
	if !ok {
		return
	}
	wID, ok := h.watcherID(w, r)
	if !ok {
		return
	}

	var req watcherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wt, err := svc.Update(r.Context(), wID, req.input())
	if err != nil {
		writeWatcherError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, wt)
}

func (h *Handler) deleteWatcher(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.watchers(w)
	if !ok {
		return
	}
	wID, ok := h.watcherID(w, r)
	if !ok {
		return
	}

	if err := svc.Delete(r.Context(), wID); err != nil {
		writeWatcherError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) enableWatcher(w http.ResponseWriter, r *http.Request) {
	h.setWatcherEnabled(w, r, true)
}

func (h *Handler) disableWatcher(w http.ResponseWriter, r *http.Request) {
	h.setWatcherEnabled(w, r, false)
}

func (h *Handler) setWatcherEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	svc, ok := h.watchers(w)
	if !ok {
		return
	}
	wID, ok := h.watcherID(w, r)
	if !ok {
		return
	}

	if err := svc.SetEnabled(r.Context(), wID, enabled); err != nil {
		writeWatcherError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
