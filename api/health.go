package api

import (
	"net/http"
)

type healthResponse struct {
	Status   string `json:"status"`
	Events   int    `json:"events"`
	Registry string `json:"registry"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Events:   h.herald.Catalog().Len(),
		Registry: "none",
	}

	if s := h.herald.Store(); s != nil {
		resp.Registry = "ok"
		if err := s.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Registry = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
