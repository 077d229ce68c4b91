package api

import (
	"net/http"

	"github.com/xraph/herald/catalog"
)

// eventResponse describes one catalog entry. Custom entries are detected by
// a built-in predicate instead of a field diff.
type eventResponse struct {
	catalog.Descriptor
	Custom bool `json:"custom"`
}

func (h *Handler) listEvents(w http.ResponseWriter, _ *http.Request) {
	descriptors := h.herald.Catalog().Descriptors()

	out := make([]eventResponse, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, eventResponse{Descriptor: d, Custom: d.Match != nil})
	}

	writeJSON(w, http.StatusOK, out)
}
