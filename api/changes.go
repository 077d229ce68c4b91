package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/xraph/herald"
	"github.com/xraph/herald/issue"
)

// maxChangeBody bounds the size of one change notification.
const maxChangeBody = 1 << 20

type changeRequest struct {
	Issue *issue.Snapshot `json:"issue"`
	Actor issue.User      `json:"actor"`
}

// postChange runs one notification for a mutation reported by the tracker.
// Delivery failures are part of the 200 report; only failures that stop
// the invocation before sending are errors.
func (h *Handler) postChange(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxChangeBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	if h.verifier != nil {
		if err := h.verifier.Check(r.Header, body); err != nil {
			h.logger.WarnContext(r.Context(), "rejected unsigned change", "error", err)
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
	}

	var req changeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Issue == nil {
		writeError(w, http.StatusBadRequest, "issue is required")
		return
	}

	report, err := h.herald.Notify(r.Context(), req.Issue, req.Actor)
	if err != nil {
		if errors.Is(err, herald.ErrNilSnapshot) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}
