package handler

import (
	"net/http"
	"strconv"
)

type BatchQuery struct {
	Page  int `validate:"min=1,max=10000"`
	Limit int `validate:"min=1,max=100"`
}

// GET /recommendations/batch?page=&limit=
func (h *Handler) GetBatchRecommendations(w http.ResponseWriter, r *http.Request) {
	q := BatchQuery{Page: 1, Limit: 20}
	if !parseIntParam(w, r, "page", &q.Page) || !parseIntParam(w, r, "limit", &q.Limit) {
		return
	}
	if err := h.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "page must be 1-10000 and limit 1-100")
		return
	}

	result, err := h.service.GetBatchRecommendations(r.Context(), q.Page, q.Limit)
	if err != nil {
		if isTimeout(err) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// parseIntParam leaves dst untouched when the parameter is absent.
func parseIntParam(w http.ResponseWriter, r *http.Request, name string, dst *int) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid "+name+" parameter")
		return false
	}
	*dst = v
	return true
}
