package api

import (
	"net/http"
)

// RankingsHandler handles one-shot rankings over an uploaded table.
type RankingsHandler struct {
	deps   Dependencies
	limits limits
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps Dependencies, opts ...Option) *RankingsHandler {
	return &RankingsHandler{deps: deps, limits: newLimits(opts)}
}

// HandlePostRanking handles POST /rankings?target=ID&limit=N.
func (h *RankingsHandler) HandlePostRanking(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("target")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "bad_request", badRequest("missing target"))
		return
	}
	target, err := parseUserID(raw)
	if err != nil {
		writeFailure(w, err)
		return
	}
	limit, err := parseLimit(r, h.limits.maxLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.limits.maxBodyBytes)
	ranking, err := h.deps.RankReader(r.Context(), body, target, limit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}
