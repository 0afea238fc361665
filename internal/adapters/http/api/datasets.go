package api

import (
	"net/http"
	"strconv"

	"github.com/okian/simrank/internal/domain/model"
)

// DatasetsHandler handles registration and ranking of named rating tables.
type DatasetsHandler struct {
	deps   Dependencies
	limits limits
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(deps Dependencies, opts ...Option) *DatasetsHandler {
	return &DatasetsHandler{deps: deps, limits: newLimits(opts)}
}

// HandlePut handles PUT /datasets/{name}; the body is a text rating table.
func (h *DatasetsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.limits.maxBodyBytes)
	ds, err := h.deps.PutDataset(r.Context(), r.PathValue("name"), body)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ds)
}

// HandleList handles GET /datasets.
func (h *DatasetsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Datasets(r.Context()))
}

// HandleDelete handles DELETE /datasets/{name}.
func (h *DatasetsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteDataset(r.Context(), r.PathValue("name")); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRank handles GET /datasets/{name}/rankings/{user}?limit=N.
func (h *DatasetsHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	target, err := parseUserID(r.PathValue("user"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	limit, err := parseLimit(r, h.limits.maxLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	ranking, err := h.deps.RankDataset(r.Context(), r.PathValue("name"), target, limit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

func parseUserID(s string) (model.UserID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, badRequest("user id %q is not an unsigned 32-bit integer", s)
	}
	return model.UserID(v), nil
}

// parseLimit reads ?limit. Absent means every entry.
func parseLimit(r *http.Request, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, badRequest("limit must be a positive integer")
	}
	if n > maxLimit {
		return 0, badRequest("limit exceeds %d", maxLimit)
	}
	return n, nil
}
