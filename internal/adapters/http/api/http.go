// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// PutDataset decodes a rating table from r and registers it under name.
	PutDataset(ctx context.Context, name string, r io.Reader) (types.Dataset, error)
	// Datasets lists registered tables.
	Datasets(ctx context.Context) []types.Dataset
	// DeleteDataset removes a registered table.
	DeleteDataset(ctx context.Context, name string) error
	// RankDataset ranks a registered table against target.
	RankDataset(ctx context.Context, name string, target model.UserID, limit int) (types.Ranking, error)
	// RankReader decodes a table from r and ranks it against target.
	RankReader(ctx context.Context, r io.Reader, target model.UserID, limit int) (types.Ranking, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	datasetsHandler *DatasetsHandler
	rankingsHandler *RankingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		datasetsHandler: NewDatasetsHandler(deps, opts...),
		rankingsHandler: NewRankingsHandler(deps, opts...),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /datasets", MetricsMiddleware(s.datasetsHandler.HandleList, "datasets"))
	mux.HandleFunc("PUT /datasets/{name}", MetricsMiddleware(s.datasetsHandler.HandlePut, "datasets"))
	mux.HandleFunc("DELETE /datasets/{name}", MetricsMiddleware(s.datasetsHandler.HandleDelete, "datasets"))
	mux.HandleFunc("GET /datasets/{name}/rankings/{user}", MetricsMiddleware(s.datasetsHandler.HandleRank, "dataset_rankings"))
	mux.HandleFunc("POST /rankings", MetricsMiddleware(s.rankingsHandler.HandlePostRanking, "rankings"))
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a service error onto its HTTP status.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
