// Package server hosts the query service over HTTP. Transport concerns
// (status codes, request framing) live here and nowhere deeper.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefinder/internal/common/config"
	"storefinder/internal/common/logger"
	"storefinder/internal/common/observability"
	"storefinder/internal/query"
)

type Server struct {
	httpServer *http.Server
	service    *query.Service
	obs        *observability.Observability
	logger     logger.Logger
}

func New(cfg config.ServerConfig, svc *query.Service, obs *observability.Observability, log logger.Logger) *Server {
	s := &Server{
		service: svc,
		obs:     obs,
		logger: log.With(map[string]interface{}{
			"component": "http-server",
		}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/query", s.handleQuery)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}

	return s
}

// Handler exposes the routing table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	requestID := uuid.New().String()
	start := time.Now()

	resp := s.service.ProcessQuery(r.Context(), req.Query)

	s.obs.RecordQueryProcessed(r.Context(), string(resp.Kind))
	s.obs.RecordQueryDuration(r.Context(), time.Since(start), string(resp.Kind))

	s.logger.Info("query handled", map[string]interface{}{
		"requestId":  requestID,
		"kind":       string(resp.Kind),
		"durationMs": time.Since(start).Milliseconds(),
	})

	// Business outcomes (including error-kind responses) are all 200; the
	// Kind field carries the distinction.
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
