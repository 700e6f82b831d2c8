// Package httpserver exposes the brief service over REST for the
// dashboard: one POST endpoint plus health and metrics.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driving"
	"github.com/custodia-labs/sitrep/internal/metrics"
)

// maxBodyBytes bounds the request body; questions are short.
const maxBodyBytes = 1 << 20

// briefRequest is the POST /api/brief body. Unknown fields are rejected.
type briefRequest struct {
	Question string `json:"question"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type handler struct {
	brief driving.BriefService
	log   *zap.Logger
}

// NewHandler builds the routed, CORS-wrapped, logged HTTP handler.
func NewHandler(brief driving.BriefService, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{brief: brief, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/brief", h.handleBrief)
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// The dashboard is served from another origin, so the API answers
	// permissive CORS and a plain 200 to preflights.
	c := cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders:       []string{"*"},
		OptionsSuccessStatus: http.StatusOK,
	})

	return requestLogger(log)(c.Handler(mux))
}

func (h *handler) handleBrief(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		// Non-preflight OPTIONS; preflights are answered by the CORS
		// layer before reaching here.
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed",
			"use POST with a JSON body")
		return
	}

	var req briefRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	brief, err := h.brief.Brief(r.Context(), req.Question)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidQuestion):
		writeError(w, http.StatusBadRequest, "invalid question",
			"question must be non-empty and at most 2000 characters")
		return
	case errors.Is(err, context.Canceled):
		// The client went away; nothing useful to write.
		return
	default:
		// Partial source failures never reach this branch; they ride
		// inside a 200. Only a top-level fault is a 500.
		h.log.Error("brief generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "brief generation failed", err.Error())
		return
	}

	metrics.BriefsGenerated.WithLabelValues("http").Inc()
	writeJSON(w, http.StatusOK, brief)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding response failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Detail: detail})
}
