package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/cache"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/report"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/rs/zerolog"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	solver      *calculator.Solver
	defaultMode calculator.Mode
	cache       cache.Store
	logger      zerolog.Logger
	sessions    SessionConfig
}

// NewHandler creates a new handler. store may be nil to disable caching.
func NewHandler(solver *calculator.Solver, defaultMode calculator.Mode, store cache.Store, logger zerolog.Logger, sessions SessionConfig) *Handler {
	if sessions.IdleTimeout <= 0 {
		sessions.IdleTimeout = defaultIdleTimeout
	}
	return &Handler{
		solver:      solver,
		defaultMode: defaultMode,
		cache:       store,
		logger:      logger,
		sessions:    sessions,
	}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "arb-calculator",
	})
}

// Solve computes stakes for a JSON request body
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	var in models.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		metrics.SolveErrorsTotal.WithLabelValues("http").Inc()
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	h.solve(w, r, in)
}

// SolveQuery computes stakes from query parameters
// GET /api/v1/solve?mode=biased&odds1=2.5&odds2=2.0&target_profit=10&bias=30
func (h *Handler) SolveQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := models.SolveRequest{Mode: q.Get("mode")}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"odds1", &in.Odds1},
		{"odds2", &in.Odds2},
		{"target_profit", &in.TargetProfit},
	}
	for _, f := range fields {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			metrics.SolveErrorsTotal.WithLabelValues("http").Inc()
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %q", f.name, v))
			return
		}
		*f.dst = parsed
	}

	if v := q.Get("bias"); v != "" {
		bias, err := strconv.ParseFloat(v, 64)
		if err != nil {
			metrics.SolveErrorsTotal.WithLabelValues("http").Inc()
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid bias: %q", v))
			return
		}
		in.Bias = &bias
	}

	h.solve(w, r, in)
}

func (h *Handler) solve(w http.ResponseWriter, r *http.Request, in models.SolveRequest) {
	req, err := report.ParseRequest(in, h.defaultMode)
	if err == nil {
		err = calculator.Validate(req)
	}
	if err != nil {
		metrics.SolveErrorsTotal.WithLabelValues("http").Inc()
		respondError(w, statusFor(err), fmt.Sprintf("calculation error: %v", err))
		return
	}

	key := cache.Key(req, h.solver.Options())
	if h.cache != nil {
		cached, err := h.cache.Get(r.Context(), key)
		switch {
		case err != nil:
			metrics.CacheErrorsTotal.Inc()
			h.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		case cached != nil:
			metrics.CacheHitsTotal.Inc()
			h.respondJSON(w, http.StatusOK, cached)
			return
		default:
			metrics.CacheMissesTotal.Inc()
		}
	}

	res, err := h.solver.Solve(req)
	if err != nil {
		metrics.SolveErrorsTotal.WithLabelValues("http").Inc()
		respondError(w, statusFor(err), fmt.Sprintf("calculation error: %v", err))
		return
	}

	resp := report.NewResponse(req, res)
	metrics.ObserveSolve(resp.Mode, resp.Status, res.Iterations)

	if res.Status() == calculator.StatusDidNotConverge {
		h.logger.Warn().
			Str("mode", resp.Mode).
			Float64("odds1", req.Odds1).
			Float64("odds2", req.Odds2).
			Int("iterations", res.Iterations).
			Msg("solver did not converge")
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, resp); err != nil {
			metrics.CacheErrorsTotal.Inc()
			h.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// statusFor maps solver validation errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, calculator.ErrInvalidOdds),
		errors.Is(err, calculator.ErrInvalidProfit),
		errors.Is(err, calculator.ErrInvalidBias),
		errors.Is(err, calculator.ErrUnknownMode),
		errors.Is(err, calculator.ErrOverflow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes a JSON response. The body is encoded before the header
// goes out so an encoding failure can still be reported as a 500.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		h.logger.Warn().Err(err).Int("status", status).Msg("failed to encode response")
		respondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Debug().Err(err).Msg("failed to write response")
	}
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
