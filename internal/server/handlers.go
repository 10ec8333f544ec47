package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/sysmon"
)

type healthResponse struct {
	Status string        `json:"status"`
	System *sysmon.Stats `json:"system,omitempty"`
}

// FactorialResponse is the body of GET /v1/factorial/{n}.
type FactorialResponse struct {
	ID        string `json:"id"`
	Argument  int64  `json:"argument"`
	Outcome   string `json:"outcome"`
	Result    string `json:"result"`
	Workers   int    `json:"workers"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	stats := sysmon.SampleContext(r.Context())
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", System: &stats})
}

func (s *Server) handleFactorial(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseInt(chi.URLParam(r, "n"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "argument must be an integer")
		return
	}
	if n < 0 {
		s.writeError(w, http.StatusBadRequest, "argument must be non-negative")
		return
	}
	if n > s.config.MaxArgument {
		s.writeError(w, http.StatusBadRequest, "argument exceeds the limit of "+strconv.FormatInt(s.config.MaxArgument, 10))
		return
	}

	timeout, err := s.requestTimeout(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := s.config
	cfg.N = n
	cfg.Timeout = timeout

	report, err := s.executor.Execute(r.Context(), cfg, io.Discard)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err.Error())
		return
	}

	out := report.Outcome
	s.logger.Debug("computation served",
		logging.String("id", out.ID),
		logging.Int64("argument", out.Argument),
		logging.String("outcome", out.Kind.String()),
		logging.Duration("elapsed", out.Elapsed),
	)
	s.writeJSON(w, StatusFor(out.Kind), FactorialResponse{
		ID:        out.ID,
		Argument:  out.Argument,
		Outcome:   out.Kind.String(),
		Result:    out.String(),
		Workers:   out.Workers,
		ElapsedMs: out.Elapsed.Milliseconds(),
	})
}

// requestTimeout reads ?timeout=<ms> and applies the configured default and cap.
func (s *Server) requestTimeout(r *http.Request) (time.Duration, error) {
	raw := r.URL.Query().Get("timeout")
	if raw == "" {
		return config.ResolveTimeout(0, s.config.Timeout, s.config.MaxTimeout), nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		return 0, errors.New("timeout must be a non-negative number of milliseconds")
	}
	return config.ResolveTimeout(time.Duration(ms)*time.Millisecond, s.config.Timeout, s.config.MaxTimeout), nil
}

// StatusFor maps an outcome kind onto its HTTP status.
func StatusFor(kind factorial.OutcomeKind) int {
	switch kind {
	case factorial.KindFactorial:
		return http.StatusOK
	case factorial.KindTimeout:
		return http.StatusGatewayTimeout
	case factorial.KindAborted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
