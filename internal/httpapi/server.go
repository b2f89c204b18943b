// Package httpapi exposes the platform's JSON-over-HTTP surface:
// journey generation, progress check-ins, donations, and member info.
// Handlers are thin; all semantics live in the journey service and
// the storage layer.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brightfield/wellspring/internal/journey"
	"github.com/brightfield/wellspring/internal/storage"
	"github.com/brightfield/wellspring/internal/types"
)

// Server holds the handler dependencies
type Server struct {
	journeys *journey.Service
	store    storage.Storage
	logger   *zap.Logger
}

// Config tunes the HTTP middleware
type Config struct {
	// RequestsPerSecond caps per-process request throughput; Burst is
	// the token bucket depth. Zero disables rate limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// NewServer builds the full handler chain
func NewServer(journeys *journey.Service, store storage.Storage, logger *zap.Logger, cfg *Config) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{journeys: journeys, store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)

	// Authenticated surface
	authed := http.NewServeMux()
	authed.HandleFunc("/wellness-journey/generate", s.handleGenerate)
	authed.HandleFunc("/wellness-journey/progress", s.handleProgress)
	authed.HandleFunc("/wellness-journey", s.handleActiveJourney)
	authed.HandleFunc("/donations", s.handleDonations)
	authed.HandleFunc("/donations/", s.handleDonationWithID)
	authed.HandleFunc("/members/me", s.handleMe)
	mux.Handle("/", s.withAuth(authed))

	handler := http.Handler(mux)
	if cfg != nil && cfg.RequestsPerSecond > 0 {
		handler = withRateLimit(handler, cfg.RequestsPerSecond, cfg.Burst)
	}
	handler = withCORS(handler)
	handler = s.withLogging(handler)
	return handler
}

type progressResponse struct {
	RecommendationID string  `json:"recommendation_id"`
	Progress         float64 `json:"progress"`
	OverallProgress  float64 `json:"overall_progress"`
}

type createDonationRequest struct {
	Amount float64            `json:"amount"`
	Type   types.DonationType `json:"donation_type"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /wellness-journey/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	member := memberFrom(r.Context())

	var survey types.IntakeSurvey
	if err := json.NewDecoder(r.Body).Decode(&survey); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	j, err := s.journeys.Generate(r.Context(), member.ID, &survey)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

// POST /wellness-journey/progress
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	member := memberFrom(r.Context())

	var update journey.ProgressUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	overall, err := s.journeys.ApplyProgress(r.Context(), member.ID, &update)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{
		RecommendationID: update.RecommendationID,
		Progress:         update.Progress,
		OverallProgress:  overall,
	})
}

// GET /wellness-journey
func (s *Server) handleActiveJourney(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	member := memberFrom(r.Context())

	j, err := s.journeys.ActiveJourney(r.Context(), member.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// POST /donations
func (s *Server) handleDonations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	member := memberFrom(r.Context())

	var req createDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	donation := &types.Donation{
		MemberID: member.ID,
		Amount:   req.Amount,
		Type:     req.Type,
	}
	if donation.Type == "" {
		donation.Type = types.DonationOneTime
	}

	if err := s.store.CreateDonation(r.Context(), donation); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, donation)
}

// POST /donations/{id}/complete. Idempotent: replaying a completed
// donation returns 200 with the stored donation and credits nothing.
func (s *Server) handleDonationWithID(w http.ResponseWriter, r *http.Request) {
	member := memberFrom(r.Context())

	path := strings.TrimPrefix(r.URL.Path, "/donations/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "complete" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	donationID := parts[0]

	existing, err := s.store.GetDonation(r.Context(), donationID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if existing.MemberID != member.ID {
		s.writeError(w, types.ErrUnauthorized)
		return
	}

	donation, _, err := s.store.CompleteDonation(r.Context(), donationID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, donation)
}

// GET /members/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, memberFrom(r.Context()))
}

// writeError maps the error taxonomy to HTTP status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, types.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, types.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, types.ErrConsistency):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict, retry the request"})
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

// ListenAndServe runs the handler on addr until ctx is canceled, then
// drains in-flight requests
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
