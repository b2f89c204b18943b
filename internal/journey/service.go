// Package journey wires the pure evaluator to storage: it validates
// intake surveys, generates plans, and applies progress updates.
package journey

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brightfield/wellspring/internal/evaluator"
	"github.com/brightfield/wellspring/internal/storage"
	"github.com/brightfield/wellspring/internal/types"
)

// Service exposes the journey operations used by the HTTP layer
type Service struct {
	store  storage.Storage
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a journey service. now is injectable for tests;
// pass nil for time.Now.
func NewService(store storage.Storage, logger *zap.Logger, now func() time.Time) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, logger: logger, now: now}, nil
}

// Generate validates the survey, runs the evaluator, and persists the
// resulting journey in one batch. Validation failures surface as
// ErrValidation before any evaluation or write happens.
func (s *Service) Generate(ctx context.Context, memberID string, survey *types.IntakeSurvey) (*types.Journey, error) {
	if memberID == "" {
		return nil, fmt.Errorf("%w: member id is required", types.ErrValidation)
	}
	if err := survey.Validate(); err != nil {
		return nil, err
	}

	generated := evaluator.Evaluate(survey, s.now().UTC())

	journey := &types.Journey{
		MemberID:            memberID,
		Type:                generated.Type,
		EstimatedCompletion: generated.EstimatedCompletion,
		Phases:              generated.Phases,
		Recommendations:     generated.Recommendations,
		Insights:            generated.Insights,
	}

	if err := s.store.CreateJourney(ctx, journey); err != nil {
		return nil, fmt.Errorf("failed to persist journey: %w", err)
	}

	s.logger.Info("journey generated",
		zap.String("journey_id", journey.ID),
		zap.String("member_id", memberID),
		zap.String("journey_type", string(journey.Type)),
		zap.Int("phases", len(journey.Phases)),
		zap.Int("recommendations", len(journey.Recommendations)),
		zap.Int("insights", len(journey.Insights)))

	return journey, nil
}

// ProgressUpdate is the input for ApplyProgress. Notes and ratings
// are accepted from the check-in form but only progress feeds the
// aggregate.
type ProgressUpdate struct {
	RecommendationID string  `json:"recommendation_id"`
	Progress         float64 `json:"progress"`
	Notes            string  `json:"notes,omitempty"`
	MoodRating       *int    `json:"mood_rating,omitempty"`
	EnergyRating     *int    `json:"energy_rating,omitempty"`
}

// ApplyProgress records a progress value against one recommendation
// on behalf of memberID. Ownership is enforced inside the storage
// transaction; a foreign caller gets ErrUnauthorized with no state
// change. Returns the journey's recomputed overall progress.
func (s *Service) ApplyProgress(ctx context.Context, memberID string, update *ProgressUpdate) (float64, error) {
	if update.RecommendationID == "" {
		return 0, fmt.Errorf("%w: recommendation_id is required", types.ErrValidation)
	}
	if update.MoodRating != nil && (*update.MoodRating < 1 || *update.MoodRating > 10) {
		return 0, fmt.Errorf("%w: mood_rating must be between 1 and 10", types.ErrValidation)
	}
	if update.EnergyRating != nil && (*update.EnergyRating < 1 || *update.EnergyRating > 10) {
		return 0, fmt.Errorf("%w: energy_rating must be between 1 and 10", types.ErrValidation)
	}

	overall, err := s.store.ApplyProgress(ctx, update.RecommendationID, memberID, update.Progress)
	if err != nil {
		return 0, err
	}

	s.logger.Info("progress applied",
		zap.String("recommendation_id", update.RecommendationID),
		zap.String("member_id", memberID),
		zap.Float64("progress", update.Progress),
		zap.Float64("overall_progress", overall))

	return overall, nil
}

// ActiveJourney returns the caller's current journey with the full
// plan hydrated
func (s *Service) ActiveJourney(ctx context.Context, memberID string) (*types.Journey, error) {
	return s.store.GetActiveJourney(ctx, memberID)
}
