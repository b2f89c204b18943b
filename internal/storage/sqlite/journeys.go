package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightfield/wellspring/internal/types"
)

// CreateJourney persists a generated journey with its phases,
// recommendations, and insights in one transaction. Phases are
// inserted first so their IDs exist before recommendations reference
// them; recommendations without a phase are attached to the first
// phase. Nothing is visible to readers until the whole batch commits.
func (s *SQLiteStorage) CreateJourney(ctx context.Context, journey *types.Journey) error {
	if journey.MemberID == "" {
		return fmt.Errorf("%w: journey member_id is required", types.ErrValidation)
	}
	if !journey.Type.IsValid() {
		return fmt.Errorf("%w: invalid journey_type: %s", types.ErrValidation, journey.Type)
	}
	if len(journey.Phases) == 0 {
		return fmt.Errorf("%w: journey must have at least one phase", types.ErrValidation)
	}

	now := time.Now().UTC()
	if journey.ID == "" {
		journey.ID = uuid.NewString()
	}
	journey.CreatedAt = now
	journey.UpdatedAt = now
	journey.CurrentPhase = journey.Phases[0].Name

	conn, commit, done, err := s.immediateTx(ctx)
	if err != nil {
		return err
	}
	defer done()

	_, err = conn.ExecContext(ctx, `
		INSERT INTO journeys (
			id, member_id, journey_type, estimated_completion,
			current_phase, overall_progress, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`, journey.ID, journey.MemberID, journey.Type, journey.EstimatedCompletion,
		journey.CurrentPhase, journey.CreatedAt, journey.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert journey: %w", err)
	}

	for _, phase := range journey.Phases {
		if phase.ID == "" {
			phase.ID = uuid.NewString()
		}
		phase.JourneyID = journey.ID
		_, err = conn.ExecContext(ctx, `
			INSERT INTO phases (id, journey_id, name, description, phase_order, is_current)
			VALUES (?, ?, ?, ?, ?, ?)
		`, phase.ID, phase.JourneyID, phase.Name, phase.Description, phase.Order, phase.IsCurrent)
		if err != nil {
			return fmt.Errorf("failed to insert phase %q: %w", phase.Name, err)
		}
	}

	firstPhaseID := journey.Phases[0].ID
	for _, rec := range journey.Recommendations {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		rec.JourneyID = journey.ID
		if rec.PhaseID == "" {
			rec.PhaseID = firstPhaseID
		}
		_, err = conn.ExecContext(ctx, `
			INSERT INTO recommendations (
				id, journey_id, phase_id, rec_type, category, title,
				priority, estimated_minutes, progress, reasoning
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.ID, rec.JourneyID, rec.PhaseID, rec.Type, rec.Category,
			rec.Title, rec.Priority, rec.EstimatedMinutes, rec.Progress, rec.Reasoning)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation %q: %w", rec.Title, err)
		}
	}

	for _, insight := range journey.Insights {
		if insight.ID == "" {
			insight.ID = uuid.NewString()
		}
		insight.JourneyID = journey.ID
		_, err = conn.ExecContext(ctx, `
			INSERT INTO insights (id, journey_id, insight_type, message, confidence, impact_level)
			VALUES (?, ?, ?, ?, ?, ?)
		`, insight.ID, insight.JourneyID, insight.Type, insight.Message,
			insight.Confidence, insight.Impact)
		if err != nil {
			return fmt.Errorf("failed to insert insight: %w", err)
		}
	}

	return commit()
}

// GetJourney retrieves a journey with its phases, recommendations,
// and insights hydrated
func (s *SQLiteStorage) GetJourney(ctx context.Context, id string) (*types.Journey, error) {
	journey, err := s.getJourneyRow(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateJourney(ctx, journey); err != nil {
		return nil, err
	}
	return journey, nil
}

// GetActiveJourney returns the member's most recently created journey
func (s *SQLiteStorage) GetActiveJourney(ctx context.Context, memberID string) (*types.Journey, error) {
	journey, err := s.getJourneyRow(ctx,
		`WHERE member_id = ? ORDER BY created_at DESC LIMIT 1`, memberID)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateJourney(ctx, journey); err != nil {
		return nil, err
	}
	return journey, nil
}

func (s *SQLiteStorage) getJourneyRow(ctx context.Context, where string, args ...any) (*types.Journey, error) {
	var j types.Journey
	err := s.db.QueryRowContext(ctx, `
		SELECT id, member_id, journey_type, estimated_completion,
		       current_phase, overall_progress, created_at, updated_at
		FROM journeys `+where,
		args...,
	).Scan(&j.ID, &j.MemberID, &j.Type, &j.EstimatedCompletion,
		&j.CurrentPhase, &j.OverallProgress, &j.CreatedAt, &j.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("journey: %w", types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journey: %w", err)
	}
	return &j, nil
}

func (s *SQLiteStorage) hydrateJourney(ctx context.Context, journey *types.Journey) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, journey_id, name, description, phase_order, is_current
		FROM phases WHERE journey_id = ? ORDER BY phase_order ASC
	`, journey.ID)
	if err != nil {
		return fmt.Errorf("failed to get phases: %w", err)
	}
	for rows.Next() {
		var p types.Phase
		if err := rows.Scan(&p.ID, &p.JourneyID, &p.Name, &p.Description, &p.Order, &p.IsCurrent); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan phase: %w", err)
		}
		journey.Phases = append(journey.Phases, &p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate phases: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, journey_id, phase_id, rec_type, category, title,
		       priority, estimated_minutes, progress, reasoning
		FROM recommendations WHERE journey_id = ?
		ORDER BY priority ASC, id ASC
	`, journey.ID)
	if err != nil {
		return fmt.Errorf("failed to get recommendations: %w", err)
	}
	for rows.Next() {
		var r types.Recommendation
		if err := rows.Scan(&r.ID, &r.JourneyID, &r.PhaseID, &r.Type, &r.Category,
			&r.Title, &r.Priority, &r.EstimatedMinutes, &r.Progress, &r.Reasoning); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan recommendation: %w", err)
		}
		journey.Recommendations = append(journey.Recommendations, &r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, journey_id, insight_type, message, confidence, impact_level
		FROM insights WHERE journey_id = ?
	`, journey.ID)
	if err != nil {
		return fmt.Errorf("failed to get insights: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ins types.Insight
		if err := rows.Scan(&ins.ID, &ins.JourneyID, &ins.Type, &ins.Message,
			&ins.Confidence, &ins.Impact); err != nil {
			return fmt.Errorf("failed to scan insight: %w", err)
		}
		journey.Insights = append(journey.Insights, &ins)
	}
	return rows.Err()
}

// GetRecommendation retrieves a single recommendation by ID
func (s *SQLiteStorage) GetRecommendation(ctx context.Context, id string) (*types.Recommendation, error) {
	var r types.Recommendation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, journey_id, phase_id, rec_type, category, title,
		       priority, estimated_minutes, progress, reasoning
		FROM recommendations WHERE id = ?
	`, id).Scan(&r.ID, &r.JourneyID, &r.PhaseID, &r.Type, &r.Category,
		&r.Title, &r.Priority, &r.EstimatedMinutes, &r.Progress, &r.Reasoning)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recommendation %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return &r, nil
}

// ApplyProgress sets a recommendation's progress and recomputes the
// owning journey's overall progress as the arithmetic mean of all its
// recommendations, in one transaction. The ownership check runs
// inside the same transaction as the writes, so a foreign caller can
// never cause a partial state change. The mean is recomputed with a
// fresh aggregate query rather than an in-memory value, so concurrent
// updates to sibling recommendations serialize correctly under the
// IMMEDIATE write lock. Returns the journey's new overall progress.
func (s *SQLiteStorage) ApplyProgress(ctx context.Context, recommendationID, memberID string, progress float64) (float64, error) {
	if progress < 0 || progress > 100 {
		return 0, fmt.Errorf("%w: progress must be between 0 and 100 (got %.1f)", types.ErrValidation, progress)
	}

	conn, commit, done, err := s.immediateTx(ctx)
	if err != nil {
		return 0, err
	}
	defer done()

	var journeyID, ownerID string
	err = conn.QueryRowContext(ctx, `
		SELECT r.journey_id, j.member_id
		FROM recommendations r
		JOIN journeys j ON j.id = r.journey_id
		WHERE r.id = ?
	`, recommendationID).Scan(&journeyID, &ownerID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("recommendation %s: %w", recommendationID, types.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up recommendation: %w", err)
	}

	if ownerID != memberID {
		return 0, fmt.Errorf("recommendation %s belongs to another member: %w", recommendationID, types.ErrUnauthorized)
	}

	_, err = conn.ExecContext(ctx, `
		UPDATE recommendations SET progress = ? WHERE id = ?
	`, progress, recommendationID)
	if err != nil {
		return 0, fmt.Errorf("failed to update recommendation progress: %w", err)
	}

	// Fresh aggregate over all sibling recommendations. A journey
	// with zero recommendations has no defined mean; treat as 0.
	var overall sql.NullFloat64
	err = conn.QueryRowContext(ctx, `
		SELECT AVG(progress) FROM recommendations WHERE journey_id = ?
	`, journeyID).Scan(&overall)
	if err != nil {
		return 0, fmt.Errorf("failed to recompute journey progress: %w", err)
	}
	newOverall := 0.0
	if overall.Valid {
		newOverall = overall.Float64
	}

	_, err = conn.ExecContext(ctx, `
		UPDATE journeys SET overall_progress = ?, updated_at = ? WHERE id = ?
	`, newOverall, time.Now().UTC(), journeyID)
	if err != nil {
		return 0, fmt.Errorf("failed to update journey progress: %w", err)
	}

	if err := commit(); err != nil {
		return 0, err
	}
	return newOverall, nil
}
