package sqlite

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/brightfield/wellspring/internal/types"
)

// seedJourney persists a minimal journey with two phases and three
// zero-progress recommendations
func seedJourney(t *testing.T, store *SQLiteStorage, memberID string) *types.Journey {
	t.Helper()

	journey := &types.Journey{
		MemberID:            memberID,
		Type:                types.JourneyMaintenance,
		EstimatedCompletion: time.Now().UTC().AddDate(0, 0, 84),
		Phases: []*types.Phase{
			{Name: "Foundation Building", Order: 1, IsCurrent: true},
			{Name: "Integration & Optimization", Order: 2},
		},
		Recommendations: []*types.Recommendation{
			{Type: types.RecMindfulness, Category: "mindfulness", Title: "Morning Mindfulness Check-in", Priority: 1, EstimatedMinutes: 5},
			{Type: types.RecWeeklyGoal, Category: "physical", Title: "Weekly beginner movement session", Priority: 2, EstimatedMinutes: 30},
			{Type: types.RecDailyPractice, Category: "mental", Title: "Daily focus and reflection practice", Priority: 2, EstimatedMinutes: 15},
		},
		Insights: []*types.Insight{
			{Type: types.InsightPattern, Message: "Reported sleep of 5.0 hours falls outside the 6-9 hour range.", Confidence: 0.8, Impact: types.ImpactMedium},
		},
	}
	if err := store.CreateJourney(context.Background(), journey); err != nil {
		t.Fatalf("Failed to create journey: %v", err)
	}
	return journey
}

func TestCreateJourneyBatch(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	member := seedMember(t, store, "journey@example.org", 0)
	journey := seedJourney(t, store, member.ID)

	if journey.ID == "" {
		t.Fatal("Expected generated journey ID")
	}
	if journey.CurrentPhase != "Foundation Building" {
		t.Errorf("Expected current phase from first phase, got %s", journey.CurrentPhase)
	}

	got, err := store.GetJourney(ctx, journey.ID)
	if err != nil {
		t.Fatalf("Failed to get journey: %v", err)
	}

	if len(got.Phases) != 2 {
		t.Fatalf("Expected 2 phases, got %d", len(got.Phases))
	}
	if got.Phases[0].Order != 1 || got.Phases[1].Order != 2 {
		t.Error("Expected phases ordered by phase_order")
	}
	if !got.Phases[0].IsCurrent || got.Phases[1].IsCurrent {
		t.Error("Expected only the first phase to be current")
	}

	if len(got.Recommendations) != 3 {
		t.Fatalf("Expected 3 recommendations, got %d", len(got.Recommendations))
	}
	// Recommendations without an explicit phase attach to the first phase
	for _, rec := range got.Recommendations {
		if rec.PhaseID != got.Phases[0].ID {
			t.Errorf("Expected recommendation %q attached to first phase", rec.Title)
		}
		if rec.Progress != 0 {
			t.Errorf("Expected zero initial progress, got %.1f", rec.Progress)
		}
	}

	if len(got.Insights) != 1 {
		t.Fatalf("Expected 1 insight, got %d", len(got.Insights))
	}
	if got.OverallProgress != 0 {
		t.Errorf("Expected zero overall progress on creation, got %.1f", got.OverallProgress)
	}
}

func TestCreateJourneyValidation(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	member := seedMember(t, store, "badjourney@example.org", 0)

	tests := []struct {
		name    string
		journey *types.Journey
	}{
		{"missing member", &types.Journey{Type: types.JourneyMaintenance, Phases: []*types.Phase{{Name: "p", Order: 1}}}},
		{"bad type", &types.Journey{MemberID: member.ID, Type: "heroic", Phases: []*types.Phase{{Name: "p", Order: 1}}}},
		{"no phases", &types.Journey{MemberID: member.ID, Type: types.JourneyMaintenance}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.CreateJourney(ctx, tt.journey)
			if !errors.Is(err, types.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestGetActiveJourneyReturnsNewest(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	member := seedMember(t, store, "active@example.org", 0)
	seedJourney(t, store, member.ID)
	time.Sleep(5 * time.Millisecond)
	newest := seedJourney(t, store, member.ID)

	got, err := store.GetActiveJourney(ctx, member.ID)
	if err != nil {
		t.Fatalf("Failed to get active journey: %v", err)
	}
	if got.ID != newest.ID {
		t.Errorf("Expected newest journey %s, got %s", newest.ID, got.ID)
	}

	other := seedMember(t, store, "nojourney@example.org", 0)
	_, err = store.GetActiveJourney(ctx, other.ID)
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for member without journeys, got %v", err)
	}
}

// TestApplyProgressRecomputesMean walks a journey's recommendations
// through updates and checks the overall progress is recomputed as the
// arithmetic mean each time.
func TestApplyProgressRecomputesMean(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	member := seedMember(t, store, "progress@example.org", 0)
	journey := seedJourney(t, store, member.ID)
	recs := journey.Recommendations

	// {0, 50, 100} -> mean 50
	if _, err := store.ApplyProgress(ctx, recs[1].ID, member.ID, 50); err != nil {
		t.Fatalf("Failed to apply progress: %v", err)
	}
	overall, err := store.ApplyProgress(ctx, recs[2].ID, member.ID, 100)
	if err != nil {
		t.Fatalf("Failed to apply progress: %v", err)
	}
	if overall != 50 {
		t.Errorf("Expected overall 50 for {0,50,100}, got %.2f", overall)
	}

	// {100, 50, 100} -> mean 83.33
	overall, err = store.ApplyProgress(ctx, recs[0].ID, member.ID, 100)
	if err != nil {
		t.Fatalf("Failed to apply progress: %v", err)
	}
	if math.Abs(overall-250.0/3.0) > 0.01 {
		t.Errorf("Expected overall 83.33 for {100,50,100}, got %.4f", overall)
	}

	got, err := store.GetJourney(ctx, journey.ID)
	if err != nil {
		t.Fatalf("Failed to get journey: %v", err)
	}
	if math.Abs(got.OverallProgress-250.0/3.0) > 0.01 {
		t.Errorf("Expected persisted overall 83.33, got %.4f", got.OverallProgress)
	}
}

func TestApplyProgressOwnership(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	owner := seedMember(t, store, "owner@example.org", 0)
	intruder := seedMember(t, store, "intruder@example.org", 0)
	journey := seedJourney(t, store, owner.ID)
	rec := journey.Recommendations[0]

	_, err := store.ApplyProgress(ctx, rec.ID, intruder.ID, 75)
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}

	// No partial state change: the recommendation and the journey
	// aggregate are both untouched.
	gotRec, err := store.GetRecommendation(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Failed to get recommendation: %v", err)
	}
	if gotRec.Progress != 0 {
		t.Errorf("Expected progress unchanged after rejected update, got %.1f", gotRec.Progress)
	}
	gotJourney, err := store.GetJourney(ctx, journey.ID)
	if err != nil {
		t.Fatalf("Failed to get journey: %v", err)
	}
	if gotJourney.OverallProgress != 0 {
		t.Errorf("Expected overall unchanged after rejected update, got %.1f", gotJourney.OverallProgress)
	}
}

func TestApplyProgressBounds(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	member := seedMember(t, store, "bounds@example.org", 0)
	journey := seedJourney(t, store, member.ID)
	rec := journey.Recommendations[0]

	for _, progress := range []float64{-0.1, 100.1} {
		_, err := store.ApplyProgress(ctx, rec.ID, member.ID, progress)
		if !errors.Is(err, types.ErrValidation) {
			t.Errorf("Expected ErrValidation for progress %.1f, got %v", progress, err)
		}
	}

	// Inclusive endpoints are fine
	for _, progress := range []float64{0, 100} {
		if _, err := store.ApplyProgress(ctx, rec.ID, member.ID, progress); err != nil {
			t.Errorf("Expected progress %.1f accepted, got %v", progress, err)
		}
	}
}

func TestApplyProgressUnknownRecommendation(t *testing.T) {
	store := setupTestDB(t)

	member := seedMember(t, store, "unknown@example.org", 0)
	_, err := store.ApplyProgress(context.Background(), "no-such-rec", member.ID, 50)
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
