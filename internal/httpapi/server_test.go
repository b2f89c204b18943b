package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightfield/wellspring/internal/journey"
	"github.com/brightfield/wellspring/internal/storage"
	"github.com/brightfield/wellspring/internal/types"
)

type testEnv struct {
	handler http.Handler
	store   storage.Storage
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "wellspring-api-*.db")
	require.NoError(t, err)
	_ = tmpfile.Close()

	store, err := storage.NewStorage(context.Background(), &storage.Config{Path: tmpfile.Name()})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
		_ = os.Remove(tmpfile.Name())
	})

	svc, err := journey.NewService(store, nil, nil)
	require.NoError(t, err)

	return &testEnv{
		handler: NewServer(svc, store, nil, nil),
		store:   store,
	}
}

func (e *testEnv) createMember(t *testing.T, email string) *types.Member {
	t.Helper()
	member := &types.Member{Email: email, Name: "Member"}
	require.NoError(t, e.store.CreateMember(context.Background(), member))
	return member
}

// do issues a request with the member's bearer token; a nil member
// sends no Authorization header
func (e *testEnv) do(t *testing.T, method, path string, member *types.Member, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if member != nil {
		req.Header.Set("Authorization", "Bearer "+member.APIToken)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func surveyBody() *types.IntakeSurvey {
	return &types.IntakeSurvey{
		Goals: []types.Goal{
			{Category: types.CategoryPhysical, Priority: types.PriorityHigh, Timeline: types.TimelineThreeMonths, CurrentLevel: 3, TargetLevel: 8},
		},
		Lifestyle: types.LifestyleSnapshot{
			SleepHours:        7,
			StressLevel:       5,
			EnergyLevel:       5,
			SupportSystem:     types.SupportModerate,
			ExerciseFrequency: types.ExerciseRarely,
			DietQuality:       types.DietFair,
		},
		Preferences: types.Preferences{
			Intensity:       types.IntensityModerate,
			Frequency:       types.FrequencyWeekly,
			SessionDuration: types.Duration30Min,
		},
	}
}

func TestHealthzIsPublic(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	env := setupEnv(t)

	t.Run("missing token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/members/me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/members/me", nil)
		req.Header.Set("Authorization", "Bearer bogus-token")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		member := env.createMember(t, "me@example.org")
		rec := env.do(t, http.MethodGet, "/members/me", member, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeBody[types.Member](t, rec)
		assert.Equal(t, member.ID, got.ID)
		assert.Equal(t, "me@example.org", got.Email)
	})
}

func TestGenerateJourneyEndpoint(t *testing.T) {
	env := setupEnv(t)
	member := env.createMember(t, "gen@example.org")

	t.Run("valid survey", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/wellness-journey/generate", member, surveyBody())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		got := decodeBody[types.Journey](t, rec)
		assert.Equal(t, member.ID, got.MemberID)
		assert.Equal(t, types.JourneyTargeted, got.Type)
		assert.NotEmpty(t, got.Phases)
		assert.NotEmpty(t, got.Recommendations)
	})

	t.Run("invalid survey", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/wellness-journey/generate", member, &types.IntakeSurvey{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/wellness-journey/generate", bytes.NewBufferString("{not json"))
		req.Header.Set("Authorization", "Bearer "+member.APIToken)
		w := httptest.NewRecorder()
		env.handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/wellness-journey/generate", member, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestProgressEndpoint(t *testing.T) {
	env := setupEnv(t)
	member := env.createMember(t, "prog@example.org")

	rec := env.do(t, http.MethodPost, "/wellness-journey/generate", member, surveyBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	active := env.do(t, http.MethodGet, "/wellness-journey", member, nil)
	require.Equal(t, http.StatusOK, active.Code)
	j := decodeBody[types.Journey](t, active)
	require.NotEmpty(t, j.Recommendations)
	recID := j.Recommendations[0].ID

	t.Run("update accepted", func(t *testing.T) {
		res := env.do(t, http.MethodPost, "/wellness-journey/progress", member, &journey.ProgressUpdate{
			RecommendationID: recID,
			Progress:         50,
		})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		got := decodeBody[progressResponse](t, res)
		assert.Equal(t, recID, got.RecommendationID)
		assert.Equal(t, 50.0, got.Progress)
		assert.Greater(t, got.OverallProgress, 0.0)
	})

	t.Run("foreign member gets 403", func(t *testing.T) {
		intruder := env.createMember(t, "intruder@example.org")
		res := env.do(t, http.MethodPost, "/wellness-journey/progress", intruder, &journey.ProgressUpdate{
			RecommendationID: recID,
			Progress:         90,
		})
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("unknown recommendation gets 404", func(t *testing.T) {
		res := env.do(t, http.MethodPost, "/wellness-journey/progress", member, &journey.ProgressUpdate{
			RecommendationID: "no-such-rec",
			Progress:         10,
		})
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("progress out of range gets 400", func(t *testing.T) {
		res := env.do(t, http.MethodPost, "/wellness-journey/progress", member, &journey.ProgressUpdate{
			RecommendationID: recID,
			Progress:         120,
		})
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestDonationEndpoints(t *testing.T) {
	env := setupEnv(t)
	member := env.createMember(t, "donor@example.org")

	rec := env.do(t, http.MethodPost, "/donations", member, &createDonationRequest{Amount: 150})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	donation := decodeBody[types.Donation](t, rec)
	assert.Equal(t, types.DonationPending, donation.Status)
	// Type defaults to one_time when omitted
	assert.Equal(t, types.DonationOneTime, donation.Type)

	t.Run("complete transitions and credits", func(t *testing.T) {
		res := env.do(t, http.MethodPost, "/donations/"+donation.ID+"/complete", member, nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		completed := decodeBody[types.Donation](t, res)
		assert.Equal(t, types.DonationCompleted, completed.Status)
		require.NotNil(t, completed.CompletedAt)

		me := env.do(t, http.MethodGet, "/members/me", member, nil)
		got := decodeBody[types.Member](t, me)
		assert.Equal(t, 150.0, got.DonationTotal)
		assert.Equal(t, types.LevelSupporter, got.MembershipLevel)
	})

	t.Run("replay is a no-op", func(t *testing.T) {
		res := env.do(t, http.MethodPost, "/donations/"+donation.ID+"/complete", member, nil)
		require.Equal(t, http.StatusOK, res.Code)

		me := env.do(t, http.MethodGet, "/members/me", member, nil)
		got := decodeBody[types.Member](t, me)
		assert.Equal(t, 150.0, got.DonationTotal, "replay must not double-credit")
		assert.Equal(t, 150, got.RewardPoints)
	})

	t.Run("foreign member cannot complete", func(t *testing.T) {
		other := env.createMember(t, "other@example.org")
		res := env.do(t, http.MethodPost, "/donations/"+donation.ID+"/complete", other, nil)
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("unknown donation gets 404", func(t *testing.T) {
		res := env.do(t, http.MethodPost, "/donations/missing/complete", member, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("invalid amount gets 400", func(t *testing.T) {
		res := env.do(t, http.MethodPost, "/donations", member, &createDonationRequest{Amount: -5})
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestActiveJourneyNotFound(t *testing.T) {
	env := setupEnv(t)
	member := env.createMember(t, "empty@example.org")

	rec := env.do(t, http.MethodGet, "/wellness-journey", member, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	env := setupEnv(t)

	// Rebuild the handler with a tiny bucket
	svc, err := journey.NewService(env.store, nil, nil)
	require.NoError(t, err)
	limited := NewServer(svc, env.store, nil, &Config{RequestsPerSecond: 1, Burst: 2})

	saw429 := false
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			saw429 = true
		}
	}
	assert.True(t, saw429, "expected the bucket to run dry within 5 requests")
}

func TestCORSPreflight(t *testing.T) {
	env := setupEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/wellness-journey", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
