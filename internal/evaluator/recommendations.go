package evaluator

import (
	"fmt"

	"github.com/brightfield/wellspring/internal/types"
)

// recInput carries everything a per-category recommender can see
type recInput struct {
	goal      *types.Goal
	lifestyle *types.LifestyleSnapshot
	prefs     *types.Preferences
}

// categoryRecommenders maps a goal category to its recommendation
// builder. Categories without an entry produce no recommendations.
// Adding a handler for emotional, social, etc. means adding an entry
// here, not touching control flow.
var categoryRecommenders = map[types.GoalCategory]func(recInput) *types.Recommendation{
	types.CategoryPhysical: physicalRecommendation,
	types.CategoryMental:   mentalRecommendation,
}

// GenerateRecommendations emits the initial recommendation set: one
// fixed mindfulness check-in, then one recommendation per goal whose
// category has a registered recommender.
func GenerateRecommendations(goals []types.Goal, lifestyle *types.LifestyleSnapshot, prefs *types.Preferences) []*types.Recommendation {
	recs := []*types.Recommendation{
		{
			Type:             types.RecMindfulness,
			Category:         "mindfulness",
			Title:            "Morning Mindfulness Check-in",
			Priority:         1,
			EstimatedMinutes: 5,
			Reasoning: fmt.Sprintf(
				"With a reported stress level of %d/10, a short daily grounding practice builds the awareness the rest of the plan depends on.",
				lifestyle.StressLevel),
		},
	}

	for i := range goals {
		build, ok := categoryRecommenders[goals[i].Category]
		if !ok {
			continue
		}
		recs = append(recs, build(recInput{
			goal:      &goals[i],
			lifestyle: lifestyle,
			prefs:     prefs,
		}))
	}

	return recs
}

// physicalRecommendation derives a weekly activity from the goal's
// self-rated current level. Session length follows the member's
// duration preference: 30 minutes for the 30-minute preference,
// otherwise 45.
func physicalRecommendation(in recInput) *types.Recommendation {
	difficulty := "advanced"
	switch {
	case in.goal.CurrentLevel <= 3:
		difficulty = "beginner"
	case in.goal.CurrentLevel <= 6:
		difficulty = "intermediate"
	}

	minutes := 45
	if in.prefs.SessionDuration == types.Duration30Min {
		minutes = 30
	}

	return &types.Recommendation{
		Type:             types.RecWeeklyGoal,
		Category:         string(types.CategoryPhysical),
		Title:            fmt.Sprintf("Weekly %s movement session", difficulty),
		Priority:         2,
		EstimatedMinutes: minutes,
		Reasoning: fmt.Sprintf(
			"Current fitness self-rating of %d/10 maps to a %s starting intensity, keeping early sessions achievable.",
			in.goal.CurrentLevel, difficulty),
	}
}

// mentalRecommendation is a fixed daily practice; high-priority goals
// get top placement.
func mentalRecommendation(in recInput) *types.Recommendation {
	priority := 2
	if in.goal.Priority == types.PriorityHigh {
		priority = 1
	}

	return &types.Recommendation{
		Type:             types.RecDailyPractice,
		Category:         string(types.CategoryMental),
		Title:            "Daily focus and reflection practice",
		Priority:         priority,
		EstimatedMinutes: 15,
		Reasoning:        "A consistent daily practice compounds faster than longer, less frequent sessions for mental goals.",
	}
}
