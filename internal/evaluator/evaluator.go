// Package evaluator turns an intake survey into a generated wellness
// journey: a classification, an estimated completion date, ordered
// phases, recommendations, and insights.
//
// Evaluate is a pure function. It performs no I/O, uses no randomness,
// and produces identical output for identical input. Inputs are
// assumed to be validated before Evaluate is called; every branch
// below reduces to a default, so there is no failure path.
package evaluator

import (
	"math"
	"time"

	"github.com/brightfield/wellspring/internal/types"
)

// GeneratedJourney is the evaluator's complete output. Phases carry no
// IDs yet; the persistence layer assigns IDs and attaches the initial
// recommendations to the first phase.
type GeneratedJourney struct {
	Type                types.JourneyType
	EstimatedCompletion time.Time
	Phases              []*types.Phase
	Recommendations     []*types.Recommendation
	Insights            []*types.Insight
}

// intensityMultipliers scales the base plan length by how hard the
// member wants to push. Ordered lookup kept as data so boundary
// values are testable in one place.
var intensityMultipliers = map[types.Intensity]float64{
	types.IntensityGentle:   1.5,
	types.IntensityModerate: 1.0,
	types.IntensityIntense:  0.7,
}

// frequencyMultipliers scales plan length by session cadence
var frequencyMultipliers = map[types.Frequency]float64{
	types.FrequencyDaily:         0.8,
	types.FrequencyEveryOtherDay: 1.0,
	types.FrequencyWeekly:        1.5,
	types.FrequencyBiWeekly:      2.0,
	types.FrequencyMonthly:       3.0,
}

const weeksPerGoal = 4

// Evaluate maps the survey to a full generated journey. now is
// injected so callers (and tests) control "today".
func Evaluate(survey *types.IntakeSurvey, now time.Time) *GeneratedJourney {
	goals := survey.Goals
	lifestyle := &survey.Lifestyle
	prefs := &survey.Preferences

	return &GeneratedJourney{
		Type:                ClassifyJourney(goals, lifestyle),
		EstimatedCompletion: EstimateCompletion(goals, prefs, now),
		Phases:              GeneratePhases(goals),
		Recommendations:     GenerateRecommendations(goals, lifestyle, prefs),
		Insights:            GenerateInsights(goals, lifestyle),
	}
}

// ClassifyJourney picks the journey type. Rules are evaluated in
// order; the first match wins:
//
//  1. stress >= 8 or no support system  → crisis_recovery
//  2. three or more high-priority goals → comprehensive
//  3. exactly one high-priority goal    → targeted
//  4. otherwise                         → maintenance
func ClassifyJourney(goals []types.Goal, lifestyle *types.LifestyleSnapshot) types.JourneyType {
	if lifestyle.StressLevel >= 8 || lifestyle.SupportSystem == types.SupportNone {
		return types.JourneyCrisisRecovery
	}

	high := countHighPriority(goals)
	switch {
	case high >= 3:
		return types.JourneyComprehensive
	case high == 1:
		return types.JourneyTargeted
	default:
		return types.JourneyMaintenance
	}
}

// EstimateCompletion projects the plan end date: four weeks per goal,
// scaled by intensity and session frequency, rounded to whole weeks.
// With zero goals the date is now itself; the survey validator
// rejects empty goal lists upstream.
func EstimateCompletion(goals []types.Goal, prefs *types.Preferences, now time.Time) time.Time {
	baseWeeks := float64(len(goals) * weeksPerGoal)

	im, ok := intensityMultipliers[prefs.Intensity]
	if !ok {
		im = 1.0
	}
	fm, ok := frequencyMultipliers[prefs.Frequency]
	if !ok {
		fm = 1.0
	}

	weeks := math.Round(baseWeeks * im * fm)
	return now.AddDate(0, 0, int(weeks)*7)
}

func countHighPriority(goals []types.Goal) int {
	n := 0
	for i := range goals {
		if goals[i].Priority == types.PriorityHigh {
			n++
		}
	}
	return n
}
