package evaluator

import (
	"fmt"

	"github.com/brightfield/wellspring/internal/types"
)

// GenerateInsights runs the advisory heuristics. Triggers are
// independent; any subset may fire, and an empty slice is a valid
// result for unremarkable input.
func GenerateInsights(goals []types.Goal, lifestyle *types.LifestyleSnapshot) []*types.Insight {
	var insights []*types.Insight

	if lifestyle.StressLevel >= 7 {
		insights = append(insights, &types.Insight{
			Type: types.InsightRiskAssessment,
			Message: fmt.Sprintf(
				"Stress level %d/10 is in the elevated range. The plan front-loads stress management; consider professional support if this persists.",
				lifestyle.StressLevel),
			Confidence: 0.9,
			Impact:     types.ImpactHigh,
		})
	}

	if lifestyle.SleepHours < 6 || lifestyle.SleepHours > 9 {
		insights = append(insights, &types.Insight{
			Type: types.InsightPattern,
			Message: fmt.Sprintf(
				"Reported sleep of %.1f hours falls outside the 6-9 hour range associated with better goal adherence.",
				lifestyle.SleepHours),
			Confidence: 0.8,
			Impact:     types.ImpactMedium,
		})
	}

	if countHighPriority(goals) > 3 {
		insights = append(insights, &types.Insight{
			Type: types.InsightOptimization,
			Message: "More than three goals are marked high priority. Sequencing two or three at a time " +
				"tends to produce better completion rates than working all of them at once.",
			Confidence: 0.85,
			Impact:     types.ImpactMedium,
		})
	}

	return insights
}
