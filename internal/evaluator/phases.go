package evaluator

import (
	"fmt"

	"github.com/brightfield/wellspring/internal/types"
)

// GeneratePhases builds the phase ladder for a journey:
//
//	1      Foundation Building (always first, always current)
//	2..k+1 one "{Category} Development" per distinct goal category,
//	       in the order categories first appear in the goal list
//	k+2    Integration & Optimization
//
// Order values are contiguous starting at 1.
func GeneratePhases(goals []types.Goal) []*types.Phase {
	phases := []*types.Phase{
		{
			Name:        "Foundation Building",
			Description: "Establish daily routines, baseline habits, and self-awareness practices.",
			Order:       1,
			IsCurrent:   true,
		},
	}

	order := 2
	seen := make(map[types.GoalCategory]bool)
	for i := range goals {
		cat := goals[i].Category
		if seen[cat] {
			continue
		}
		seen[cat] = true
		phases = append(phases, &types.Phase{
			Name:        fmt.Sprintf("%s Development", cat.Title()),
			Description: fmt.Sprintf("Focused work on %s goals with progressive weekly targets.", cat),
			Order:       order,
		})
		order++
	}

	phases = append(phases, &types.Phase{
		Name:        "Integration & Optimization",
		Description: "Consolidate gains across all areas and build long-term maintenance habits.",
		Order:       order,
	})

	return phases
}
