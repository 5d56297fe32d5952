// Package scoring provides the career readiness scoring rules.
//
// Two distinct rules exist and are intentionally not unified: the initial
// score derived from the size of the skill gap, and the adaptive score
// recomputed from task-completion events.
package scoring

// InitialReadiness returns the readiness score for a fresh analysis:
// 100 minus 15 per missing skill, floored at 20.
func InitialReadiness(missingCount int) int {
	score := 100 - 15*missingCount
	if score < 20 {
		return 20
	}
	if score > 100 {
		return 100
	}
	return score
}

// AdaptiveReadiness recomputes readiness after task completions:
// 5 points per completed task on top of the base score, capped at 100.
func AdaptiveReadiness(base, completedTasks int) int {
	score := base + completedTasks*5
	if score > 100 {
		return 100
	}
	return score
}
