package assessment

import "math"

// levelThresholds[i] is the exclusive upper score bound for level i.
var levelThresholds = [...]float64{0.2, 0.35, 0.5, 0.7, 0.9}

// Score grades answers against questions. The score is the share of
// difficulty points earned, so hard questions count for more.
func Score(questions []Question, answers []int) (score float64, correct int, err error) {
	if len(answers) != len(questions) {
		return 0, 0, ErrAnswerCount
	}

	var earned, total float64
	for i, q := range questions {
		w := float64(max(q.Difficulty, 1))
		total += w
		if answers[i] == q.Correct {
			earned += w
			correct++
		}
	}
	if total == 0 {
		return 0, 0, nil
	}
	return earned / total, correct, nil
}

// LevelFor maps a 0-1 score to a proficiency level.
func LevelFor(score float64) int {
	for lvl, bound := range levelThresholds {
		if score < bound {
			return lvl
		}
	}
	return len(levelThresholds)
}

// ConfidenceFor is the confidence of a quiz result with n questions.
func ConfidenceFor(n int) float64 {
	return math.Min(1, 0.5+0.1*float64(n))
}
