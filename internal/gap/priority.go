package gap

// Gap size thresholds for priority assignment.
const (
	CriticalThreshold = 3
	HighThreshold     = 2
	MediumThreshold   = 1
)

// PriorityFor maps a positive gap to a priority. Rules are evaluated in
// order and the first match wins; must-have skills are always critical.
func PriorityFor(gapSize float64, importance Importance) Priority {
	switch {
	case gapSize >= CriticalThreshold || importance == MustHave:
		return PriorityCritical
	case gapSize >= HighThreshold:
		return PriorityHigh
	case gapSize >= MediumThreshold:
		return PriorityMedium
	default:
		// Only reachable with fractional gaps.
		return PriorityLow
	}
}

// PerLevelBaseHours is the remediation estimate for closing one level.
const PerLevelBaseHours = 20.0

// DifficultyMultiplier scales the per-level estimate by the band of the
// target level: beginner (1-2), intermediate (3), advanced (4-5).
func DifficultyMultiplier(requiredLevel int) float64 {
	switch {
	case requiredLevel >= 4:
		return 1.5
	case requiredLevel == 3:
		return 1.25
	default:
		return 1.0
	}
}

// EstimateHours returns the estimated time to close a gap, in hours.
// Non-positive gaps need no time.
func EstimateHours(gapSize, requiredLevel int, perLevelHours float64) float64 {
	if gapSize <= 0 {
		return 0
	}
	return float64(gapSize) * perLevelHours * DifficultyMultiplier(requiredLevel)
}
