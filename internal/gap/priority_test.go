package gap

import "testing"

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		name       string
		gap        float64
		importance Importance
		want       Priority
	}{
		{"must have small gap", 1, MustHave, PriorityCritical},
		{"must have fractional gap", 0.5, MustHave, PriorityCritical},
		{"large gap", 3, NiceToHave, PriorityCritical},
		{"two levels", 2, GoodToHave, PriorityHigh},
		{"one level", 1, GoodToHave, PriorityMedium},
		{"fractional gap", 0.5, NiceToHave, PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriorityFor(tt.gap, tt.importance); got != tt.want {
				t.Errorf("PriorityFor(%v, %s) = %s, want %s", tt.gap, tt.importance, got, tt.want)
			}
		})
	}
}

func TestPriorityFor_MonotonicInGapSize(t *testing.T) {
	for _, imp := range []Importance{MustHave, GoodToHave, NiceToHave} {
		prev := PriorityFor(0.25, imp).Severity()
		for gap := 0.5; gap <= 5; gap += 0.25 {
			sev := PriorityFor(gap, imp).Severity()
			if sev > prev {
				t.Fatalf("%s: severity decreased at gap %.2f (%d > %d)", imp, gap, sev, prev)
			}
			prev = sev
		}
	}
}

func TestPriorityFor_MustHaveAlwaysCritical(t *testing.T) {
	for gap := 1; gap <= 5; gap++ {
		if got := PriorityFor(float64(gap), MustHave); got != PriorityCritical {
			t.Errorf("gap %d: got %s", gap, got)
		}
	}
}

func TestDifficultyMultiplier_Monotonic(t *testing.T) {
	prev := DifficultyMultiplier(1)
	for level := 2; level <= MaxLevel; level++ {
		m := DifficultyMultiplier(level)
		if m < prev {
			t.Fatalf("multiplier decreased at level %d", level)
		}
		prev = m
	}
}

func TestEstimateHours_NonPositiveGap(t *testing.T) {
	if h := EstimateHours(0, 3, PerLevelBaseHours); h != 0 {
		t.Errorf("EstimateHours(0) = %v, want 0", h)
	}
	if h := EstimateHours(-2, 3, PerLevelBaseHours); h != 0 {
		t.Errorf("EstimateHours(-2) = %v, want 0", h)
	}
}
