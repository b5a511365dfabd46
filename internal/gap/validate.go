package gap

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when scorer input violates its contract.
var ErrInvalidInput = errors.New("invalid gap analysis input")

// Validate checks requirement and profile shapes. It is the only failure
// mode of the scorer; business preconditions (no profile, unknown role)
// belong to the caller.
func Validate(in Input) error {
	for i, r := range in.Requirements {
		if r.SkillID == "" {
			return fmt.Errorf("%w: requirement %d has no skill id", ErrInvalidInput, i)
		}
		if r.RequiredLevel < MinRequiredLevel || r.RequiredLevel > MaxLevel {
			return fmt.Errorf("%w: requirement %q level %d out of range [%d,%d]",
				ErrInvalidInput, r.SkillID, r.RequiredLevel, MinRequiredLevel, MaxLevel)
		}
		if !r.Importance.Valid() {
			return fmt.Errorf("%w: requirement %q has unknown importance %q",
				ErrInvalidInput, r.SkillID, r.Importance)
		}
	}
	for id, p := range in.Skills {
		if p.Level < MinLevel || p.Level > MaxLevel {
			return fmt.Errorf("%w: skill %q level %d out of range [%d,%d]",
				ErrInvalidInput, id, p.Level, MinLevel, MaxLevel)
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			return fmt.Errorf("%w: skill %q confidence %.2f out of range [0,1]",
				ErrInvalidInput, id, p.Confidence)
		}
	}
	return nil
}
