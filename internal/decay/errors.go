package decay

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRecord matches every *InvalidRecordError via errors.Is.
var ErrInvalidRecord = errors.New("invalid mastery record")

// InvalidRecordError reports which field of a MasteryRecord is unusable.
type InvalidRecordError struct {
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidRecord, e.Field, e.Reason)
}

func (e *InvalidRecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}

// Validate checks the record invariants. A zero-proficiency record is
// valid regardless of its stability or timestamp.
func Validate(record MasteryRecord) error {
	p := record.ProficiencyScore
	if math.IsNaN(p) || p < MinScore || p > MaxScore {
		return &InvalidRecordError{Field: "proficiency_score", Reason: fmt.Sprintf("must be within [0,100], got %v", p)}
	}
	if p == 0 {
		return nil
	}
	s := record.Stability
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return &InvalidRecordError{Field: "stability", Reason: fmt.Sprintf("must be positive when proficiency is set, got %v", s)}
	}
	if record.LastPracticedAt.IsZero() {
		return &InvalidRecordError{Field: "last_practiced_at", Reason: "is missing"}
	}
	return nil
}
