// Package decay estimates how much of a learner's mastery of an item
// survives elapsed time and intervening learning.
//
// The model is hybrid: a power-law forgetting curve over days since the
// item was last practiced, multiplied by an interference factor over the
// chapters completed since. Both factors lie in (0,1], so a decayed score
// never exceeds the recorded proficiency and never drops below zero.
//
// All functions are pure and safe for concurrent use.
package decay

import (
	"math"
	"time"
)

const (
	// StabilityScale sets the forgetting rate: after Stability days the
	// time retention is 1/(1+1/9), roughly 90%.
	StabilityScale = 9.0

	// InterferenceHalfLife is the number of chapters after which the
	// interference factor reaches 0.5.
	InterferenceHalfLife = 10.0

	MinScore = 0.0
	MaxScore = 100.0
)

const day = 24 * time.Hour

// MasteryRecord is the engine's read-only view of one learner/item pair.
type MasteryRecord struct {
	ProficiencyScore           float64   `json:"proficiency_score"`
	Stability                  float64   `json:"stability"`
	LastPracticedAt            time.Time `json:"last_practiced_at"`
	ChaptersCompletedAtMastery int       `json:"chapters_completed_at_mastery"`
}

// DaysSinceLastUse returns the fractional days between the last practice
// and now. A last practice in the future is clamped to zero.
func DaysSinceLastUse(record MasteryRecord, now time.Time) float64 {
	elapsed := now.Sub(record.LastPracticedAt)
	if elapsed <= 0 {
		return 0
	}
	return elapsed.Hours() / 24
}

// ChaptersCompletedSince returns how many chapters the learner finished
// after the record's snapshot, never negative.
func ChaptersCompletedSince(record MasteryRecord, currentChapterCount int) int {
	n := currentChapterCount - record.ChaptersCompletedAtMastery
	if n < 0 {
		return 0
	}
	return n
}

// TimeRetention is the fraction of mastery retained after daysSinceLastUse
// days: 1 / (1 + days / (StabilityScale * stability)).
//
// It returns 1 for zero elapsed time. Callers are expected to have
// validated the record; a non-positive stability yields 0 once any time
// has passed.
func TimeRetention(record MasteryRecord, daysSinceLastUse float64) float64 {
	if daysSinceLastUse <= 0 {
		return 1
	}
	return 1 / (1 + daysSinceLastUse/(StabilityScale*record.Stability))
}

// InterferenceFactor is the fraction of mastery retained after
// chaptersCompletedSince chapters of unrelated material.
func InterferenceFactor(chaptersCompletedSince int) float64 {
	if chaptersCompletedSince <= 0 {
		return 1
	}
	return 1 / (1 + float64(chaptersCompletedSince)/InterferenceHalfLife)
}

// CurrentDecayedScore returns the record's proficiency after time decay and
// interference, clamped to [0,100].
func CurrentDecayedScore(record MasteryRecord, now time.Time, currentChapterCount int) (float64, error) {
	if err := Validate(record); err != nil {
		return 0, err
	}
	return scoreAt(record, DaysSinceLastUse(record, now), ChaptersCompletedSince(record, currentChapterCount)), nil
}

// ComputeDecayedScore is an alias of CurrentDecayedScore.
func ComputeDecayedScore(record MasteryRecord, now time.Time, currentChapterCount int) (float64, error) {
	return CurrentDecayedScore(record, now, currentChapterCount)
}

// scoreAt assumes a validated record.
func scoreAt(record MasteryRecord, days float64, chapters int) float64 {
	if record.ProficiencyScore == 0 {
		return 0
	}
	decayed := record.ProficiencyScore * TimeRetention(record, days) * InterferenceFactor(chapters)
	return clamp(decayed, MinScore, MaxScore)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
