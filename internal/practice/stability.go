package practice

import "math"

// Grade rates a practice session: 0=Again, 1=Hard, 2=Good, 3=Easy.
type Grade int

const (
	GradeAgain Grade = iota
	GradeHard
	GradeGood
	GradeEasy
)

const (
	InitialStability = 1.0
	MaxStability     = 100.0

	baseEase = 2.5
	minEase  = 1.3
)

// GradeFor maps a session score (0-100) to a grade.
func GradeFor(score float64) Grade {
	switch {
	case score >= 90:
		return GradeEasy
	case score >= 70:
		return GradeGood
	case score >= 50:
		return GradeHard
	default:
		return GradeAgain
	}
}

// Ease is the SM-2 ease factor for g, starting from the default ease.
func Ease(g Grade) float64 {
	q := float64(GradeEasy - g)
	ef := baseEase + 0.1 - q*(0.08+q*0.02)
	if ef < minEase {
		ef = minEase
	}
	return ef
}

// NextStability derives the stability after a session from the previous
// one. Again and Hard reset to InitialStability; Good and Easy grow it by
// the grade's ease, capped at MaxStability.
func NextStability(prev float64, g Grade) float64 {
	if g < GradeGood || prev <= 0 || math.IsNaN(prev) {
		return InitialStability
	}
	next := prev * Ease(g)
	if next > MaxStability {
		next = MaxStability
	}
	return next
}
