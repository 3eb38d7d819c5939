package practice_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/recall/internal/practice"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score float64
		want  practice.Grade
	}{
		{0, practice.GradeAgain},
		{49.9, practice.GradeAgain},
		{50, practice.GradeHard},
		{70, practice.GradeGood},
		{89, practice.GradeGood},
		{90, practice.GradeEasy},
		{100, practice.GradeEasy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, practice.GradeFor(tt.score), "score %v", tt.score)
	}
}

func TestEase(t *testing.T) {
	assert.InDelta(t, 2.6, practice.Ease(practice.GradeEasy), 1e-9)
	assert.InDelta(t, 2.5, practice.Ease(practice.GradeGood), 1e-9)
	assert.Less(t, practice.Ease(practice.GradeAgain), practice.Ease(practice.GradeHard))
	assert.GreaterOrEqual(t, practice.Ease(practice.GradeAgain), 1.3)
}

func TestNextStability_GrowsOnSuccess(t *testing.T) {
	s := practice.InitialStability
	s = practice.NextStability(s, practice.GradeGood)
	assert.InDelta(t, 2.5, s, 1e-9, "good review should grow stability by the ease factor")

	s = practice.NextStability(s, practice.GradeEasy)
	assert.InDelta(t, 6.5, s, 1e-9)
}

func TestNextStability_ResetsOnLapse(t *testing.T) {
	assert.Equal(t, practice.InitialStability, practice.NextStability(20, practice.GradeAgain))
	assert.Equal(t, practice.InitialStability, practice.NextStability(20, practice.GradeHard))
}

func TestNextStability_Bounds(t *testing.T) {
	assert.Equal(t, practice.MaxStability, practice.NextStability(90, practice.GradeEasy), "stability is capped")
	assert.Equal(t, practice.InitialStability, practice.NextStability(0, practice.GradeEasy), "unpracticed items start fresh")
	assert.Equal(t, practice.InitialStability, practice.NextStability(math.NaN(), practice.GradeGood))
}
