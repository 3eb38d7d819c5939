package models

import (
	"time"

	"github.com/vytor/recall/internal/decay"
)

type Mastery struct {
	ID                         int64     `json:"id"`
	LearnerID                  int64     `json:"learner_id"`
	Skill                      string    `json:"skill"`
	ProficiencyScore           float64   `json:"proficiency_score"`
	Stability                  float64   `json:"stability"`
	LastPracticedAt            time.Time `json:"last_practiced_at"`
	ChaptersCompletedAtMastery int       `json:"chapters_completed_at_mastery"`
	TotalAttempts              int       `json:"total_attempts"`
	SuccessfulAttempts         int       `json:"successful_attempts"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// Record is the snapshot the decay engine reads.
func (m Mastery) Record() decay.MasteryRecord {
	return decay.MasteryRecord{
		ProficiencyScore:           m.ProficiencyScore,
		Stability:                  m.Stability,
		LastPracticedAt:            m.LastPracticedAt,
		ChaptersCompletedAtMastery: m.ChaptersCompletedAtMastery,
	}
}

// SuccessRate is 0 for an item never attempted.
func (m Mastery) SuccessRate() float64 {
	if m.TotalAttempts == 0 {
		return 0
	}
	return float64(m.SuccessfulAttempts) / float64(m.TotalAttempts)
}

type MasteryFilter struct {
	LearnerID int64
	Skill     string
	MinScore  *float64
	MaxScore  *float64
	Limit     int
	Offset    int
}

// PracticeEvent replaces all four decay inputs of a mastery. The chapter
// snapshot is taken from the learner when the event is applied.
type PracticeEvent struct {
	MasteryID   int64     `json:"mastery_id"`
	Score       float64   `json:"score"`
	Stability   float64   `json:"stability"`
	Success     bool      `json:"success"`
	PracticedAt time.Time `json:"practiced_at"`
}

// MasteryReview pairs a mastery with its current scheduling suggestion.
type MasteryReview struct {
	Mastery Mastery `json:"mastery"`
	decay.ReviewTiming
}

type ReviewSnapshot struct {
	MasteryID    int64         `json:"mastery_id"`
	LearnerID    int64         `json:"learner_id"`
	DecayedScore float64       `json:"decayed_score"`
	Urgency      decay.Urgency `json:"urgency"`
	ComputedAt   time.Time     `json:"computed_at"`
}
