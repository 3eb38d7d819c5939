package models

import "time"

type Learner struct {
	ID                int64     `json:"id"`
	Username          string    `json:"username"`
	ChaptersCompleted int       `json:"chapters_completed"`
	CreatedAt         time.Time `json:"created_at"`
}
