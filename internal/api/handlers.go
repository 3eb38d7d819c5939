package api

import (
	"context"
	"time"

	"github.com/vytor/recall/internal/jobs"
	"github.com/vytor/recall/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	DB             Pinger
	LearnerService services.LearnerService
	MasteryService services.MasteryService
	ReviewService  services.ReviewService
	Jobs           jobs.JobQueue
	RequestTimeout time.Duration
}
