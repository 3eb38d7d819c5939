package decay

import "time"

// Engine binds the pure decay functions to a clock and a projection pace.
// The zero value is not usable; construct with New.
type Engine struct {
	now  func() time.Time
	pace float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the source of "now".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithChapterPace sets the days per chapter assumed by projections.
func WithChapterPace(days float64) Option {
	return func(e *Engine) {
		e.pace = days
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		now:  time.Now,
		pace: DefaultChapterPace,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) ComputeDecayedScore(record MasteryRecord, currentChapterCount int) (float64, error) {
	return CurrentDecayedScore(record, e.now(), currentChapterCount)
}

func (e *Engine) SuggestReviewTiming(record MasteryRecord, currentChapterCount int) (ReviewTiming, error) {
	return suggestReviewTiming(record, e.now(), currentChapterCount, e.pace)
}

func (e *Engine) PredictThresholdBreach(record MasteryRecord, currentChapterCount int, threshold float64) (int, bool, error) {
	return PredictThresholdBreach(record, e.now(), currentChapterCount, threshold, e.pace)
}

func (e *Engine) Project(record MasteryRecord, currentChapterCount, daysAhead int) ([]ProjectionPoint, error) {
	return Project(record, e.now(), currentChapterCount, daysAhead, e.pace)
}

func (e *Engine) Timeline(records []MasteryRecord, days int) ([]TimelinePoint, error) {
	return Timeline(records, e.now(), days)
}
