package decay

import (
	"fmt"
	"math"
	"time"
)

// Urgency buckets a decayed score into a review priority.
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// Lower bounds of the LOW, MEDIUM and HIGH buckets. Anything below
// ThresholdHigh is CRITICAL.
const (
	ThresholdLow    = 80.0
	ThresholdMedium = 50.0
	ThresholdHigh   = 25.0
)

var UrgencyThresholds = [3]float64{ThresholdLow, ThresholdMedium, ThresholdHigh}

const (
	// BreachHorizonDays bounds PredictThresholdBreach.
	BreachHorizonDays = 30

	// DefaultChapterPace assumes one chapter completed every three days
	// when projecting forward.
	DefaultChapterPace = 3.0

	maxMediumReviewDays = 3
	maxLowReviewDays    = 7
)

// Severity orders urgencies; CRITICAL is the highest.
func (u Urgency) Severity() int {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyMedium:
		return 1
	case UrgencyHigh:
		return 2
	case UrgencyCritical:
		return 3
	default:
		return -1
	}
}

// ParseUrgency accepts the upper-case bucket names.
func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(s)
	if u.Severity() < 0 {
		return "", fmt.Errorf("unknown urgency %q", s)
	}
	return u, nil
}

// ClassifyUrgency maps a score to exactly one bucket.
func ClassifyUrgency(score float64) Urgency {
	switch {
	case score >= ThresholdLow:
		return UrgencyLow
	case score >= ThresholdMedium:
		return UrgencyMedium
	case score >= ThresholdHigh:
		return UrgencyHigh
	default:
		return UrgencyCritical
	}
}

// ReviewTiming is the scheduling suggestion for one record.
type ReviewTiming struct {
	DecayedScore float64 `json:"decayed_score"`
	Urgency      Urgency `json:"urgency"`
	Days         int     `json:"days"`
	Reason       string  `json:"reason"`
}

// Less reports whether a should be reviewed before b: higher urgency
// first, then lower score.
func Less(a, b ReviewTiming) bool {
	if a.Urgency.Severity() != b.Urgency.Severity() {
		return a.Urgency.Severity() > b.Urgency.Severity()
	}
	return a.DecayedScore < b.DecayedScore
}

// SuggestReviewTiming classifies the record's decayed score and suggests
// how many days until the next review.
func SuggestReviewTiming(record MasteryRecord, now time.Time, currentChapterCount int) (ReviewTiming, error) {
	return suggestReviewTiming(record, now, currentChapterCount, DefaultChapterPace)
}

func suggestReviewTiming(record MasteryRecord, now time.Time, currentChapterCount int, pace float64) (ReviewTiming, error) {
	score, err := CurrentDecayedScore(record, now, currentChapterCount)
	if err != nil {
		return ReviewTiming{}, err
	}
	timing := ReviewTiming{DecayedScore: score, Urgency: ClassifyUrgency(score)}

	switch timing.Urgency {
	case UrgencyCritical:
		timing.Days = 0
		timing.Reason = fmt.Sprintf("score below %.0f - relearn as new material", ThresholdHigh)
	case UrgencyHigh:
		timing.Days = 0
		timing.Reason = fmt.Sprintf("score below %.0f - review now", ThresholdMedium)
	case UrgencyMedium:
		timing.Days = maxMediumReviewDays
		if d, ok, _ := predictThresholdBreach(record, now, currentChapterCount, ThresholdMedium, pace); ok && d/2 < timing.Days {
			timing.Days = d / 2
		}
		timing.Reason = "preventive review recommended"
	default:
		timing.Days = maxLowReviewDays
		if d, ok, _ := predictThresholdBreach(record, now, currentChapterCount, ThresholdLow, pace); ok {
			if soon := int(math.Round(float64(d) * 0.7)); soon < timing.Days {
				timing.Days = soon
			}
		}
		timing.Reason = "maintenance review"
	}
	return timing, nil
}

// PredictThresholdBreach returns the first day within BreachHorizonDays on
// which the projected score falls below threshold, assuming one chapter is
// completed every pace days (pace <= 0 means no further chapters). It
// returns 0 when the score is already below threshold and ok=false when no
// breach happens within the horizon.
func PredictThresholdBreach(record MasteryRecord, now time.Time, currentChapterCount int, threshold, pace float64) (days int, ok bool, err error) {
	if err := Validate(record); err != nil {
		return 0, false, err
	}
	return predictThresholdBreach(record, now, currentChapterCount, threshold, pace)
}

func predictThresholdBreach(record MasteryRecord, now time.Time, currentChapterCount int, threshold, pace float64) (int, bool, error) {
	elapsed := DaysSinceLastUse(record, now)
	since := ChaptersCompletedSince(record, currentChapterCount)
	if scoreAt(record, elapsed, since) < threshold {
		return 0, true, nil
	}
	for d := 1; d <= BreachHorizonDays; d++ {
		if scoreAt(record, elapsed+float64(d), since+chaptersAhead(d, pace)) < threshold {
			return d, true, nil
		}
	}
	return 0, false, nil
}

func chaptersAhead(days int, pace float64) int {
	if pace <= 0 {
		return 0
	}
	return int(math.Floor(float64(days) / pace))
}

// ProjectionPoint is one day of a forward decay projection.
type ProjectionPoint struct {
	Day          int     `json:"day"`
	Chapters     int     `json:"chapters"`
	Score        float64 `json:"score"`
	Retention    float64 `json:"retention"`
	Interference float64 `json:"interference"`
	Urgency      Urgency `json:"urgency"`
}

// Project returns daysAhead+1 points, starting with today.
func Project(record MasteryRecord, now time.Time, currentChapterCount, daysAhead int, pace float64) ([]ProjectionPoint, error) {
	if err := Validate(record); err != nil {
		return nil, err
	}
	if daysAhead < 0 {
		daysAhead = 0
	}
	elapsed := DaysSinceLastUse(record, now)
	since := ChaptersCompletedSince(record, currentChapterCount)

	points := make([]ProjectionPoint, 0, daysAhead+1)
	for d := 0; d <= daysAhead; d++ {
		days := elapsed + float64(d)
		chapters := since + chaptersAhead(d, pace)
		score := scoreAt(record, days, chapters)
		points = append(points, ProjectionPoint{
			Day:          d,
			Chapters:     chapters,
			Score:        score,
			Retention:    TimeRetention(record, days),
			Interference: InterferenceFactor(chapters),
			Urgency:      ClassifyUrgency(score),
		})
	}
	return points, nil
}

// TimelinePoint aggregates the decayed scores of several records on one day.
type TimelinePoint struct {
	Date         time.Time `json:"date"`
	AverageScore float64   `json:"average_score"`
	Tracked      int       `json:"tracked"`
	AtRisk       int       `json:"at_risk"`
}

// Timeline looks back over the last days days and reports, per day, the
// average time-decayed score of the records already practiced by then.
// Historical chapter counts are not recorded, so interference is not
// applied. Days with no tracked records are omitted.
func Timeline(records []MasteryRecord, now time.Time, days int) ([]TimelinePoint, error) {
	for _, r := range records {
		if err := Validate(r); err != nil {
			return nil, err
		}
	}
	if days < 0 {
		days = 0
	}

	var points []TimelinePoint
	for offset := -days; offset <= 0; offset++ {
		at := now.Add(time.Duration(offset) * day)
		var sum float64
		var tracked, atRisk int
		for _, r := range records {
			if r.LastPracticedAt.IsZero() || r.LastPracticedAt.After(at) {
				continue
			}
			score := scoreAt(r, DaysSinceLastUse(r, at), 0)
			sum += score
			tracked++
			if score < ThresholdLow {
				atRisk++
			}
		}
		if tracked == 0 {
			continue
		}
		points = append(points, TimelinePoint{
			Date:         at,
			AverageScore: sum / float64(tracked),
			Tracked:      tracked,
			AtRisk:       atRisk,
		})
	}
	return points, nil
}
