package decay_test

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recall/internal/decay"
)

func TestClassifyUrgency_Boundaries(t *testing.T) {
	tests := []struct {
		score    float64
		expected decay.Urgency
	}{
		{100, decay.UrgencyLow},
		{80, decay.UrgencyLow},
		{79.999, decay.UrgencyMedium},
		{50, decay.UrgencyMedium},
		{49.999, decay.UrgencyHigh},
		{25, decay.UrgencyHigh},
		{24.999, decay.UrgencyCritical},
		{0, decay.UrgencyCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, decay.ClassifyUrgency(tt.score), "score %v", tt.score)
	}
}

func TestClassifyUrgency_PartitionsRange(t *testing.T) {
	seen := map[decay.Urgency]int{}
	for i := 0; i <= 10000; i++ {
		u := decay.ClassifyUrgency(float64(i) / 100)
		require.GreaterOrEqual(t, u.Severity(), 0, "unclassified score %v", float64(i)/100)
		seen[u]++
	}
	assert.Len(t, seen, 4)
}

func TestUrgencyThresholds(t *testing.T) {
	assert.Equal(t, [3]float64{80, 50, 25}, decay.UrgencyThresholds)
}

func TestParseUrgency(t *testing.T) {
	u, err := decay.ParseUrgency("HIGH")
	require.NoError(t, err)
	assert.Equal(t, decay.UrgencyHigh, u)

	_, err = decay.ParseUrgency("urgent")
	assert.Error(t, err)
}

func TestLess_OrdersByUrgencyThenScore(t *testing.T) {
	timings := []decay.ReviewTiming{
		{DecayedScore: 90, Urgency: decay.UrgencyLow},
		{DecayedScore: 10, Urgency: decay.UrgencyCritical},
		{DecayedScore: 60, Urgency: decay.UrgencyMedium},
		{DecayedScore: 20, Urgency: decay.UrgencyCritical},
		{DecayedScore: 30, Urgency: decay.UrgencyHigh},
	}

	sort.SliceStable(timings, func(i, j int) bool { return decay.Less(timings[i], timings[j]) })

	scores := make([]float64, len(timings))
	for i, tm := range timings {
		scores[i] = tm.DecayedScore
	}
	assert.Equal(t, []float64{10, 20, 30, 60, 90}, scores)
}

func TestSuggestReviewTiming_Days(t *testing.T) {
	tests := []struct {
		name     string
		rec      decay.MasteryRecord
		now      time.Time
		urgency  decay.Urgency
		days     int
		chapters int
	}{
		{
			name:    "maintenance review shortened by projected breach",
			rec:     record(100, 7, 0),
			now:     practicedAt,
			urgency: decay.UrgencyLow,
			days:    4,
		},
		{
			name:    "preventive review before dropping below 50",
			rec:     record(55, 7, 0),
			now:     practicedAt,
			urgency: decay.UrgencyMedium,
			days:    1,
		},
		{
			name:     "high urgency reviews now",
			rec:      record(100, 7, 0),
			now:      daysLater(7),
			chapters: 10,
			urgency:  decay.UrgencyHigh,
			days:     0,
		},
		{
			name:    "critical relearns now",
			rec:     record(30, 7, 0),
			now:     daysLater(14),
			urgency: decay.UrgencyCritical,
			days:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timing, err := decay.SuggestReviewTiming(tt.rec, tt.now, tt.chapters)

			require.NoError(t, err)
			assert.Equal(t, tt.urgency, timing.Urgency)
			assert.Equal(t, tt.days, timing.Days)
			assert.NotEmpty(t, timing.Reason)
		})
	}
}

func TestPredictThresholdBreach(t *testing.T) {
	t.Run("already below", func(t *testing.T) {
		days, ok, err := decay.PredictThresholdBreach(record(30, 7, 0), practicedAt, 0, 70, decay.DefaultChapterPace)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0, days)
	})

	t.Run("time only", func(t *testing.T) {
		days, ok, err := decay.PredictThresholdBreach(record(100, 7, 0), practicedAt, 0, 80, 0)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 16, days)
	})

	t.Run("chapters accelerate the breach", func(t *testing.T) {
		days, ok, err := decay.PredictThresholdBreach(record(100, 7, 0), practicedAt, 0, 80, decay.DefaultChapterPace)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 6, days)
	})

	t.Run("durable item never breaches within horizon", func(t *testing.T) {
		_, ok, err := decay.PredictThresholdBreach(record(100, 365, 0), practicedAt, 0, 50, 0)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalid record", func(t *testing.T) {
		_, _, err := decay.PredictThresholdBreach(record(100, 0, 0), practicedAt, 0, 50, 0)
		assert.ErrorIs(t, err, decay.ErrInvalidRecord)
	})
}

func TestProject(t *testing.T) {
	points, err := decay.Project(record(100, 7, 0), practicedAt, 0, 30, decay.DefaultChapterPace)
	require.NoError(t, err)
	require.Len(t, points, 31)

	assert.Equal(t, 0, points[0].Day)
	assert.Equal(t, 100.0, points[0].Score)
	assert.Equal(t, decay.UrgencyLow, points[0].Urgency)
	assert.Equal(t, 1, points[3].Chapters)
	assert.InDelta(t, 1/1.3, points[10].Interference, 1e-9)
	assert.InDelta(t, 1/(1+10.0/63), points[10].Retention, 1e-9)

	for i := 1; i < len(points); i++ {
		assert.LessOrEqual(t, points[i].Score, points[i-1].Score)
	}
}

func TestProject_NegativeDaysYieldsToday(t *testing.T) {
	points, err := decay.Project(record(64, 3, 0), practicedAt, 0, -5, 0)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 64.0, points[0].Score)
}

func TestTimeline(t *testing.T) {
	early := record(100, 7, 0)
	late := record(60, 7, 0)
	late.LastPracticedAt = daysLater(5)

	points, err := decay.Timeline([]decay.MasteryRecord{early, late}, daysLater(10), 10)
	require.NoError(t, err)
	require.Len(t, points, 11)

	first := points[0]
	assert.Equal(t, 1, first.Tracked)
	assert.Equal(t, 100.0, first.AverageScore)
	assert.Equal(t, 0, first.AtRisk)

	last := points[len(points)-1]
	assert.Equal(t, 2, last.Tracked)
	assert.Equal(t, 1, last.AtRisk)
	expected := (100/(1+10.0/63) + 60/(1+5.0/63)) / 2
	assert.InDelta(t, expected, last.AverageScore, 1e-9)
}

func TestTimeline_SkipsDaysWithoutRecords(t *testing.T) {
	rec := record(90, 7, 0)

	points, err := decay.Timeline([]decay.MasteryRecord{rec}, daysLater(2), 30)
	require.NoError(t, err)
	assert.Len(t, points, 3)
}

func TestEngine_UsesClock(t *testing.T) {
	engine := decay.New(decay.WithClock(func() time.Time { return daysLater(7) }))

	score, err := engine.ComputeDecayedScore(record(100, 7, 0), 0)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, score, 1e-9)

	timing, err := engine.SuggestReviewTiming(record(100, 7, 0), 10)
	require.NoError(t, err)
	assert.Equal(t, decay.UrgencyHigh, timing.Urgency)
	assert.InDelta(t, 45.0, timing.DecayedScore, 1e-9)
}

func TestEngine_ChapterPace(t *testing.T) {
	clock := func() time.Time { return practicedAt }

	withPace := decay.New(decay.WithClock(clock))
	timing, err := withPace.SuggestReviewTiming(record(100, 7, 0), 0)
	require.NoError(t, err)
	assert.Equal(t, 4, timing.Days)

	timeOnly := decay.New(decay.WithClock(clock), decay.WithChapterPace(0))
	timing, err = timeOnly.SuggestReviewTiming(record(100, 7, 0), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, timing.Days, "breach on day 16 caps at a weekly review")
}
