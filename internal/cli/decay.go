package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/recall/internal/decay"
)

var decayFlags struct {
	score     float64
	stability float64
	days      float64
	chapters  int
	pace      float64
	asJSON    bool
}

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Evaluate the decay model for one item without a database",
	Example: `  recall decay --score 80 --stability 1 --days 9
  recall decay --score 100 --stability 2 --chapters 10 --json`,
	RunE: runDecay,
}

func init() {
	f := decayCmd.Flags()
	f.Float64Var(&decayFlags.score, "score", 0, "proficiency score at last practice (0-100)")
	f.Float64Var(&decayFlags.stability, "stability", 1, "stability multiplier (> 0)")
	f.Float64Var(&decayFlags.days, "days", 0, "days since last practice")
	f.IntVar(&decayFlags.chapters, "chapters", 0, "chapters completed since last practice")
	f.Float64Var(&decayFlags.pace, "pace", decay.DefaultChapterPace, "days per chapter assumed for breach prediction")
	f.BoolVar(&decayFlags.asJSON, "json", false, "print JSON")
	_ = decayCmd.MarkFlagRequired("score")
}

type decayReport struct {
	decay.ReviewTiming
	Retention    float64 `json:"retention"`
	Interference float64 `json:"interference"`
	BreachDays   *int    `json:"breach_days,omitempty"`
}

func runDecay(cmd *cobra.Command, args []string) error {
	if decayFlags.days < 0 {
		return fmt.Errorf("--days cannot be negative")
	}
	if decayFlags.chapters < 0 {
		return fmt.Errorf("--chapters cannot be negative")
	}

	now := time.Now()
	record := decay.MasteryRecord{
		ProficiencyScore: decayFlags.score,
		Stability:        decayFlags.stability,
		LastPracticedAt:  now.Add(-time.Duration(decayFlags.days * float64(24*time.Hour))),
	}
	engine := decay.New(
		decay.WithClock(func() time.Time { return now }),
		decay.WithChapterPace(decayFlags.pace),
	)

	timing, err := engine.SuggestReviewTiming(record, decayFlags.chapters)
	if err != nil {
		return err
	}
	report := decayReport{
		ReviewTiming: timing,
		Retention:    decay.TimeRetention(record, decayFlags.days),
		Interference: decay.InterferenceFactor(decayFlags.chapters),
	}
	if d, ok, err := engine.PredictThresholdBreach(record, decayFlags.chapters, decay.ThresholdLow); err == nil && ok {
		report.BreachDays = &d
	}

	out := cmd.OutOrStdout()
	if decayFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "decayed score: %.2f\n", report.DecayedScore)
	fmt.Fprintf(out, "urgency:       %s\n", report.Urgency)
	fmt.Fprintf(out, "retention:     %.4f\n", report.Retention)
	fmt.Fprintf(out, "interference:  %.4f\n", report.Interference)
	fmt.Fprintf(out, "next review:   %d day(s) (%s)\n", report.Days, report.Reason)
	if report.BreachDays != nil {
		fmt.Fprintf(out, "drops below %.0f in %d day(s)\n", decay.ThresholdLow, *report.BreachDays)
	}
	return nil
}
