package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vytor/recall/internal/config"
	"github.com/vytor/recall/internal/db"
	"github.com/vytor/recall/internal/decay"
	"github.com/vytor/recall/internal/errors"
	"github.com/vytor/recall/internal/repository/sqlite"
	"github.com/vytor/recall/internal/services"
)

var reviewsFlags struct {
	learner  int64
	username string
	urgency  string
	limit    int
	dbPath   string
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Print a learner's ranked review queue",
	Example: `  recall reviews --learner 1
  recall reviews --username ana --urgency CRITICAL`,
	RunE: runReviews,
}

func init() {
	f := reviewsCmd.Flags()
	f.Int64Var(&reviewsFlags.learner, "learner", 0, "learner id")
	f.StringVar(&reviewsFlags.username, "username", "", "learner username (alternative to --learner)")
	f.StringVar(&reviewsFlags.urgency, "urgency", "", "only show LOW, MEDIUM, HIGH or CRITICAL items")
	f.IntVar(&reviewsFlags.limit, "limit", 0, "maximum number of items (default REVIEW_LIMIT)")
	f.StringVar(&reviewsFlags.dbPath, "db", "", "database path (default DB_PATH)")
	reviewsCmd.MarkFlagsMutuallyExclusive("learner", "username")
	reviewsCmd.MarkFlagsOneRequired("learner", "username")
}

func runReviews(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if reviewsFlags.dbPath != "" {
		cfg.DBPath = reviewsFlags.dbPath
	}
	setupLogger(cfg)

	var urgency decay.Urgency
	if reviewsFlags.urgency != "" {
		u, err := decay.ParseUrgency(reviewsFlags.urgency)
		if err != nil {
			return err
		}
		urgency = u
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	ctx := cmd.Context()
	policy := retryPolicy(cfg)
	learnerRepo := sqlite.NewLearnerRepository(database.DB, policy)
	masteryRepo := sqlite.NewMasteryRepository(database.DB, policy)
	snapshotRepo := sqlite.NewReviewSnapshotRepository(database.DB, policy)
	engine := decay.New(decay.WithChapterPace(cfg.ChapterPaceDays))

	learnerID := reviewsFlags.learner
	if reviewsFlags.username != "" {
		learner, err := learnerRepo.GetByUsername(ctx, reviewsFlags.username)
		if err != nil {
			return err
		}
		if learner == nil {
			return errors.NewNotFoundError("learner", reviewsFlags.username)
		}
		learnerID = learner.ID
	}

	svc := services.NewReviewService(masteryRepo, learnerRepo, snapshotRepo, engine, cfg.ReviewLimit)
	queue, err := svc.ReviewQueue(ctx, learnerID, urgency, reviewsFlags.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(queue) == 0 {
		fmt.Fprintln(out, "nothing to review")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSKILL\tSCORE\tURGENCY\tDAYS\tREASON")
	for _, r := range queue {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\t%d\t%s\n", r.Mastery.ID, r.Mastery.Skill, r.DecayedScore, r.Urgency, r.Days, r.Reason)
	}
	return tw.Flush()
}
