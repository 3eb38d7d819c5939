package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/recall/internal/decay"
	"github.com/vytor/recall/internal/logger"
	"github.com/vytor/recall/internal/models"
	"github.com/vytor/recall/internal/repository"
)

type reviewSnapshotRepository struct {
	db     *sql.DB
	policy RetryPolicy
}

// NewReviewSnapshotRepository creates a new ReviewSnapshotRepository implementation
func NewReviewSnapshotRepository(db *sql.DB, policy RetryPolicy) repository.ReviewSnapshotRepository {
	return &reviewSnapshotRepository{db: db, policy: policy}
}

// ReplaceForLearner swaps the learner's snapshot set atomically.
func (r *reviewSnapshotRepository) ReplaceForLearner(ctx context.Context, learnerID int64, snapshots []models.ReviewSnapshot) error {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")
	log.Debug("replacing %d snapshots for learner_id=%d", len(snapshots), learnerID)

	err := WithRetry(ctx, r.db, r.policy, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM review_snapshots WHERE learner_id = ?`, learnerID); err != nil {
			return err
		}
		if len(snapshots) == 0 {
			return nil
		}

		insert := sqlBuilder.Insert("review_snapshots").
			Columns("mastery_id", "learner_id", "decayed_score", "urgency", "computed_at")
		for _, s := range snapshots {
			insert = insert.Values(s.MasteryID, learnerID, s.DecayedScore, string(s.Urgency), s.ComputedAt)
		}
		sqlStr, args, err := insert.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, sqlStr, args...)
		return err
	})
	if err != nil {
		log.Error("failed to replace snapshots: %v", err)
		return err
	}
	return nil
}

// ListForLearner returns snapshots lowest score first. An empty urgency
// matches all.
func (r *reviewSnapshotRepository) ListForLearner(ctx context.Context, learnerID int64, urgency decay.Urgency) ([]models.ReviewSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")
	log.Debug("listing snapshots: learner_id=%d, urgency=%s", learnerID, urgency)

	query := sqlBuilder.
		Select("mastery_id", "learner_id", "decayed_score", "urgency", "computed_at").
		From("review_snapshots").
		Where(squirrel.Eq{"learner_id": learnerID})
	if urgency != "" {
		query = query.Where(squirrel.Eq{"urgency": string(urgency)})
	}
	query = query.OrderBy("decayed_score ASC", "mastery_id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list snapshots: %v", err)
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.ReviewSnapshot
	for rows.Next() {
		var s models.ReviewSnapshot
		var u string
		if err := rows.Scan(&s.MasteryID, &s.LearnerID, &s.DecayedScore, &u, &s.ComputedAt); err != nil {
			log.Error("failed to scan snapshot row: %v", err)
			return nil, err
		}
		s.Urgency = decay.Urgency(u)
		snapshots = append(snapshots, s)
	}
	log.Debug("found %d snapshots", len(snapshots))
	return snapshots, rows.Err()
}
