package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/recall/internal/logger"
	"github.com/vytor/recall/internal/models"
	"github.com/vytor/recall/internal/repository"
)

type masteryRepository struct {
	db     *sql.DB
	policy RetryPolicy
}

// NewMasteryRepository creates a new MasteryRepository implementation
func NewMasteryRepository(db *sql.DB, policy RetryPolicy) repository.MasteryRepository {
	return &masteryRepository{db: db, policy: policy}
}

var masteryColumns = []string{
	"id", "learner_id", "skill", "proficiency_score", "stability", "last_practiced_at",
	"chapters_completed_at_mastery", "total_attempts", "successful_attempts", "created_at", "updated_at",
}

const masteryColumnList = `id, learner_id, skill, proficiency_score, stability, last_practiced_at,
       chapters_completed_at_mastery, total_attempts, successful_attempts, created_at, updated_at`

func scanMastery(row rowScanner) (*models.Mastery, error) {
	var m models.Mastery
	var lastPracticed sql.NullTime
	if err := row.Scan(&m.ID, &m.LearnerID, &m.Skill, &m.ProficiencyScore, &m.Stability, &lastPracticed,
		&m.ChaptersCompletedAtMastery, &m.TotalAttempts, &m.SuccessfulAttempts, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if lastPracticed.Valid {
		m.LastPracticedAt = lastPracticed.Time
	}
	return &m, nil
}

func (r *masteryRepository) Get(ctx context.Context, id int64) (*models.Mastery, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("getting mastery: id=%d", id)

	m, err := scanMastery(r.db.QueryRowContext(ctx, `SELECT `+masteryColumnList+` FROM masteries WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("mastery not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get mastery: %v", err)
		return nil, err
	}
	return m, nil
}

func (r *masteryRepository) List(ctx context.Context, filter models.MasteryFilter) ([]models.Mastery, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("listing masteries with filter: learner_id=%d, skill=%s", filter.LearnerID, filter.Skill)

	query := sqlBuilder.Select(masteryColumns...).From("masteries")
	if filter.LearnerID != 0 {
		query = query.Where(squirrel.Eq{"learner_id": filter.LearnerID})
	}
	if filter.Skill != "" {
		query = query.Where(squirrel.Eq{"skill": filter.Skill})
	}
	if filter.MinScore != nil {
		query = query.Where(squirrel.GtOrEq{"proficiency_score": *filter.MinScore})
	}
	if filter.MaxScore != nil {
		query = query.Where(squirrel.LtOrEq{"proficiency_score": *filter.MaxScore})
	}
	query = query.OrderBy("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list masteries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var masteries []models.Mastery
	for rows.Next() {
		m, err := scanMastery(rows)
		if err != nil {
			log.Error("failed to scan mastery row: %v", err)
			return nil, err
		}
		masteries = append(masteries, *m)
	}
	log.Debug("found %d masteries", len(masteries))
	return masteries, rows.Err()
}

// FindOrCreate inserts the mastery unless (learner_id, skill) already
// exists, and returns the stored row. The bool reports whether it was
// created.
func (r *masteryRepository) FindOrCreate(ctx context.Context, m models.Mastery) (*models.Mastery, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("find or create mastery: learner_id=%d, skill=%s", m.LearnerID, m.Skill)

	var stored *models.Mastery
	var created bool
	err := WithRetry(ctx, r.db, r.policy, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO masteries (learner_id, skill, proficiency_score, stability, last_practiced_at, chapters_completed_at_mastery)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(learner_id, skill) DO NOTHING
`, m.LearnerID, m.Skill, m.ProficiencyScore, m.Stability, nullTime(m.LastPracticedAt), m.ChaptersCompletedAtMastery)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		created = n == 1

		stored, err = scanMastery(tx.QueryRowContext(ctx,
			`SELECT `+masteryColumnList+` FROM masteries WHERE learner_id = ? AND skill = ?`, m.LearnerID, m.Skill))
		return err
	})
	if err != nil {
		log.Error("failed to find or create mastery: %v", err)
		return nil, false, err
	}
	log.Debug("mastery ready: id=%d, created=%t", stored.ID, created)
	return stored, created, nil
}

// ApplyPractice overwrites the decay inputs of a mastery, snapshots the
// learner's chapter counter and appends the event to practice_events, all
// in one transaction retried on contention.
func (r *masteryRepository) ApplyPractice(ctx context.Context, e models.PracticeEvent) (*models.Mastery, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("applying practice: mastery_id=%d, score=%.1f, stability=%.2f", e.MasteryID, e.Score, e.Stability)

	success := 0
	if e.Success {
		success = 1
	}

	var updated *models.Mastery
	err := WithRetry(ctx, r.db, r.policy, func(tx *sql.Tx) error {
		updated = nil

		var chapters int
		err := tx.QueryRowContext(ctx, `
SELECT l.chapters_completed
FROM masteries m
JOIN learners l ON l.id = m.learner_id
WHERE m.id = ?
`, e.MasteryID).Scan(&chapters)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
UPDATE masteries
SET proficiency_score = ?,
    stability = ?,
    last_practiced_at = ?,
    chapters_completed_at_mastery = ?,
    total_attempts = total_attempts + 1,
    successful_attempts = successful_attempts + ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, e.Score, e.Stability, e.PracticedAt, chapters, success, e.MasteryID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
INSERT INTO practice_events (mastery_id, score, stability, success, chapters_completed, practiced_at)
VALUES (?, ?, ?, ?, ?, ?)
`, e.MasteryID, e.Score, e.Stability, success, chapters, e.PracticedAt)
		if err != nil {
			return err
		}

		updated, err = scanMastery(tx.QueryRowContext(ctx, `SELECT `+masteryColumnList+` FROM masteries WHERE id = ?`, e.MasteryID))
		return err
	})
	if err != nil {
		log.Error("failed to apply practice: %v", err)
		return nil, err
	}
	if updated == nil {
		log.Debug("mastery not found: id=%d", e.MasteryID)
		return nil, nil
	}
	log.Debug("practice applied: mastery_id=%d, chapters_snapshot=%d", updated.ID, updated.ChaptersCompletedAtMastery)
	return updated, nil
}
