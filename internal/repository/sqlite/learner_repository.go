package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/recall/internal/logger"
	"github.com/vytor/recall/internal/models"
	"github.com/vytor/recall/internal/repository"
)

type learnerRepository struct {
	db     *sql.DB
	policy RetryPolicy
}

// NewLearnerRepository creates a new LearnerRepository implementation
func NewLearnerRepository(db *sql.DB, policy RetryPolicy) repository.LearnerRepository {
	return &learnerRepository{db: db, policy: policy}
}

const learnerColumns = `id, username, chapters_completed, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLearner(row rowScanner) (*models.Learner, error) {
	var l models.Learner
	if err := row.Scan(&l.ID, &l.Username, &l.ChaptersCompleted, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *learnerRepository) Get(ctx context.Context, id int64) (*models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("getting learner: id=%d", id)

	l, err := scanLearner(r.db.QueryRowContext(ctx, `SELECT `+learnerColumns+` FROM learners WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("learner not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get learner: %v", err)
		return nil, err
	}
	return l, nil
}

func (r *learnerRepository) GetByUsername(ctx context.Context, username string) (*models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("getting learner: username=%s", username)

	l, err := scanLearner(r.db.QueryRowContext(ctx, `SELECT `+learnerColumns+` FROM learners WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("learner not found: username=%s", username)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get learner: %v", err)
		return nil, err
	}
	return l, nil
}

func (r *learnerRepository) Upsert(ctx context.Context, username string) (*models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("upserting learner: username=%s", username)

	var l *models.Learner
	err := WithRetry(ctx, r.db, r.policy, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO learners (username) VALUES (?) ON CONFLICT(username) DO NOTHING`, username); err != nil {
			return err
		}
		var err error
		l, err = scanLearner(tx.QueryRowContext(ctx, `SELECT `+learnerColumns+` FROM learners WHERE username = ?`, username))
		return err
	})
	if err != nil {
		log.Error("failed to upsert learner: %v", err)
		return nil, err
	}
	log.Debug("learner upserted: id=%d", l.ID)
	return l, nil
}

func (r *learnerRepository) AddChapters(ctx context.Context, id int64, count int) (*models.Learner, error) {
	log := logger.FromContext(ctx).WithPrefix("learner_repo")
	log.Debug("adding chapters: learner_id=%d, count=%d", id, count)

	var l *models.Learner
	err := WithRetry(ctx, r.db, r.policy, func(tx *sql.Tx) error {
		l = nil
		res, err := tx.ExecContext(ctx, `UPDATE learners SET chapters_completed = chapters_completed + ? WHERE id = ?`, count, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return err
		}
		l, err = scanLearner(tx.QueryRowContext(ctx, `SELECT `+learnerColumns+` FROM learners WHERE id = ?`, id))
		return err
	})
	if err != nil {
		log.Error("failed to add chapters: %v", err)
		return nil, err
	}
	if l == nil {
		log.Debug("learner not found: id=%d", id)
		return nil, nil
	}
	log.Debug("learner %d now at %d chapters", l.ID, l.ChaptersCompleted)
	return l, nil
}
