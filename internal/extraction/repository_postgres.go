package extraction

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateJob(ctx context.Context, userID, imageURL, filename string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO menu_extractions (user_id, image_url, original_filename, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'UPLOADED', now(), now())
		RETURNING id
	`, userID, imageURL, filename).Scan(&id)
	return id, err
}

// ClaimPending claims the next UPLOADED job with FOR UPDATE SKIP LOCKED
// so concurrent workers never grab the same row.
func (r *PostgresRepository) ClaimPending(ctx context.Context) (*Job, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	job := &Job{}
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, image_url, COALESCE(original_filename, ''), status
		FROM menu_extractions
		WHERE status = 'UPLOADED'
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`).Scan(&job.ID, &job.UserID, &job.ImageURL, &job.Filename, &job.Status)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No pending jobs is NOT an error
			return nil, nil
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE menu_extractions
		SET status = 'PROCESSING', updated_at = now()
		WHERE id = $1
	`, job.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	job.Status = StatusProcessing
	return job, nil
}

func (r *PostgresRepository) MarkExtracted(ctx context.Context, id int, result *Result) error {
	doc, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		UPDATE menu_extractions
		SET status = 'EXTRACTED',
		    result = $1,
		    last_error = NULL,
		    updated_at = now()
		WHERE id = $2
	`, doc, id)
	return err
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id int, reason string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE menu_extractions
		SET status = 'FAILED',
		    last_error = $1,
		    updated_at = now()
		WHERE id = $2
	`, reason, id)
	return err
}

func (r *PostgresRepository) GetJob(ctx context.Context, id int) (*Job, error) {
	job := &Job{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, image_url, COALESCE(original_filename, ''), status, last_error
		FROM menu_extractions
		WHERE id = $1
	`, id).Scan(&job.ID, &job.UserID, &job.ImageURL, &job.Filename, &job.Status, &job.LastError)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("extraction job not found")
		}
		return nil, err
	}
	return job, nil
}

func (r *PostgresRepository) ResetForRetry(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE menu_extractions
		SET status = 'UPLOADED',
		    last_error = NULL,
		    updated_at = now()
		WHERE id = $1
	`, id)
	return err
}
