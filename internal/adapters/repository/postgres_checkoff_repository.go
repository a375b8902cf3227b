package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ritmohq/ritmo/internal/core/domain"
)

type PostgresCheckoffRepository struct {
	db *sqlx.DB
}

func NewPostgresCheckoffRepository(db *sqlx.DB) *PostgresCheckoffRepository {
	return &PostgresCheckoffRepository{db: db}
}

func (r *PostgresCheckoffRepository) Create(ctx context.Context, checkoff *domain.Checkoff) error {
	if checkoff.ID == "" {
		checkoff.ID = uuid.NewString()
	}

	query := `
		INSERT INTO checkoffs (
			id, habit_id, user_id,
			checked_at, created_at, deleted_at
		) VALUES (
			:id, :habit_id, :user_id,
			:checked_at, :created_at, :deleted_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, checkoff)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code == "23503" {
				return errors.New("referenced habit or user does not exist")
			}
			// Unique index on (habit_id, checked_at) where deleted_at is null.
			if pqErr.Code == "23505" {
				return domain.ErrDuplicateCheckoff
			}
		}
		return err
	}
	return nil
}

func (r *PostgresCheckoffRepository) GetByID(ctx context.Context, id string) (*domain.Checkoff, error) {
	var checkoff domain.Checkoff
	query := `SELECT * FROM checkoffs WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &checkoff, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCheckoffNotFound
		}
		return nil, err
	}
	return &checkoff, nil
}

func (r *PostgresCheckoffRepository) ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Checkoff, error) {
	checkoffs := []*domain.Checkoff{}

	// Ascending order is part of the contract; the analyzer relies on it.
	query := `
		SELECT * FROM checkoffs
		WHERE habit_id = $1
		  AND checked_at >= $2
		  AND checked_at <= $3
		  AND deleted_at IS NULL
		ORDER BY checked_at ASC`

	err := r.db.SelectContext(ctx, &checkoffs, query, habitID, from, to)
	if err != nil {
		return nil, err
	}
	return checkoffs, nil
}

func (r *PostgresCheckoffRepository) Delete(ctx context.Context, id string, userID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE checkoffs
		SET deleted_at = $1
		WHERE id = $2
		  AND user_id = $3
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCheckoffNotFound
	}

	return nil
}
