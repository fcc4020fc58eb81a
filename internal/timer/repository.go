package timer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists timers. Every lookup is scoped by owner.
type Repository interface {
	Create(ctx context.Context, t Timer) error
	ListByUser(ctx context.Context, userID string) ([]Timer, error)
	FindByUser(ctx context.Context, id, userID string) (Timer, error)
	Update(ctx context.Context, t Timer) error
	Delete(ctx context.Context, id, userID string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed timer repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const timerColumns = `id, user_id, project_name, description, category_id, status, time_seconds, started_at, created_at, updated_at`

// Create inserts a timer record.
func (r *PostgresRepository) Create(ctx context.Context, t Timer) error {
	timerID, err := uuid.Parse(t.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(t.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO timers (`+timerColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		timerID, ownerID, t.ProjectName, t.Description, t.CategoryID, t.Status,
		t.Time, t.StartedAt.UTC(), t.CreatedAt.UTC(), t.UpdatedAt.UTC())
	return err
}

// ListByUser returns the user's timers, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Timer, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT `+timerColumns+` FROM timers
        WHERE user_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timers []Timer
	for rows.Next() {
		t, err := scanTimer(rows)
		if err != nil {
			return nil, err
		}
		timers = append(timers, t)
	}
	return timers, rows.Err()
}

// FindByUser fetches one timer owned by the user.
func (r *PostgresRepository) FindByUser(ctx context.Context, id, userID string) (Timer, error) {
	timerID, err := uuid.Parse(id)
	if err != nil {
		return Timer{}, ErrNotFound
	}
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return Timer{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+timerColumns+` FROM timers
        WHERE id = $1 AND user_id = $2`, timerID, ownerID)
	t, err := scanTimer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Timer{}, ErrNotFound
	}
	return t, err
}

// Update persists a full timer record, still scoped by owner.
func (r *PostgresRepository) Update(ctx context.Context, t Timer) error {
	timerID, err := uuid.Parse(t.ID)
	if err != nil {
		return ErrNotFound
	}
	ownerID, err := uuid.Parse(t.UserID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE timers
        SET project_name = $1, description = $2, category_id = $3, status = $4,
            time_seconds = $5, started_at = $6, updated_at = $7
        WHERE id = $8 AND user_id = $9`,
		t.ProjectName, t.Description, t.CategoryID, t.Status, t.Time,
		t.StartedAt.UTC(), t.UpdatedAt.UTC(), timerID, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a timer owned by the user.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	timerID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM timers WHERE id = $1 AND user_id = $2`, timerID, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTimer(row pgx.Row) (Timer, error) {
	var (
		id, ownerID                     uuid.UUID
		startedAt, createdAt, updatedAt time.Time
		t                               Timer
	)
	if err := row.Scan(&id, &ownerID, &t.ProjectName, &t.Description, &t.CategoryID,
		&t.Status, &t.Time, &startedAt, &createdAt, &updatedAt); err != nil {
		return Timer{}, err
	}
	t.ID = id.String()
	t.UserID = ownerID.String()
	t.StartedAt = startedAt.UTC()
	t.CreatedAt = createdAt.UTC()
	t.UpdatedAt = updatedAt.UTC()
	return t, nil
}
