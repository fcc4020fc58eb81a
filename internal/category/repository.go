package category

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists categories. Every lookup is scoped by owner.
type Repository interface {
	Create(ctx context.Context, c Category) error
	ListByUser(ctx context.Context, userID string) ([]Category, error)
	FindByName(ctx context.Context, userID, name string) (Category, error)
	Delete(ctx context.Context, id, userID string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed category repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a category record.
func (r *PostgresRepository) Create(ctx context.Context, c Category) error {
	catID, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(c.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO categories (id, user_id, name, color, created_at)
        VALUES ($1, $2, $3, $4, $5)`, catID, ownerID, c.Name, c.Color, c.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateName
	}
	return err
}

// ListByUser returns the user's categories ordered by name.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Category, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, name, color, created_at FROM categories
        WHERE user_id = $1 ORDER BY name ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// FindByName fetches a category by its case-insensitive name.
func (r *PostgresRepository) FindByName(ctx context.Context, userID, name string) (Category, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return Category{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, name, color, created_at FROM categories
        WHERE user_id = $1 AND lower(name) = lower($2)`, ownerID, name)
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}

// Delete removes a category owned by the user.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	catID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, catID, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (Category, error) {
	var (
		id, ownerID uuid.UUID
		createdAt   time.Time
		c           Category
	)
	if err := row.Scan(&id, &ownerID, &c.Name, &c.Color, &createdAt); err != nil {
		return Category{}, err
	}
	c.ID = id.String()
	c.UserID = ownerID.String()
	c.CreatedAt = createdAt.UTC()
	return c, nil
}
