package repository

import (
	"context"
	"errors"
	"fmt"

	"receivables_monitor/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateUsername is returned when the username is already taken
var ErrDuplicateUsername = errors.New("username already exists")

const uniqueViolation = "23505"

// AnalystRepository defines operations for analyst accounts
type AnalystRepository interface {
	Create(ctx context.Context, analyst *model.Analyst) error
	FindByUsername(ctx context.Context, username string) (*model.Analyst, error)
	FindByID(ctx context.Context, id int) (*model.Analyst, error)
}

type analystRepository struct {
	db DB
}

// NewAnalystRepository creates a new AnalystRepository
func NewAnalystRepository(db DB) AnalystRepository {
	return &analystRepository{db: db}
}

// Create inserts a new analyst
func (r *analystRepository) Create(ctx context.Context, a *model.Analyst) error {
	sql := `INSERT INTO analysts (username, password_hash, role, created_at)
            VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, sql, a.Username, a.PasswordHash, a.Role, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create analyst: %w", err)
	}
	return nil
}

// FindByUsername returns nil, nil when no analyst matches
func (r *analystRepository) FindByUsername(ctx context.Context, username string) (*model.Analyst, error) {
	a := &model.Analyst{}
	sql := `SELECT id, username, password_hash, role, created_at FROM analysts WHERE username = $1`
	err := r.db.QueryRow(ctx, sql, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find analyst by username: %w", err)
	}
	return a, nil
}

// FindByID returns nil, nil when no analyst matches
func (r *analystRepository) FindByID(ctx context.Context, id int) (*model.Analyst, error) {
	a := &model.Analyst{}
	sql := `SELECT id, username, password_hash, role, created_at FROM analysts WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find analyst by ID: %w", err)
	}
	return a, nil
}
