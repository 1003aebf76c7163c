package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"receivables_monitor/internal/model"

	"github.com/jackc/pgx/v5"
)

// RulesRepository stores versioned classification rule sets
type RulesRepository interface {
	Save(ctx context.Context, rs *model.RuleSet, after int) error
	Latest(ctx context.Context) (*model.RuleSet, error)
}

type rulesRepository struct {
	db DB
}

// NewRulesRepository creates a new RulesRepository
func NewRulesRepository(db DB) RulesRepository {
	return &rulesRepository{db: db}
}

// Save inserts a new rule set numbered one past the highest stored version,
// and never at or below after. The version is written back into both
// rs.Version and rs.Rules.Version.
func (r *rulesRepository) Save(ctx context.Context, rs *model.RuleSet, after int) error {
	body, err := json.Marshal(rs.Rules)
	if err != nil {
		return fmt.Errorf("failed to encode rule set: %w", err)
	}
	sql := `INSERT INTO rule_sets (version, body, created_by, created_at)
            SELECT GREATEST(COALESCE(MAX(version), 0), $1::int) + 1, $2::jsonb, $3::int, $4::timestamptz FROM rule_sets
            RETURNING version`
	if err := r.db.QueryRow(ctx, sql, after, body, rs.CreatedBy, rs.CreatedAt).Scan(&rs.Version); err != nil {
		return fmt.Errorf("failed to save rule set: %w", err)
	}
	rs.Rules.Version = rs.Version
	return nil
}

// Latest returns the highest version, or nil, nil when none is stored
func (r *rulesRepository) Latest(ctx context.Context) (*model.RuleSet, error) {
	var (
		rs   model.RuleSet
		body []byte
	)
	sql := `SELECT version, body, COALESCE(created_by, 0), created_at FROM rule_sets ORDER BY version DESC LIMIT 1`
	err := r.db.QueryRow(ctx, sql).Scan(&rs.Version, &body, &rs.CreatedBy, &rs.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load latest rule set: %w", err)
	}
	if err := json.Unmarshal(body, &rs.Rules); err != nil {
		return nil, fmt.Errorf("failed to decode rule set %d: %w", rs.Version, err)
	}
	rs.Rules.Version = rs.Version
	return &rs, nil
}
