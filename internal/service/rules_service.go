package service

import (
	"context"
	"fmt"
	"time"

	"receivables_monitor/internal/config"
	"receivables_monitor/internal/model"
	"receivables_monitor/internal/repository"

	"github.com/rs/zerolog"
)

// RulesService resolves and updates the active classification rules
type RulesService interface {
	Active(ctx context.Context) (*model.RuleSet, error)
	Update(ctx context.Context, analystID int, rules model.ClassificationRules) (*model.RuleSet, error)
}

type rulesService struct {
	repo     repository.RulesRepository
	fallback model.ClassificationRules
	log      zerolog.Logger
	now      func() time.Time
}

// NewRulesService creates a RulesService. fallback applies until the first
// rule set is stored; stored versions always number above fallback.Version.
func NewRulesService(repo repository.RulesRepository, fallback model.ClassificationRules, log zerolog.Logger) RulesService {
	return &rulesService{repo: repo, fallback: fallback, log: log, now: time.Now}
}

func (s *rulesService) Active(ctx context.Context) (*model.RuleSet, error) {
	rs, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active rules: %w", err)
	}
	if rs == nil {
		return &model.RuleSet{Version: s.fallback.Version, Rules: s.fallback}, nil
	}
	return rs, nil
}

func (s *rulesService) Update(ctx context.Context, analystID int, rules model.ClassificationRules) (*model.RuleSet, error) {
	if err := config.ValidateRules(rules); err != nil {
		return nil, err
	}
	rs := &model.RuleSet{Rules: rules, CreatedBy: analystID, CreatedAt: s.now()}
	if err := s.repo.Save(ctx, rs, s.fallback.Version); err != nil {
		return nil, fmt.Errorf("failed to save rules: %w", err)
	}
	s.log.Info().Int("version", rs.Version).Int("analyst_id", analystID).Msg("classification rules updated")
	return rs, nil
}
