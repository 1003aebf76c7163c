package service

import (
	"context"
	"errors"
	"testing"

	"receivables_monitor/internal/config"
	"receivables_monitor/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRulesService_ActiveFallsBackWhenNoneStored(t *testing.T) {
	repo := new(mockRulesRepo)
	repo.On("Latest", mock.Anything).Return(nil, nil)
	s := NewRulesService(repo, config.DefaultRules(), zerolog.Nop())

	rs, err := s.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultRules(), rs.Rules)
	assert.Equal(t, 1, rs.Version)
}

func TestRulesService_ActiveError(t *testing.T) {
	repo := new(mockRulesRepo)
	repo.On("Latest", mock.Anything).Return(nil, errors.New("timeout"))
	s := NewRulesService(repo, config.DefaultRules(), zerolog.Nop())

	_, err := s.Active(context.Background())
	assert.Error(t, err)
}

func TestRulesService_Update(t *testing.T) {
	repo := new(mockRulesRepo)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(rs *model.RuleSet) bool {
		return rs.CreatedBy == 9 && len(rs.Rules.NameKeywords) == 1
	}), 1).Return(nil)
	s := NewRulesService(repo, config.DefaultRules(), zerolog.Nop())

	rs, err := s.Update(context.Background(), 9, model.ClassificationRules{NameKeywords: []string{"عميل"}})
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Version)
	repo.AssertExpectations(t)
}

func TestRulesService_StoredVersionsNumberAboveFileRules(t *testing.T) {
	fileRules := config.DefaultRules()
	fileRules.Version = 7
	repo := new(mockRulesRepo)
	repo.On("Save", mock.Anything, mock.Anything, 7).Return(nil)
	s := NewRulesService(repo, fileRules, zerolog.Nop())

	rs, err := s.Update(context.Background(), 9, model.ClassificationRules{NameKeywords: []string{"عميل"}})
	require.NoError(t, err)
	assert.Equal(t, 8, rs.Version)
	assert.NotEqual(t, fileRules.Version, rs.Rules.Version)
	repo.AssertExpectations(t)
}

func TestRulesService_UpdateRejectsEmptyRules(t *testing.T) {
	repo := new(mockRulesRepo)
	s := NewRulesService(repo, config.DefaultRules(), zerolog.Nop())

	_, err := s.Update(context.Background(), 9, model.ClassificationRules{Exclusions: []string{"bank"}})
	assert.ErrorIs(t, err, config.ErrInvalidRules)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}
