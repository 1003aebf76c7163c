package service

import (
	"context"

	"receivables_monitor/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) CreateSnapshot(ctx context.Context, s *model.LedgerSnapshot, txns []model.Transaction) error {
	return m.Called(ctx, s, txns).Error(0)
}

func (m *mockLedgerRepo) GetSnapshot(ctx context.Context, id string) (*model.LedgerSnapshot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.LedgerSnapshot)
	return s, args.Error(1)
}

func (m *mockLedgerRepo) ListSnapshots(ctx context.Context, limit int) ([]model.LedgerSnapshot, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).([]model.LedgerSnapshot)
	return list, args.Error(1)
}

func (m *mockLedgerRepo) LoadTransactions(ctx context.Context, id string) ([]model.Transaction, error) {
	args := m.Called(ctx, id)
	txns, _ := args.Get(0).([]model.Transaction)
	return txns, args.Error(1)
}

func (m *mockLedgerRepo) DeleteSnapshot(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockRulesRepo struct {
	mock.Mock
}

func (m *mockRulesRepo) Save(ctx context.Context, rs *model.RuleSet, after int) error {
	args := m.Called(ctx, rs, after)
	if args.Error(0) == nil {
		rs.Version = after + 1
		rs.Rules.Version = after + 1
	}
	return args.Error(0)
}

func (m *mockRulesRepo) Latest(ctx context.Context) (*model.RuleSet, error) {
	args := m.Called(ctx)
	rs, _ := args.Get(0).(*model.RuleSet)
	return rs, args.Error(1)
}

type mockAnalystRepo struct {
	mock.Mock
}

func (m *mockAnalystRepo) Create(ctx context.Context, a *model.Analyst) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = 1
	}
	return args.Error(0)
}

func (m *mockAnalystRepo) FindByUsername(ctx context.Context, username string) (*model.Analyst, error) {
	args := m.Called(ctx, username)
	a, _ := args.Get(0).(*model.Analyst)
	return a, args.Error(1)
}

func (m *mockAnalystRepo) FindByID(ctx context.Context, id int) (*model.Analyst, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Analyst)
	return a, args.Error(1)
}
