package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"receivables_monitor/internal/ingest"
	"receivables_monitor/internal/model"
	"receivables_monitor/internal/receivables"
	"receivables_monitor/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrSnapshotNotFound  = repository.ErrSnapshotNotFound
	ErrForbidden         = errors.New("forbidden: analyst does not have permission for this action")
	ErrInvalidFileFormat = errors.New("invalid file format. only .xml and .csv ledgers are allowed")
	ErrFileSizeExceeded  = errors.New("file size exceeds limit")
	ErrMalformedLedger   = errors.New("ledger file could not be read")
)

const MaxLedgerSize = 20 * 1024 * 1024 // 20MB

// ReportConfig carries the analysis settings shared by every report.
type ReportConfig struct {
	WeekEnd  time.Weekday
	Epsilon  decimal.Decimal
	Workers  int
	Target   *model.ReconciliationTarget
	Location *time.Location
}

// ReportService imports ledger snapshots and produces aging reports from them
type ReportService interface {
	ImportLedger(ctx context.Context, analystID int, filename string, size int64, r io.Reader) (*model.LedgerSnapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]model.LedgerSnapshot, error)
	DeleteSnapshot(ctx context.Context, id string, analystID int, role string) error
	GetReport(ctx context.Context, snapshotID string, asOf time.Time) (*model.Report, error)
	Reconcile(ctx context.Context, snapshotID string, asOf time.Time, target model.ReconciliationTarget) (*model.Report, error)
	ExportDebtorsCSV(ctx context.Context, snapshotID string, asOf time.Time) (*bytes.Buffer, error)
}

type reportService struct {
	repo  repository.LedgerRepository
	rules RulesService
	cfg   ReportConfig
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// NewReportService creates a new ReportService
func NewReportService(repo repository.LedgerRepository, rules RulesService, cfg ReportConfig, log zerolog.Logger) ReportService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &reportService{
		repo:  repo,
		rules: rules,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *reportService) ImportLedger(ctx context.Context, analystID int, filename string, size int64, r io.Reader) (*model.LedgerSnapshot, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xml", ".csv":
	default:
		return nil, ErrInvalidFileFormat
	}
	if size > MaxLedgerSize {
		return nil, ErrFileSizeExceeded
	}

	res, err := ingest.Read(filename, io.LimitReader(r, MaxLedgerSize), ingest.Options{Location: s.cfg.Location})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLedger, err)
	}

	snapshot := &model.LedgerSnapshot{
		ID:             s.newID(),
		Filename:       filepath.Base(filename),
		UploadedBy:     analystID,
		Rows:           res.Rows,
		CoercedAmounts: res.CoercedAmounts,
		UndatedRows:    res.UndatedRows,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateSnapshot(ctx, snapshot, res.Transactions); err != nil {
		return nil, fmt.Errorf("failed to store ledger snapshot: %w", err)
	}

	s.log.Info().
		Str("snapshot_id", snapshot.ID).
		Str("filename", snapshot.Filename).
		Int("rows", snapshot.Rows).
		Int("coerced_amounts", snapshot.CoercedAmounts).
		Int("undated_rows", snapshot.UndatedRows).
		Msg("ledger snapshot imported")
	return snapshot, nil
}

func (s *reportService) ListSnapshots(ctx context.Context, limit int) ([]model.LedgerSnapshot, error) {
	snapshots, err := s.repo.ListSnapshots(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger snapshots: %w", err)
	}
	return snapshots, nil
}

// DeleteSnapshot lets admins remove any snapshot and viewers only their own
func (s *reportService) DeleteSnapshot(ctx context.Context, id string, analystID int, role string) error {
	snapshot, err := s.repo.GetSnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			return ErrSnapshotNotFound
		}
		return fmt.Errorf("failed to find ledger snapshot for deletion: %w", err)
	}
	if role != model.RoleAdmin && snapshot.UploadedBy != analystID {
		return ErrForbidden
	}
	if err := s.repo.DeleteSnapshot(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ledger snapshot: %w", err)
	}
	s.log.Info().Str("snapshot_id", id).Int("analyst_id", analystID).Msg("ledger snapshot deleted")
	return nil
}

func (s *reportService) GetReport(ctx context.Context, snapshotID string, asOf time.Time) (*model.Report, error) {
	return s.analyze(ctx, snapshotID, asOf, s.cfg.Target)
}

// Reconcile recomputes the report against an ad-hoc target instead of the
// configured one.
func (s *reportService) Reconcile(ctx context.Context, snapshotID string, asOf time.Time, target model.ReconciliationTarget) (*model.Report, error) {
	return s.analyze(ctx, snapshotID, asOf, &target)
}

func (s *reportService) analyze(ctx context.Context, snapshotID string, asOf time.Time, target *model.ReconciliationTarget) (*model.Report, error) {
	if _, err := s.repo.GetSnapshot(ctx, snapshotID); err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to find ledger snapshot: %w", err)
	}
	txns, err := s.repo.LoadTransactions(ctx, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger transactions: %w", err)
	}
	ruleSet, err := s.rules.Active(ctx)
	if err != nil {
		return nil, err
	}

	// A caller supplied as-of carries a calendar date; read it in the ledger's zone.
	if asOf.IsZero() {
		asOf = s.now()
	} else {
		asOf = time.Date(asOf.Year(), asOf.Month(), asOf.Day(), asOf.Hour(), asOf.Minute(), asOf.Second(), asOf.Nanosecond(), s.cfg.Location)
	}
	report := receivables.Analyze(txns, ruleSet.Rules, receivables.Options{
		Now:     asOf.In(s.cfg.Location),
		Epsilon: s.cfg.Epsilon,
		WeekEnd: s.cfg.WeekEnd,
		Workers: s.cfg.Workers,
		Target:  target,
	})

	for _, w := range report.Warnings {
		s.log.Warn().Str("snapshot_id", snapshotID).Str("account", w.Account).Msg(w.Message)
	}
	if rec := report.Reconciliation; rec != nil && !rec.Matched {
		s.log.Warn().
			Str("snapshot_id", snapshotID).
			Str("computed", rec.Computed.StringFixed(2)).
			Str("target", rec.Target.StringFixed(2)).
			Str("difference", rec.Difference.StringFixed(2)).
			Msg("outstanding total does not reconcile")
	}
	return report, nil
}

// ExportDebtorsCSV writes one row per outstanding debtor with its aging
// schedule, largest balance first.
func (s *reportService) ExportDebtorsCSV(ctx context.Context, snapshotID string, asOf time.Time) (*bytes.Buffer, error) {
	report, err := s.GetReport(ctx, snapshotID, asOf)
	if err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	header := []string{"Account", "Code", "TotalDebit", "TotalCredit", "Balance"}
	header = append(header, model.BucketLabels[:]...)
	header = append(header, "Overdue60", "Warning")
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, a := range report.Accounts {
		row := []string{a.Name, a.Code, a.TotalDebit.StringFixed(2), a.TotalCredit.StringFixed(2), a.Balance.StringFixed(2)}
		for _, v := range a.Buckets {
			row = append(row, v.StringFixed(2))
		}
		row = append(row, a.Overdue60.StringFixed(2), a.Warning)
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}
	return buffer, nil
}
