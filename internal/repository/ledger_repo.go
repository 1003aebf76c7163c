package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"receivables_monitor/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ErrSnapshotNotFound is returned when no ledger snapshot has the given ID
var ErrSnapshotNotFound = errors.New("ledger snapshot not found")

var transactionColumns = []string{
	"snapshot_id", "seq", "account_code", "account_name", "debit", "credit",
	"txn_date", "voucher", "narration", "counter_ledger",
}

// LedgerRepository stores uploaded ledger snapshots and their transactions
type LedgerRepository interface {
	CreateSnapshot(ctx context.Context, snapshot *model.LedgerSnapshot, txns []model.Transaction) error
	GetSnapshot(ctx context.Context, id string) (*model.LedgerSnapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]model.LedgerSnapshot, error)
	LoadTransactions(ctx context.Context, snapshotID string) ([]model.Transaction, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

type ledgerRepository struct {
	db DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// CreateSnapshot writes the snapshot header and all of its rows in one
// transaction. Rows are copied in input order; seq preserves that order.
func (r *ledgerRepository) CreateSnapshot(ctx context.Context, s *model.LedgerSnapshot, txns []model.Transaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}

	sql := `INSERT INTO ledger_snapshots (id, filename, uploaded_by, row_count, coerced_amounts, undated_rows, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.Exec(ctx, sql, s.ID, s.Filename, s.UploadedBy, s.Rows, s.CoercedAmounts, s.UndatedRows, s.CreatedAt); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to create ledger snapshot: %w", err)
	}

	rows := make([][]any, len(txns))
	for i, t := range txns {
		var date *time.Time
		if t.HasDate() {
			d := t.Date
			date = &d
		}
		rows[i] = []any{
			s.ID, i, t.AccountCode, t.AccountName, toNumeric(t.Debit), toNumeric(t.Credit),
			date, t.Voucher, t.Narration, t.CounterLedger,
		}
	}
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"ledger_transactions"}, transactionColumns, pgx.CopyFromRows(rows))
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to copy ledger transactions: %w", err)
	}
	if copied != int64(len(txns)) {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("copied %d of %d ledger transactions", copied, len(txns))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ledger snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot header by ID
func (r *ledgerRepository) GetSnapshot(ctx context.Context, id string) (*model.LedgerSnapshot, error) {
	s := &model.LedgerSnapshot{}
	sql := `SELECT id::text, filename, COALESCE(uploaded_by, 0), row_count, coerced_amounts, undated_rows, created_at
            FROM ledger_snapshots WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&s.ID, &s.Filename, &s.UploadedBy, &s.Rows, &s.CoercedAmounts, &s.UndatedRows, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to find ledger snapshot: %w", err)
	}
	return s, nil
}

// ListSnapshots returns the most recent snapshots first
func (r *ledgerRepository) ListSnapshots(ctx context.Context, limit int) ([]model.LedgerSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	sql := `SELECT id::text, filename, COALESCE(uploaded_by, 0), row_count, coerced_amounts, undated_rows, created_at
            FROM ledger_snapshots ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []model.LedgerSnapshot{}
	for rows.Next() {
		var s model.LedgerSnapshot
		if err := rows.Scan(&s.ID, &s.Filename, &s.UploadedBy, &s.Rows, &s.CoercedAmounts, &s.UndatedRows, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger snapshot row: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger snapshot rows: %w", err)
	}
	return snapshots, nil
}

// LoadTransactions returns a snapshot's transactions in upload order.
// A NULL date comes back as the zero time.
func (r *ledgerRepository) LoadTransactions(ctx context.Context, snapshotID string) ([]model.Transaction, error) {
	sql := `SELECT account_code, account_name, debit, credit, txn_date, voucher, narration, counter_ledger
            FROM ledger_transactions WHERE snapshot_id = $1 ORDER BY seq`
	rows, err := r.db.Query(ctx, sql, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var (
			t             model.Transaction
			debit, credit pgtype.Numeric
			date          *time.Time
		)
		if err := rows.Scan(&t.AccountCode, &t.AccountName, &debit, &credit, &date, &t.Voucher, &t.Narration, &t.CounterLedger); err != nil {
			return nil, fmt.Errorf("failed to scan ledger transaction row: %w", err)
		}
		t.Debit = fromNumeric(debit)
		t.Credit = fromNumeric(credit)
		if date != nil {
			t.Date = *date
		}
		txns = append(txns, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger transaction rows: %w", err)
	}
	return txns, nil
}

// DeleteSnapshot removes a snapshot; its rows cascade
func (r *ledgerRepository) DeleteSnapshot(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM ledger_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ledger snapshot: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}
