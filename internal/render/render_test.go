package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receivables_monitor/internal/model"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleReport() *model.Report {
	a := model.AccountReport{Name: "عميل الأفق", Code: "120101", Balance: amount("1000")}
	a.Buckets = model.Buckets{amount("1000"), decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero}
	a.Overdue60 = decimal.Zero

	b := model.AccountReport{Name: "Northwind Trading Company Limited", Code: "120102", Balance: amount("700")}
	b.Buckets = model.Buckets{decimal.Zero, decimal.Zero, decimal.Zero, amount("700"), decimal.Zero}
	b.Overdue60 = amount("700")

	return &model.Report{
		Accounts:         []model.AccountReport{a, b},
		BucketTotals:     model.Buckets{amount("1000"), decimal.Zero, decimal.Zero, amount("700"), decimal.Zero},
		TotalOutstanding: amount("1700"),
		DebtorCount:      2,
		Collections: model.CollectionsRollup{
			Weekly: []model.WeekWindow{{
				Start:  time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
				End:    time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC),
				Amount: amount("500"),
			}},
			Monthly:             []model.MonthWindow{{Year: 2026, Month: time.March, Amount: amount("500")}},
			TotalCollected:      amount("500"),
			AvgWeekly:           amount("350"),
			AvgMonthly:          amount("1500"),
			GlobalOverdueAmount: amount("700"),
			GlobalOverdueCount:  1,
		},
		Warnings: []model.Warning{{Account: "عميل الأفق", Message: "balance exceeds attributable debits by 5.00"}},
	}
}

func TestDebtorTable(t *testing.T) {
	var buf bytes.Buffer
	DebtorTable(&buf, sampleReport(), 1)
	out := buf.String()

	assert.Contains(t, out, "عميل الأفق")
	assert.NotContains(t, out, "Northwind")
	assert.Contains(t, out, "120+")
	assert.Contains(t, out, "1700.00")
	assert.Contains(t, out, "2 debtors")
}

func TestAgingSummary(t *testing.T) {
	var buf bytes.Buffer
	AgingSummary(&buf, sampleReport())
	out := buf.String()

	assert.Contains(t, out, "58.8%")
	assert.Contains(t, out, "41.2%")
	assert.Contains(t, out, "0.0%")
}

func TestCollectionsTable(t *testing.T) {
	var buf bytes.Buffer
	CollectionsTable(&buf, sampleReport().Collections)
	out := buf.String()

	assert.Contains(t, out, "2026-03-12")
	assert.Contains(t, out, "2026-03-18")
	assert.Contains(t, out, "2026-03")
	assert.Contains(t, out, "350.00")
}

func TestReconciliationTable(t *testing.T) {
	var buf bytes.Buffer
	ReconciliationTable(&buf, nil, nil)
	assert.Empty(t, buf.String())

	rec := &model.ReconciliationResult{Computed: amount("1700"), Target: amount("1800"), Difference: amount("-100")}
	count := &model.CountCheck{Actual: 2, Target: 2, Matched: true}
	ReconciliationTable(&buf, rec, count)
	out := buf.String()
	assert.Contains(t, out, "MISMATCH")
	assert.Contains(t, out, "MATCHED")
	assert.Contains(t, out, "-100.00")
}

func TestWarningsTable(t *testing.T) {
	var buf bytes.Buffer
	WarningsTable(&buf, nil)
	assert.Empty(t, buf.String())

	WarningsTable(&buf, sampleReport().Warnings)
	assert.Contains(t, buf.String(), "balance exceeds attributable debits by")
	assert.Equal(t, 5, strings.Count(buf.String(), "\n"), "one line per warning row")
}

func TestDebtorChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DebtorChart(&buf, sampleReport(), 10))
	assert.True(t, strings.HasPrefix(buf.String(), "\x89PNG"))

	err := DebtorChart(&buf, &model.Report{}, 10)
	assert.ErrorIs(t, err, ErrNothingToChart)
}

func TestShortLabel(t *testing.T) {
	assert.Equal(t, "عميل الأفق", shortLabel("عميل الأفق"))
	assert.Equal(t, 18, len([]rune(shortLabel("Northwind Trading Company Limited"))))
}
