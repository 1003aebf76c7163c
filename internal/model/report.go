package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BucketCount is the number of aging buckets.
const BucketCount = 5

// BucketLabels names the aging buckets, youngest first.
var BucketLabels = [BucketCount]string{"0-30", "31-60", "61-90", "91-120", "120+"}

// Buckets holds one amount per aging bucket, youngest first.
type Buckets [BucketCount]decimal.Decimal

// Total sums all buckets.
func (b Buckets) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range b {
		sum = sum.Add(v)
	}
	return sum
}

// Overdue60 sums the buckets older than 60 days.
func (b Buckets) Overdue60() decimal.Decimal {
	return b[2].Add(b[3]).Add(b[4])
}

// MarshalJSON renders buckets as an object keyed by label.
func (b Buckets) MarshalJSON() ([]byte, error) {
	m := make(map[string]decimal.Decimal, BucketCount)
	for i, label := range BucketLabels {
		m[label] = b[i]
	}
	return json.Marshal(m)
}

// AccountReport is the per-account aging schedule.
type AccountReport struct {
	Name        string          `json:"name"`
	Code        string          `json:"code,omitempty"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balance     decimal.Decimal `json:"balance"`
	Buckets     Buckets         `json:"buckets"`
	Overdue60   decimal.Decimal `json:"overdue_60"`
	Warning     string          `json:"warning,omitempty"`
}

// WeekWindow is a seven day window [Start, End).
type WeekWindow struct {
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthWindow is one calendar month.
type MonthWindow struct {
	Year   int             `json:"year"`
	Month  time.Month      `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// CollectionsRollup holds net collections over the reporting windows.
type CollectionsRollup struct {
	Weekly              []WeekWindow    `json:"weekly"`
	Monthly             []MonthWindow   `json:"monthly"`
	TotalCollected      decimal.Decimal `json:"total_collected"`
	AvgWeekly           decimal.Decimal `json:"avg_weekly"`
	AvgMonthly          decimal.Decimal `json:"avg_monthly"`
	GlobalOverdueAmount decimal.Decimal `json:"global_overdue_amount"`
	GlobalOverdueCount  int             `json:"global_overdue_count"`
}

// ReconciliationResult compares a computed total with a target.
type ReconciliationResult struct {
	Computed   decimal.Decimal `json:"computed"`
	Target     decimal.Decimal `json:"target"`
	Tolerance  decimal.Decimal `json:"tolerance"`
	Matched    bool            `json:"matched"`
	Difference decimal.Decimal `json:"difference"`
}

// CountCheck compares the debtor count with a target count.
type CountCheck struct {
	Actual     int  `json:"actual"`
	Target     int  `json:"target"`
	Matched    bool `json:"matched"`
	Difference int  `json:"difference"`
}

// Warning is a non-fatal data-quality finding.
type Warning struct {
	Account string `json:"account"`
	Message string `json:"message"`
}

// Report is the full output of one analysis run.
type Report struct {
	GeneratedAt      time.Time             `json:"generated_at"`
	RulesVersion     int                   `json:"rules_version"`
	Accounts         []AccountReport       `json:"accounts"`
	BucketTotals     Buckets               `json:"bucket_totals"`
	TotalOutstanding decimal.Decimal       `json:"total_outstanding"`
	DebtorCount      int                   `json:"debtor_count"`
	ReceivableCount  int                   `json:"receivable_count"`
	Collections      CollectionsRollup     `json:"collections"`
	Reconciliation   *ReconciliationResult `json:"reconciliation,omitempty"`
	CountCheck       *CountCheck           `json:"count_check,omitempty"`
	Warnings         []Warning             `json:"warnings,omitempty"`
}

// Empty reports whether no outstanding debtors were found.
func (r *Report) Empty() bool {
	return r.DebtorCount == 0
}
