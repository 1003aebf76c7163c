package receivables

import (
	"strings"

	"github.com/shopspring/decimal"

	"receivables_monitor/internal/model"
)

// DefaultEpsilon is the smallest balance treated as outstanding.
var DefaultEpsilon = decimal.RequireFromString("0.01")

// AccountTotals is the aggregated position of one account.
type AccountTotals struct {
	Name         string
	Code         string
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
	Balance      decimal.Decimal
	Transactions []model.Transaction
}

// Outstanding is the single "has balance" predicate.
func Outstanding(balance, epsilon decimal.Decimal) bool {
	return balance.GreaterThan(epsilon)
}

// Aggregate sums debits and credits per receivable account name.
// Transactions of non-receivable accounts are skipped.
func Aggregate(txns []model.Transaction, receivable map[string]bool) map[string]*AccountTotals {
	totals := make(map[string]*AccountTotals)
	for _, t := range txns {
		name := strings.TrimSpace(t.AccountName)
		if !receivable[name] {
			continue
		}
		acc, ok := totals[name]
		if !ok {
			acc = &AccountTotals{Name: name, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
			totals[name] = acc
		}
		if acc.Code == "" {
			acc.Code = strings.TrimSpace(t.AccountCode)
		}
		acc.TotalDebit = acc.TotalDebit.Add(t.Debit)
		acc.TotalCredit = acc.TotalCredit.Add(t.Credit)
		acc.Transactions = append(acc.Transactions, t)
	}
	for _, acc := range totals {
		acc.Balance = acc.TotalDebit.Sub(acc.TotalCredit)
	}
	return totals
}
