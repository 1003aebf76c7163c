package receivables

import (
	"github.com/shopspring/decimal"

	"receivables_monitor/internal/model"
)

// DefaultTolerance is the exact-cent tolerance for currency totals.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Reconcile compares computed with target. Matched when the absolute
// difference is strictly below tolerance.
func Reconcile(computed, target, tolerance decimal.Decimal) model.ReconciliationResult {
	diff := computed.Sub(target)
	return model.ReconciliationResult{
		Computed:   computed,
		Target:     target,
		Tolerance:  tolerance,
		Matched:    diff.Abs().LessThan(tolerance),
		Difference: diff,
	}
}

// CheckCount compares the debtor count with a target count.
func CheckCount(actual, target int) model.CountCheck {
	return model.CountCheck{
		Actual:     actual,
		Target:     target,
		Matched:    actual == target,
		Difference: actual - target,
	}
}
