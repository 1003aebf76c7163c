package receivables

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"receivables_monitor/internal/model"
)

// MaxAgeDays is the age assigned to postings without a usable date.
const MaxAgeDays = math.MaxInt32

// Bucket is an inclusive day range. MaxDays < 0 means unbounded.
type Bucket struct {
	Label   string
	MinDays int
	MaxDays int
}

// Contains reports whether age falls in the bucket.
func (b Bucket) Contains(age int) bool {
	return age >= b.MinDays && (b.MaxDays < 0 || age <= b.MaxDays)
}

// AgingBuckets are contiguous and non-overlapping, youngest first.
var AgingBuckets = [model.BucketCount]Bucket{
	{Label: model.BucketLabels[0], MinDays: 0, MaxDays: 30},
	{Label: model.BucketLabels[1], MinDays: 31, MaxDays: 60},
	{Label: model.BucketLabels[2], MinDays: 61, MaxDays: 90},
	{Label: model.BucketLabels[3], MinDays: 91, MaxDays: 120},
	{Label: model.BucketLabels[4], MinDays: 121, MaxDays: -1},
}

// Allocation is the aging schedule of one account.
type Allocation struct {
	Buckets model.Buckets
	// Unattributed is the part of the balance no debit posting could carry.
	// It is already included in the oldest bucket.
	Unattributed decimal.Decimal
}

// Warning describes an unattributed remainder, or "" when there is none.
func (a Allocation) Warning(epsilon decimal.Decimal) string {
	if !a.Unattributed.GreaterThan(epsilon) {
		return ""
	}
	return fmt.Sprintf("balance exceeds attributable debits by %s", a.Unattributed.StringFixed(2))
}

// AgeDays returns whole days between date and ref, rounded down.
// Undated postings get MaxAgeDays; future-dated postings are 0 days old.
func AgeDays(date, ref time.Time) int {
	if date.IsZero() {
		return MaxAgeDays
	}
	days := math.Floor(ref.Sub(date).Hours() / 24)
	if days < 0 {
		return 0
	}
	if days > MaxAgeDays {
		return MaxAgeDays
	}
	return int(days)
}

// BucketIndex returns the index of the bucket holding age.
func BucketIndex(age int) int {
	for i, b := range AgingBuckets {
		if b.Contains(age) {
			return i
		}
	}
	return len(AgingBuckets) - 1
}

// Allocate spreads netBalance over the aging buckets. Payments are assumed
// to settle the oldest invoices, so the remaining balance is attributed to
// the most recent debit postings first. Equal dates keep input order.
func Allocate(txns []model.Transaction, netBalance decimal.Decimal, ref time.Time, epsilon decimal.Decimal) Allocation {
	var alloc Allocation
	for i := range alloc.Buckets {
		alloc.Buckets[i] = decimal.Zero
	}
	alloc.Unattributed = decimal.Zero
	if !Outstanding(netBalance, epsilon) {
		return alloc
	}

	debits := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Debit.IsPositive() {
			debits = append(debits, t)
		}
	}
	sort.SliceStable(debits, func(i, j int) bool {
		return debits[i].Date.After(debits[j].Date)
	})

	remaining := netBalance
	for _, t := range debits {
		if !remaining.IsPositive() {
			break
		}
		amount := decimal.Min(t.Debit, remaining)
		idx := BucketIndex(AgeDays(t.Date, ref))
		alloc.Buckets[idx] = alloc.Buckets[idx].Add(amount)
		remaining = remaining.Sub(amount)
	}

	if remaining.IsPositive() {
		last := len(alloc.Buckets) - 1
		alloc.Buckets[last] = alloc.Buckets[last].Add(remaining)
		alloc.Unattributed = remaining
	}
	return alloc
}
