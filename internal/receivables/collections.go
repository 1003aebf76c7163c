package receivables

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"receivables_monitor/internal/model"
)

const (
	weeksInRollup  = 4
	monthsInRollup = 3
)

// Windows are the reporting periods anchored to Now.
type Windows struct {
	Weekly  []model.WeekWindow
	Monthly []model.MonthWindow
}

// BuildWindows computes four weekly windows ending on the last weekEnd at or
// before now, and the current plus two preceding calendar months. Both are
// ordered oldest first.
func BuildWindows(now time.Time, weekEnd time.Weekday) Windows {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	back := (int(day.Weekday()) - int(weekEnd) + 7) % 7
	anchorEnd := day.AddDate(0, 0, -back+1)

	w := Windows{
		Weekly:  make([]model.WeekWindow, weeksInRollup),
		Monthly: make([]model.MonthWindow, monthsInRollup),
	}
	for k := 0; k < weeksInRollup; k++ {
		end := anchorEnd.AddDate(0, 0, -7*k)
		w.Weekly[weeksInRollup-1-k] = model.WeekWindow{
			Start:  end.AddDate(0, 0, -7),
			End:    end,
			Amount: decimal.Zero,
		}
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for k := 0; k < monthsInRollup; k++ {
		m := first.AddDate(0, -k, 0)
		w.Monthly[monthsInRollup-1-k] = model.MonthWindow{
			Year:   m.Year(),
			Month:  m.Month(),
			Amount: decimal.Zero,
		}
	}
	return w
}

// NetCollections keeps credit postings of receivable accounts that are not
// returns or adjustments.
func NetCollections(txns []model.Transaction, receivable map[string]bool, c *Classifier) []model.Transaction {
	out := make([]model.Transaction, 0)
	for _, t := range txns {
		if !t.Credit.IsPositive() || !receivable[strings.TrimSpace(t.AccountName)] {
			continue
		}
		if c.IsReturn(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// EarliestDate returns the oldest dated posting, debit or credit, of the
// receivable accounts. It is the zero time when none is dated.
func EarliestDate(txns []model.Transaction, receivable map[string]bool) time.Time {
	var earliest time.Time
	for _, t := range txns {
		if !t.HasDate() || !receivable[strings.TrimSpace(t.AccountName)] {
			continue
		}
		if earliest.IsZero() || t.Date.Before(earliest) {
			earliest = t.Date
		}
	}
	return earliest
}

// Rollup sums net collections into the windows and computes run rates over
// the days since earliest. collections must already be filtered by
// NetCollections.
func Rollup(collections []model.Transaction, windows Windows, earliest, now time.Time) model.CollectionsRollup {
	r := model.CollectionsRollup{
		Weekly:              append([]model.WeekWindow(nil), windows.Weekly...),
		Monthly:             append([]model.MonthWindow(nil), windows.Monthly...),
		TotalCollected:      decimal.Zero,
		AvgWeekly:           decimal.Zero,
		AvgMonthly:          decimal.Zero,
		GlobalOverdueAmount: decimal.Zero,
	}

	for _, t := range collections {
		r.TotalCollected = r.TotalCollected.Add(t.Credit)
		if !t.HasDate() {
			continue
		}
		for i := range r.Weekly {
			w := &r.Weekly[i]
			if !t.Date.Before(w.Start) && t.Date.Before(w.End) {
				w.Amount = w.Amount.Add(t.Credit)
			}
		}
		local := t.Date.In(now.Location())
		for i := range r.Monthly {
			m := &r.Monthly[i]
			if local.Year() == m.Year && local.Month() == m.Month {
				m.Amount = m.Amount.Add(t.Credit)
			}
		}
	}

	r.AvgWeekly, r.AvgMonthly = RunRates(r.TotalCollected, earliest, now)
	return r
}

// RunRates scales total over the active days since earliest to 7 and 30 day rates.
func RunRates(total decimal.Decimal, earliest, now time.Time) (weekly, monthly decimal.Decimal) {
	activeDays := 1
	if !earliest.IsZero() {
		if d := AgeDays(earliest, now); d > activeDays {
			activeDays = d
		}
	}
	daily := total.Div(decimal.NewFromInt(int64(activeDays)))
	return daily.Mul(decimal.NewFromInt(7)).Round(2), daily.Mul(decimal.NewFromInt(30)).Round(2)
}

// GlobalOverdue sums Overdue60 over outstanding accounts and counts those
// whose overdue amount exceeds epsilon.
func GlobalOverdue(accounts []model.AccountReport, epsilon decimal.Decimal) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, a := range accounts {
		if !Outstanding(a.Balance, epsilon) {
			continue
		}
		total = total.Add(a.Overdue60)
		if a.Overdue60.GreaterThan(epsilon) {
			count++
		}
	}
	return total, count
}
