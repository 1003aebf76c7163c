package receivables

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"receivables_monitor/internal/model"
)

// Options controls one analysis run.
type Options struct {
	// Now is captured once and used for every age and window computation.
	Now     time.Time
	Epsilon decimal.Decimal
	WeekEnd time.Weekday
	// Workers > 1 allocates accounts concurrently. Output is unchanged.
	Workers int
	Target  *model.ReconciliationTarget
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if !o.Epsilon.IsPositive() {
		o.Epsilon = DefaultEpsilon
	}
	return o
}

// Analyze runs classification, aggregation, aging, collections and
// reconciliation over an in-memory transaction set. It never fails; an
// empty rule set or unmatched ledger yields an empty report.
func Analyze(txns []model.Transaction, rules model.ClassificationRules, opts Options) *model.Report {
	opts = opts.withDefaults()
	classifier := NewClassifier(rules)

	receivable := classifier.ReceivableAccounts(txns)
	totals := Aggregate(txns, receivable)

	debtors := make([]*AccountTotals, 0, len(totals))
	for _, acc := range totals {
		if Outstanding(acc.Balance, opts.Epsilon) {
			debtors = append(debtors, acc)
		}
	}
	sort.Slice(debtors, func(i, j int) bool {
		if c := debtors[i].Balance.Cmp(debtors[j].Balance); c != 0 {
			return c > 0
		}
		return debtors[i].Name < debtors[j].Name
	})

	accounts := allocateAll(debtors, opts)

	report := &model.Report{
		GeneratedAt:      opts.Now,
		RulesVersion:     rules.Version,
		Accounts:         accounts,
		TotalOutstanding: decimal.Zero,
		DebtorCount:      len(accounts),
		ReceivableCount:  len(receivable),
	}
	for i := range report.BucketTotals {
		report.BucketTotals[i] = decimal.Zero
	}
	for _, a := range accounts {
		report.TotalOutstanding = report.TotalOutstanding.Add(a.Balance)
		for i, v := range a.Buckets {
			report.BucketTotals[i] = report.BucketTotals[i].Add(v)
		}
		if a.Warning != "" {
			report.Warnings = append(report.Warnings, model.Warning{Account: a.Name, Message: a.Warning})
		}
	}

	windows := BuildWindows(opts.Now, opts.WeekEnd)
	collections := NetCollections(txns, receivable, classifier)
	report.Collections = Rollup(collections, windows, EarliestDate(txns, receivable), opts.Now)
	report.Collections.GlobalOverdueAmount, report.Collections.GlobalOverdueCount = GlobalOverdue(accounts, opts.Epsilon)

	if opts.Target != nil {
		tolerance := opts.Target.Tolerance
		if !tolerance.IsPositive() {
			tolerance = DefaultTolerance
		}
		rec := Reconcile(report.TotalOutstanding, opts.Target.Total, tolerance)
		report.Reconciliation = &rec
		if opts.Target.Count != nil {
			cc := CheckCount(report.DebtorCount, *opts.Target.Count)
			report.CountCheck = &cc
		}
	}
	return report
}

func allocateAll(debtors []*AccountTotals, opts Options) []model.AccountReport {
	accounts := make([]model.AccountReport, len(debtors))
	build := func(i int) {
		acc := debtors[i]
		alloc := Allocate(acc.Transactions, acc.Balance, opts.Now, opts.Epsilon)
		accounts[i] = model.AccountReport{
			Name:        acc.Name,
			Code:        acc.Code,
			TotalDebit:  acc.TotalDebit,
			TotalCredit: acc.TotalCredit,
			Balance:     acc.Balance,
			Buckets:     alloc.Buckets,
			Overdue60:   alloc.Buckets.Overdue60(),
			Warning:     alloc.Warning(opts.Epsilon),
		}
	}

	if opts.Workers <= 1 || len(debtors) < 2 {
		for i := range debtors {
			build(i)
		}
		return accounts
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i := range debtors {
		i := i
		g.Go(func() error {
			build(i)
			return nil
		})
	}
	_ = g.Wait()
	return accounts
}
