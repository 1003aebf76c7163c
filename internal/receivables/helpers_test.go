package receivables

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"receivables_monitor/internal/model"
)

// Wednesday
var testNow = time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debit(name string, amount string, date time.Time) model.Transaction {
	return model.NewTransaction("", name, amt(amount), decimal.Zero, date)
}

func credit(name string, amount string, date time.Time) model.Transaction {
	return model.NewTransaction("", name, decimal.Zero, amt(amount), date)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, amt(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func testRules() model.ClassificationRules {
	return model.ClassificationRules{
		Version:               3,
		CodePrefixes:          []string{"1201", "1204"},
		NameKeywords:          []string{"customer", "عميل"},
		CounterLedgerKeywords: []string{"إيرادات المبيعات", "مبيعات", "sales"},
		Exclusions:            []string{"bank", "cash", "صندوق", "شبكة"},
		ReturnKeywords:        []string{"return", "credit note", "مرتجع", "adjustment"},
	}
}

func testOptions() Options {
	return Options{
		Now:     testNow,
		Epsilon: DefaultEpsilon,
		WeekEnd: testNow.Weekday(),
	}
}
