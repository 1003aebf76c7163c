package receivables

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receivables_monitor/internal/model"
)

func TestBuildWindows_WeeksEndOnConfiguredDay(t *testing.T) {
	w := BuildWindows(testNow, time.Friday)

	require.Len(t, w.Weekly, 4)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, day(2026, 2, 14), w.Weekly[0].Start)
	assert.Equal(t, day(2026, 2, 21), w.Weekly[0].End)
	assert.Equal(t, day(2026, 3, 7), w.Weekly[3].Start)
	assert.Equal(t, day(2026, 3, 14), w.Weekly[3].End)
	for i := 1; i < len(w.Weekly); i++ {
		assert.Equal(t, w.Weekly[i-1].End, w.Weekly[i].Start)
	}
}

func TestBuildWindows_AnchorIsTodayOnWeekEnd(t *testing.T) {
	w := BuildWindows(testNow, time.Wednesday)

	assert.Equal(t, time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC), w.Weekly[3].End)
}

func TestBuildWindows_MonthsCrossYear(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	w := BuildWindows(now, time.Thursday)

	require.Len(t, w.Monthly, 3)
	assert.Equal(t, 2025, w.Monthly[0].Year)
	assert.Equal(t, time.December, w.Monthly[0].Month)
	assert.Equal(t, time.January, w.Monthly[1].Month)
	assert.Equal(t, time.February, w.Monthly[2].Month)
	assert.Equal(t, 2026, w.Monthly[2].Year)
}

func TestNetCollections_ExcludesReturnsAndNonReceivables(t *testing.T) {
	c := NewClassifier(testRules())
	ret := credit("Customer A", "300", daysAgo(2))
	ret.Narration = "مرتجع بضاعة"

	txns := []model.Transaction{
		credit("Customer A", "200", daysAgo(2)),
		ret,
		debit("Customer A", "900", daysAgo(20)),
		credit("Cash box", "75", daysAgo(1)),
	}
	receivable := c.ReceivableAccounts(txns)

	got := NetCollections(txns, receivable, c)

	require.Len(t, got, 1)
	assertAmount(t, "200", got[0].Credit)
}

func TestRollup_WindowsAndRunRates(t *testing.T) {
	windows := BuildWindows(testNow, testNow.Weekday())
	collections := []model.Transaction{
		credit("A", "100", daysAgo(1)),
		credit("A", "200", daysAgo(10)),
		credit("B", "330", daysAgo(30)),
		credit("B", "70", daysAgo(70)),
		credit("B", "25", time.Time{}),
	}

	r := Rollup(collections, windows, daysAgo(100), testNow)

	assertAmount(t, "0", r.Weekly[0].Amount)
	assertAmount(t, "0", r.Weekly[1].Amount)
	assertAmount(t, "200", r.Weekly[2].Amount)
	assertAmount(t, "100", r.Weekly[3].Amount)

	// January, February, March 2026
	assertAmount(t, "70", r.Monthly[0].Amount)
	assertAmount(t, "330", r.Monthly[1].Amount)
	assertAmount(t, "300", r.Monthly[2].Amount)

	assertAmount(t, "725", r.TotalCollected)
	// 725 over 100 active days, counted from the earliest posting
	assertAmount(t, "50.75", r.AvgWeekly)
	assertAmount(t, "217.5", r.AvgMonthly)
}

func TestEarliestDate_ReceivablePostingsOnly(t *testing.T) {
	receivable := map[string]bool{"A": true}
	txns := []model.Transaction{
		credit("A", "100", daysAgo(5)),
		debit("A", "900", daysAgo(40)),
		debit("A", "50", time.Time{}),
		debit("Rent", "10", daysAgo(400)),
	}

	assert.Equal(t, daysAgo(40), EarliestDate(txns, receivable))
	assert.True(t, EarliestDate(txns, map[string]bool{}).IsZero())
}

func TestRunRates_AtLeastOneActiveDay(t *testing.T) {
	weekly, monthly := RunRates(amt("10"), testNow, testNow)
	assertAmount(t, "70", weekly)
	assertAmount(t, "300", monthly)

	weekly, monthly = RunRates(amt("0"), time.Time{}, testNow)
	assertAmount(t, "0", weekly)
	assertAmount(t, "0", monthly)
}

func TestGlobalOverdue(t *testing.T) {
	accounts := []model.AccountReport{
		{Name: "A", Balance: amt("500"), Overdue60: amt("120")},
		{Name: "B", Balance: amt("90"), Overdue60: amt("0")},
		{Name: "C", Balance: amt("0.005"), Overdue60: amt("0.005")},
		{Name: "D", Balance: amt("40"), Overdue60: amt("40")},
	}

	total, count := GlobalOverdue(accounts, DefaultEpsilon)

	assertAmount(t, "160", total)
	assert.Equal(t, 2, count)
}
