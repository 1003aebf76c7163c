// Package render prints reports as terminal tables and charts.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"receivables_monitor/internal/model"
)

var hundred = decimal.NewFromInt(100)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

// DebtorTable prints the aging schedule of the top debtors, largest
// balance first. top <= 0 prints every debtor.
func DebtorTable(w io.Writer, report *model.Report, top int) {
	header := []string{"#", "Account", "Code", "Balance"}
	header = append(header, model.BucketLabels[:]...)
	header = append(header, "Overdue 60+")
	table := newTable(w, header...)

	accounts := report.Accounts
	if top > 0 && top < len(accounts) {
		accounts = accounts[:top]
	}
	for i, a := range accounts {
		row := []string{strconv.Itoa(i + 1), a.Name, a.Code, money(a.Balance)}
		for _, v := range a.Buckets {
			row = append(row, money(v))
		}
		row = append(row, money(a.Overdue60))
		table.Append(row)
	}

	footer := []string{"", fmt.Sprintf("%d debtors", report.DebtorCount), "", money(report.TotalOutstanding)}
	for _, v := range report.BucketTotals {
		footer = append(footer, money(v))
	}
	footer = append(footer, money(report.Collections.GlobalOverdueAmount))
	table.SetFooter(footer)
	table.Render()
}

// AgingSummary prints the bucket totals with their share of the outstanding total.
func AgingSummary(w io.Writer, report *model.Report) {
	table := newTable(w, "Bucket", "Amount", "Share")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, label := range model.BucketLabels {
		amount := report.BucketTotals[i]
		share := "-"
		if report.TotalOutstanding.IsPositive() {
			share = amount.Mul(hundred).Div(report.TotalOutstanding).StringFixed(1) + "%"
		}
		table.Append([]string{label, money(amount), share})
	}
	table.SetFooter([]string{"Total", money(report.TotalOutstanding), ""})
	table.Render()
}

// CollectionsTable prints weekly and monthly net collections, oldest first,
// followed by the run rates.
func CollectionsTable(w io.Writer, c model.CollectionsRollup) {
	table := newTable(w, "Period", "From", "To", "Collected")
	for _, wk := range c.Weekly {
		last := wk.End.AddDate(0, 0, -1)
		table.Append([]string{"week", wk.Start.Format("2006-01-02"), last.Format("2006-01-02"), money(wk.Amount)})
	}
	for _, m := range c.Monthly {
		table.Append([]string{"month", fmt.Sprintf("%d-%02d", m.Year, int(m.Month)), "", money(m.Amount)})
	}
	table.Append([]string{"avg / week", "", "", money(c.AvgWeekly)})
	table.Append([]string{"avg / month", "", "", money(c.AvgMonthly)})
	table.SetFooter([]string{"Total", "", "", money(c.TotalCollected)})
	table.Render()
}

// ReconciliationTable prints the total and count checks. Nil checks are skipped.
func ReconciliationTable(w io.Writer, rec *model.ReconciliationResult, count *model.CountCheck) {
	if rec == nil && count == nil {
		return
	}
	table := newTable(w, "Check", "Computed", "Target", "Difference", "Status")
	if rec != nil {
		table.Append([]string{"outstanding total", money(rec.Computed), money(rec.Target), money(rec.Difference), status(rec.Matched)})
	}
	if count != nil {
		table.Append([]string{"debtor count", strconv.Itoa(count.Actual), strconv.Itoa(count.Target), strconv.Itoa(count.Difference), status(count.Matched)})
	}
	table.Render()
}

func status(matched bool) string {
	if matched {
		return "MATCHED"
	}
	return "MISMATCH"
}

// WarningsTable prints data-quality warnings, if any.
func WarningsTable(w io.Writer, warnings []model.Warning) {
	if len(warnings) == 0 {
		return
	}
	table := newTable(w, "Account", "Warning")
	for _, wn := range warnings {
		table.Append([]string{wn.Account, wn.Message})
	}
	table.Render()
}
