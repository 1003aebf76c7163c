package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"receivables_monitor/internal/model"
)

// ErrNothingToChart is returned when the report has no debtors.
var ErrNothingToChart = errors.New("no outstanding debtors to chart")

const maxLabelRunes = 18

var (
	currentColor = drawing.Color{R: 77, G: 184, B: 255, A: 255}
	overdueColor = drawing.Color{R: 250, G: 134, B: 94, A: 255}
)

func shortLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelRunes {
		return s
	}
	return string(r[:maxLabelRunes-1]) + "…"
}

// DebtorChart renders the top debtors by balance as a PNG bar chart. Bars
// of debtors with anything overdue past 60 days are highlighted.
func DebtorChart(w io.Writer, report *model.Report, top int) error {
	accounts := report.Accounts
	if top > 0 && top < len(accounts) {
		accounts = accounts[:top]
	}
	if len(accounts) == 0 {
		return ErrNothingToChart
	}

	bars := make([]chart.Value, 0, len(accounts))
	maxValue := 0.0
	for _, a := range accounts {
		v := a.Balance.InexactFloat64()
		if v > maxValue {
			maxValue = v
		}
		color := currentColor
		if a.Overdue60.IsPositive() {
			color = overdueColor
		}
		bars = append(bars, chart.Value{
			Label: shortLabel(a.Name),
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 0},
		})
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	barChart := chart.BarChart{
		Title: fmt.Sprintf("Top %d debtors (total outstanding %s)", len(accounts), money(report.TotalOutstanding)),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:    1000,
		Height:   500,
		BarWidth: 40,
		Bars:     bars,
	}
	barChart.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1}
	barChart.YAxis.ValueFormatter = func(v interface{}) string {
		if vf, isFloat := v.(float64); isFloat {
			return fmt.Sprintf("%.0f", vf)
		}
		return ""
	}

	if err := barChart.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render debtor chart: %w", err)
	}
	return nil
}
