// Command report prints the receivables aging and collections report for
// a ledger export without a database.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"receivables_monitor/internal/config"
	"receivables_monitor/internal/ingest"
	"receivables_monitor/internal/logger"
	"receivables_monitor/internal/model"
	"receivables_monitor/internal/receivables"
	"receivables_monitor/internal/render"
)

var errUsage = errors.New("usage")

func main() {
	log := logger.New()
	if err := run(os.Args[1:], os.Stdout, log); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error().Err(err).Msg("report failed")
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, log zerolog.Logger) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	ledgerPath := fs.String("ledger", "", "Path to the ledger export, .xml or .csv (required)")
	rulesPath := fs.String("rules", "", "Classification rules YAML (defaults to built-in rules)")
	asOfFlag := fs.String("as-of", "", "Report date (YYYY-MM-DD, defaults to now)")
	targetFlag := fs.String("target", "", "Expected outstanding total to reconcile against")
	targetCount := fs.Int("target-count", -1, "Expected number of debtors")
	toleranceFlag := fs.String("tolerance", "0.01", "Reconciliation tolerance")
	epsilonFlag := fs.String("epsilon", "0.01", "Balances at or below this are settled")
	weekEndFlag := fs.String("week-end", "thursday", "Weekday that closes a collections week")
	tzFlag := fs.String("timezone", "UTC", "Zone of ledger dates and of -as-of")
	workers := fs.Int("workers", 1, "Accounts allocated concurrently")
	top := fs.Int("top", 15, "Debtors shown in the table and chart (0 for all)")
	chartPath := fs.String("chart", "", "Write a PNG bar chart of the top debtors to this path")
	asJSON := fs.Bool("json", false, "Print the report as JSON instead of tables")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *ledgerPath == "" {
		fmt.Fprintln(fs.Output(), "Error: -ledger is required")
		fs.Usage()
		return errUsage
	}

	loc, err := time.LoadLocation(*tzFlag)
	if err != nil {
		return fmt.Errorf("invalid -timezone: %w", err)
	}
	opts := receivables.Options{Workers: *workers, Now: time.Now().In(loc)}
	if *asOfFlag != "" {
		if opts.Now, err = time.ParseInLocation("2006-01-02", *asOfFlag, loc); err != nil {
			return fmt.Errorf("invalid -as-of: %w", err)
		}
	}
	if opts.WeekEnd, err = config.ParseWeekday(*weekEndFlag); err != nil {
		return fmt.Errorf("invalid -week-end: %w", err)
	}
	if opts.Epsilon, err = decimal.NewFromString(*epsilonFlag); err != nil {
		return fmt.Errorf("invalid -epsilon: %w", err)
	}
	if *targetFlag != "" {
		target := &model.ReconciliationTarget{}
		if target.Total, err = decimal.NewFromString(*targetFlag); err != nil {
			return fmt.Errorf("invalid -target: %w", err)
		}
		if target.Tolerance, err = decimal.NewFromString(*toleranceFlag); err != nil {
			return fmt.Errorf("invalid -tolerance: %w", err)
		}
		if *targetCount >= 0 {
			target.Count = targetCount
		}
		opts.Target = target
	}

	rules, err := config.LoadRules(*rulesPath)
	if err != nil {
		return err
	}

	f, err := os.Open(*ledgerPath)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	res, err := ingest.Read(*ledgerPath, f, ingest.Options{Location: loc})
	if err != nil {
		return err
	}
	log.Info().
		Str("ledger", *ledgerPath).
		Int("rows", res.Rows).
		Int("coerced_amounts", res.CoercedAmounts).
		Int("undated_rows", res.UndatedRows).
		Int("rules_version", rules.Version).
		Msg("ledger loaded")

	report := receivables.Analyze(res.Transactions, rules, opts)
	for _, w := range report.Warnings {
		log.Warn().Str("account", w.Account).Msg(w.Message)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		printReport(stdout, report, *top)
	}

	if *chartPath != "" {
		if report.Empty() {
			log.Warn().Msg("no outstanding debtors, chart skipped")
			return nil
		}
		out, err := os.Create(*chartPath)
		if err != nil {
			return fmt.Errorf("failed to create chart file: %w", err)
		}
		defer out.Close()
		if err := render.DebtorChart(out, report, *top); err != nil {
			return err
		}
		log.Info().Str("path", *chartPath).Msg("debtor chart written")
	}
	return nil
}

func printReport(w io.Writer, report *model.Report, top int) {
	fmt.Fprintln(w, "RECEIVABLES AGING REPORT")
	fmt.Fprintf(w, "As of: %s   Rules version: %d\n", report.GeneratedAt.Format("2006-01-02"), report.RulesVersion)
	fmt.Fprintln(w, "---------------------------------------------------------")
	if report.Empty() {
		fmt.Fprintf(w, "No outstanding debtors among %d receivable accounts.\n", report.ReceivableCount)
	} else {
		render.DebtorTable(w, report, top)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "AGING")
		render.AgingSummary(w, report)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "COLLECTIONS")
	render.CollectionsTable(w, report.Collections)
	fmt.Fprintf(w, "Overdue 60+: %s across %d debtors\n",
		report.Collections.GlobalOverdueAmount.StringFixed(2), report.Collections.GlobalOverdueCount)

	if report.Reconciliation != nil || report.CountCheck != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "RECONCILIATION")
		render.ReconciliationTable(w, report.Reconciliation, report.CountCheck)
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "WARNINGS")
		render.WarningsTable(w, report.Warnings)
	}
}
