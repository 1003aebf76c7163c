package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClassificationRules decides which accounts are receivables and which
// postings are returns or adjustments.
type ClassificationRules struct {
	Version               int      `json:"version" yaml:"version"`
	CodePrefixes          []string `json:"code_prefixes" yaml:"code_prefixes"`
	NameKeywords          []string `json:"name_keywords" yaml:"name_keywords"`
	CounterLedgerKeywords []string `json:"counter_ledger_keywords" yaml:"counter_ledger_keywords"`
	Exclusions            []string `json:"exclusions" yaml:"exclusions"`
	ReturnKeywords        []string `json:"return_keywords" yaml:"return_keywords"`
}

// IsEmpty is true when no inclusion rule is configured.
func (r ClassificationRules) IsEmpty() bool {
	return len(r.CodePrefixes) == 0 && len(r.NameKeywords) == 0 && len(r.CounterLedgerKeywords) == 0
}

// RuleSet is a stored, versioned ClassificationRules document.
type RuleSet struct {
	Version   int                 `json:"version"`
	Rules     ClassificationRules `json:"rules"`
	CreatedBy int                 `json:"created_by"`
	CreatedAt time.Time           `json:"created_at"`
}

// ReconciliationTarget is the externally trusted figure a report is checked against.
type ReconciliationTarget struct {
	Total     decimal.Decimal `json:"total"`
	Tolerance decimal.Decimal `json:"tolerance"`
	Count     *int            `json:"count,omitempty"`
}
