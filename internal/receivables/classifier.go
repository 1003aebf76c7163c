package receivables

import (
	"strings"

	"receivables_monitor/internal/model"
)

// Classifier tags accounts as receivables and postings as returns.
type Classifier struct {
	codePrefixes   []string
	nameKeywords   []string
	counterLedger  []string
	exclusions     []string
	returnKeywords []string
}

// NewClassifier prepares the rules for matching. Empty entries are ignored.
func NewClassifier(rules model.ClassificationRules) *Classifier {
	return &Classifier{
		codePrefixes:   normalize(rules.CodePrefixes, false),
		nameKeywords:   normalize(rules.NameKeywords, true),
		counterLedger:  normalize(rules.CounterLedgerKeywords, true),
		exclusions:     normalize(rules.Exclusions, true),
		returnKeywords: normalize(rules.ReturnKeywords, true),
	}
}

func normalize(values []string, fold bool) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if fold {
			v = strings.ToLower(v)
		}
		out = append(out, v)
	}
	return out
}

func containsAny(s string, fragments []string) bool {
	if s == "" {
		return false
	}
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether an account name hits the exclusion list.
func (c *Classifier) IsExcluded(name string) bool {
	return containsAny(strings.ToLower(name), c.exclusions)
}

// IsReceivable reports whether the account is an in-scope receivable.
// Exclusion wins over both inclusion signals.
func (c *Classifier) IsReceivable(code, name string) bool {
	lname := strings.ToLower(strings.TrimSpace(name))
	if containsAny(lname, c.exclusions) {
		return false
	}
	code = strings.TrimSpace(code)
	if code != "" {
		for _, p := range c.codePrefixes {
			if strings.HasPrefix(code, p) {
				return true
			}
		}
	}
	return containsAny(lname, c.nameKeywords)
}

// IsReturn reports whether a posting is a return or adjustment.
func (c *Classifier) IsReturn(t model.Transaction) bool {
	for _, field := range []string{t.Voucher, t.Narration, t.CounterLedger, t.AccountName} {
		if containsAny(strings.ToLower(field), c.returnKeywords) {
			return true
		}
	}
	return false
}

// ReceivableAccounts returns the set of account names classified as
// receivables. Besides IsReceivable, an account qualifies when any of its
// postings runs against a counter ledger matching a sales keyword.
func (c *Classifier) ReceivableAccounts(txns []model.Transaction) map[string]bool {
	accounts := make(map[string]bool)
	for _, t := range txns {
		name := strings.TrimSpace(t.AccountName)
		if name == "" || accounts[name] {
			continue
		}
		if c.IsReceivable(t.AccountCode, name) {
			accounts[name] = true
			continue
		}
		if !c.IsExcluded(name) && containsAny(strings.ToLower(t.CounterLedger), c.counterLedger) {
			accounts[name] = true
		}
	}
	return accounts
}
