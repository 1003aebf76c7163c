package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"receivables_monitor/internal/model"
)

// ErrInvalidRules is returned for rule documents that cannot classify anything.
var ErrInvalidRules = errors.New("invalid classification rules")

// DefaultRules returns the rule set used when no rules file is configured.
// Keywords follow the Arabic chart of accounts of the LedgerBook exports.
func DefaultRules() model.ClassificationRules {
	return model.ClassificationRules{
		Version:               1,
		CodePrefixes:          []string{"1201", "1202", "1203"},
		NameKeywords:          []string{"عميل", "عملاء", "customer"},
		CounterLedgerKeywords: []string{"إيرادات المبيعات", "مبيعات", "sales revenue"},
		Exclusions:            []string{"مصرف الراجحي", "البنك الأهلي", "صندوق", "نقدية", "شبكة", "bank", "cash", "petty"},
		ReturnKeywords:        []string{"مرتجع", "اشعار دائن", "إشعار دائن", "تسوية", "return", "credit note", "adjustment"},
	}
}

// ParseRules decodes a YAML (or JSON) rule document.
func ParseRules(data []byte) (model.ClassificationRules, error) {
	var rules model.ClassificationRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return model.ClassificationRules{}, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if err := ValidateRules(rules); err != nil {
		return model.ClassificationRules{}, err
	}
	return rules, nil
}

// ValidateRules rejects documents without any inclusion rule.
func ValidateRules(rules model.ClassificationRules) error {
	if rules.IsEmpty() {
		return fmt.Errorf("%w: no code prefixes, name keywords or counter ledger keywords", ErrInvalidRules)
	}
	return nil
}

// LoadRules reads the rule file at path, or returns DefaultRules when path is empty.
func LoadRules(path string) (model.ClassificationRules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ClassificationRules{}, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return ParseRules(data)
}
