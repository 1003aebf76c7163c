package model

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateRulesRequest is the body of PUT /rules
type UpdateRulesRequest struct {
	CodePrefixes          []string `json:"code_prefixes"`
	NameKeywords          []string `json:"name_keywords"`
	CounterLedgerKeywords []string `json:"counter_ledger_keywords"`
	Exclusions            []string `json:"exclusions"`
	ReturnKeywords        []string `json:"return_keywords"`
}

// Rules converts the request into an unversioned rule document.
func (r UpdateRulesRequest) Rules() ClassificationRules {
	return ClassificationRules{
		CodePrefixes:          r.CodePrefixes,
		NameKeywords:          r.NameKeywords,
		CounterLedgerKeywords: r.CounterLedgerKeywords,
		Exclusions:            r.Exclusions,
		ReturnKeywords:        r.ReturnKeywords,
	}
}
