package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one side of a ledger posting as seen from AccountName.
// A zero Date means the source date was missing or unparsable.
type Transaction struct {
	AccountCode   string          `json:"account_code"`
	AccountName   string          `json:"account_name"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Date          time.Time       `json:"date"`
	Voucher       string          `json:"voucher,omitempty"`
	Narration     string          `json:"narration,omitempty"`
	CounterLedger string          `json:"counter_ledger,omitempty"` // AcLedger in the LedgerBook export
}

// NewTransaction builds a Transaction keeping debit and credit non-negative.
// A negative amount is moved to the opposite side.
func NewTransaction(code, name string, debit, credit decimal.Decimal, date time.Time) Transaction {
	if debit.IsNegative() {
		credit = credit.Add(debit.Neg())
		debit = decimal.Zero
	}
	if credit.IsNegative() {
		debit = debit.Add(credit.Neg())
		credit = decimal.Zero
	}
	return Transaction{
		AccountCode: code,
		AccountName: name,
		Debit:       debit,
		Credit:      credit,
		Date:        date,
	}
}

// HasDate reports whether the transaction carries a usable date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// LedgerSnapshot describes one uploaded ledger file.
type LedgerSnapshot struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	UploadedBy     int       `json:"uploaded_by"`
	Rows           int       `json:"rows"`
	CoercedAmounts int       `json:"coerced_amounts"`
	UndatedRows    int       `json:"undated_rows"`
	CreatedAt      time.Time `json:"created_at"`
}
