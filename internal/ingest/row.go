package ingest

import (
	"strings"
	"time"

	"receivables_monitor/internal/model"
)

// Options controls how rows are converted into transactions.
type Options struct {
	// Location is used for dates without an explicit zone. Defaults to UTC.
	Location *time.Location
}

// Result is a normalized ledger plus counters for coerced fields.
type Result struct {
	Transactions   []model.Transaction
	Rows           int
	CoercedAmounts int
	UndatedRows    int
}

// fieldAliases maps a canonical field to the column names seen in exports.
var fieldAliases = map[string][]string{
	"code":      {"accode", "ledgercode", "accountcode", "code"},
	"name":      {"ledgername", "accountname", "account", "name"},
	"counter":   {"acledger", "counterledger", "contraaccount"},
	"debit":     {"dr", "debit"},
	"credit":    {"cr", "credit"},
	"date":      {"date", "voucherdate", "trdate", "transactiondate"},
	"voucher":   {"vouchername", "vouchertype", "voucher"},
	"narration": {"narration", "remarks", "description", "memo"},
}

var keyReplacer = strings.NewReplacer("_", "", "-", "", " ", "")

func normalizeKey(k string) string {
	return keyReplacer.Replace(strings.ToLower(strings.TrimSpace(k)))
}

// row holds one source record keyed by normalized column name.
type row map[string]string

func (r row) get(field string) string {
	for _, alias := range fieldAliases[field] {
		if v, ok := r[alias]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func (res *Result) add(r row, opts Options) {
	res.Rows++

	dr, ok := ParseAmount(r.get("debit"))
	if !ok {
		res.CoercedAmounts++
	}
	cr, ok := ParseAmount(r.get("credit"))
	if !ok {
		res.CoercedAmounts++
	}
	date := ParseDate(r.get("date"), opts.Location)
	if date.IsZero() {
		res.UndatedRows++
	}

	txn := model.NewTransaction(r.get("code"), r.get("name"), dr, cr, date)
	txn.CounterLedger = r.get("counter")
	txn.Voucher = r.get("voucher")
	txn.Narration = r.get("narration")
	res.Transactions = append(res.Transactions, txn)
}
