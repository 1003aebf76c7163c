package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerXML = `<?xml version="1.0" encoding="windows-1256"?>
<LedgerBook>
  <Row>
    <AcCode>1201005</AcCode>
    <LedgerName>مؤسسة الأفق</LedgerName>
    <AcLedger>إيرادات المبيعات</AcLedger>
    <Dr>1,250.50</Dr>
    <Cr></Cr>
    <Date>2026-01-15</Date>
    <VoucherName>Sales Invoice</VoucherName>
    <Narration>INV-1044</Narration>
  </Row>
  <Row>
    <LedgerName>مؤسسة الأفق</LedgerName>
    <AcLedger>مصرف الراجحي</AcLedger>
    <Dr>0</Dr>
    <Cr>abc</Cr>
    <Date>46050</Date>
    <Narration>مرتجع بضاعة</Narration>
  </Row>
  <Row>
    <LedgerName>Customer B</LedgerName>
    <Dr>-40</Dr>
    <Date>not a date</Date>
  </Row>
</LedgerBook>`

func TestReadLedgerXML(t *testing.T) {
	res, err := ReadLedgerXML(strings.NewReader(ledgerXML), Options{})
	require.NoError(t, err)

	require.Len(t, res.Transactions, 3)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 1, res.CoercedAmounts)
	assert.Equal(t, 1, res.UndatedRows)

	first := res.Transactions[0]
	assert.Equal(t, "1201005", first.AccountCode)
	assert.Equal(t, "مؤسسة الأفق", first.AccountName)
	assert.Equal(t, "إيرادات المبيعات", first.CounterLedger)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(first.Debit))
	assert.True(t, first.Credit.IsZero())
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "Sales Invoice", first.Voucher)

	second := res.Transactions[1]
	assert.True(t, second.Credit.IsZero(), "unparsable credit coerces to zero")
	assert.Equal(t, time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC), second.Date)
	assert.Equal(t, "مرتجع بضاعة", second.Narration)

	third := res.Transactions[2]
	assert.True(t, third.Debit.IsZero())
	assert.True(t, decimal.NewFromInt(40).Equal(third.Credit), "negative debit becomes credit")
	assert.False(t, third.HasDate())
}

func TestReadLedgerXML_Errors(t *testing.T) {
	_, err := ReadLedgerXML(strings.NewReader(""), Options{})
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = ReadLedgerXML(strings.NewReader("<LedgerBook><Row><Dr>1</Dr>"), Options{})
	assert.Error(t, err)
}

func TestReadLedgerCSV(t *testing.T) {
	data := "\ufeffAcCode,Ledger Name,AcLedger,Dr,Cr,Date,Narration\n" +
		"1201,Customer A,Sales,100,,2026-02-01,INV-1\n" +
		"1201,Customer A,Bank,,60,01/03/2026,receipt\n" +
		"1201,Customer A\n"

	res, err := ReadLedgerCSV(strings.NewReader(data), Options{})
	require.NoError(t, err)

	require.Len(t, res.Transactions, 3)
	assert.Equal(t, "Customer A", res.Transactions[0].AccountName)
	assert.Equal(t, "1201", res.Transactions[0].AccountCode)
	assert.True(t, decimal.NewFromInt(60).Equal(res.Transactions[1].Credit))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), res.Transactions[1].Date)
	assert.Equal(t, 1, res.UndatedRows)
}

func TestRead_DispatchesOnExtension(t *testing.T) {
	_, err := Read("ledger.pdf", strings.NewReader(""), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	res, err := Read("LedgerBook.XML", strings.NewReader(ledgerXML), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"", "0", true},
		{"1,234.56", "1234.56", true},
		{"١٢٣٫٥", "123.5", true},
		{"(250.00)", "-250", true},
		{" 75 ", "75", true},
		{"n/a", "0", false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%q -> %s", tt.raw, got)
	}
}

func TestParseDate(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*3600)

	assert.Equal(t, time.Date(2026, 1, 28, 0, 0, 0, 0, riyadh), ParseDate("46050", riyadh))
	assert.Equal(t, time.Date(2026, 1, 28, 12, 0, 0, 0, time.UTC), ParseDate("46050.5", nil))
	assert.Equal(t, time.Date(2025, 12, 31, 8, 30, 0, 0, time.UTC), ParseDate("2025-12-31 08:30:00", nil))
	assert.Equal(t, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), ParseDate("04/07/2025", nil))
	assert.True(t, ParseDate("", nil).IsZero())
	assert.True(t, ParseDate("-3", nil).IsZero())
	assert.True(t, ParseDate("yesterday", nil).IsZero())
}
