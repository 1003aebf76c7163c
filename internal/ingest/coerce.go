package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SerialEpoch is day zero for ledgers that store dates as day counts.
var SerialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxSerialDay is 9999-12-31 as a serial day.
const maxSerialDay = 2958465

var digitReplacer = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

var separatorReplacer = strings.NewReplacer(
	"٫", ".", "٬", "", ",", "", " ", "", "\u00a0", "",
)

// ParseAmount reads a ledger amount. The second return value is false when
// the input was present but unparsable; the amount is then zero.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := separatorReplacer.Replace(digitReplacer.Replace(strings.TrimSpace(raw)))
	if s == "" || s == "-" {
		return decimal.Zero, true
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
}

// ParseDate reads a ledger date. Bare numbers are day offsets from
// SerialEpoch. Anything else that fails to parse yields the zero time,
// which the aging allocator treats as maximally aged.
func ParseDate(raw string, loc *time.Location) time.Time {
	s := digitReplacer.Replace(strings.TrimSpace(raw))
	if s == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f <= 0 || f > maxSerialDay {
			return time.Time{}
		}
		days := math.Floor(f)
		frac := time.Duration((f - days) * float64(24*time.Hour))
		d := SerialEpoch.AddDate(0, 0, int(days)).Add(frac)
		return time.Date(d.Year(), d.Month(), d.Day(), d.Hour(), d.Minute(), d.Second(), 0, loc)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}
