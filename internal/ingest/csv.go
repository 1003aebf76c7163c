package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadLedgerCSV reads a ledger exported as CSV with a header row using the
// same column names as the XML export. Short rows are padded, never rejected.
func ReadLedgerCSV(r io.Reader, opts Options) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger csv headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = normalizeKey(strings.TrimPrefix(h, "\ufeff"))
	}

	res := &Result{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger csv row %d: %w", res.Rows+1, err)
		}

		current := make(row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				current[h] = record[i]
			}
		}
		res.add(current, opts)
	}
	return res, nil
}

// Read picks the reader from the file extension.
func Read(filename string, r io.Reader, opts Options) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xml":
		return ReadLedgerXML(r, opts)
	case ".csv":
		return ReadLedgerCSV(r, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}
