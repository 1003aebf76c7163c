package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrEmptyDocument     = errors.New("ledger document is empty")
	ErrUnsupportedFormat = errors.New("unsupported ledger format, expected .xml or .csv")
)

// ReadLedgerXML reads a LedgerBook export: a root element whose children
// are rows, each row holding one element per field.
func ReadLedgerXML(r io.Reader, opts Options) (*Result, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		// Exports declare legacy code pages but are written as UTF-8.
		return input, nil
	}

	res := &Result{}
	depth := 0
	sawRoot := false
	var current row
	var field string
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger xml at row %d: %w", res.Rows+1, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			sawRoot = true
			switch depth {
			case 2:
				current = row{}
				for _, attr := range t.Attr {
					current[normalizeKey(attr.Name.Local)] = attr.Value
				}
			case 3:
				field = normalizeKey(t.Name.Local)
				text.Reset()
			}
		case xml.CharData:
			if depth == 3 {
				text.Write(t)
			}
		case xml.EndElement:
			switch depth {
			case 3:
				current[field] = text.String()
			case 2:
				res.add(current, opts)
				current = nil
			}
			depth--
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("failed to read ledger xml: unexpected end of document")
	}
	if !sawRoot {
		return nil, ErrEmptyDocument
	}
	return res, nil
}
