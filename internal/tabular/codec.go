// Package tabular decodes delimited text into datasets and re-encodes
// datasets back into delimited text.
//
// The parser is hand-written rather than built on encoding/csv because the
// decode rules need to know whether a field was quoted: unquoted fields are
// trimmed of surrounding whitespace, quoted fields are preserved verbatim.
// encoding/csv discards that distinction before the caller sees the field.
package tabular

import (
	"strings"

	"sheetline/internal/domain"
)

// DefaultDelimiter is used when no delimiter is declared and sniffing
// finds nothing better.
const DefaultDelimiter = ','

// sniffCandidates are the delimiters considered by Sniff, in priority
// order for ties.
var sniffCandidates = []rune{',', ';', '\t', '|'}

// Sniff guesses the delimiter from the first line of text by counting
// candidate characters outside quoted regions. Returns DefaultDelimiter
// when the first line contains none of the candidates.
func Sniff(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}

	counts := make(map[rune]int, len(sniffCandidates))
	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}

	best := DefaultDelimiter
	bestCount := 0
	for _, c := range sniffCandidates {
		if counts[c] > bestCount {
			best = c
			bestCount = counts[c]
		}
	}
	return best
}

// Decode parses delimited text into a dataset. The first row is the header;
// each subsequent non-empty line becomes one Row keyed by the header names.
//
// Quoted fields may contain the delimiter, newlines, and doubled quote
// characters. Unquoted fields are trimmed of surrounding whitespace.
//
// A data row with fewer fields than the header is padded with empty
// strings. A row with more fields than the header, or unbalanced quoting,
// is a MalformedInputError.
func Decode(text string, delimiter rune) (*domain.Dataset, error) {
	records, err := parse(text, delimiter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrMalformedInput("input has no header row")
	}

	columns := records[0]
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, domain.ErrMalformedInput("duplicate column %q in header", c)
		}
		seen[c] = true
	}

	rows := make([]domain.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) > len(columns) {
			return nil, domain.ErrMalformedInput(
				"row %d has %d fields, header has %d", i+2, len(rec), len(columns))
		}
		row := make(domain.Row, len(columns))
		for j, col := range columns {
			if j < len(rec) {
				row[col] = rec[j]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return &domain.Dataset{Columns: columns, Rows: rows}, nil
}

// Encode renders the dataset as delimited text: a header line from
// ds.Columns, then one line per row in that exact column order. Fields
// containing the delimiter, a quote, a newline, or surrounding whitespace
// are quoted, with embedded quotes doubled.
func Encode(ds *domain.Dataset, delimiter rune) string {
	var b strings.Builder

	writeRecord := func(fields []string) {
		for i, f := range fields {
			if i > 0 {
				b.WriteRune(delimiter)
			}
			b.WriteString(encodeField(f, delimiter))
		}
		b.WriteString("\n")
	}

	writeRecord(ds.Columns)
	fields := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, col := range ds.Columns {
			fields[i] = row[col]
		}
		writeRecord(fields)
	}
	return b.String()
}

// encodeField quotes a field when leaving it bare would change its meaning
// on decode. Surrounding whitespace forces quoting because decode trims
// unquoted fields.
func encodeField(f string, delimiter rune) string {
	needsQuote := strings.ContainsRune(f, delimiter) ||
		strings.ContainsAny(f, "\"\n\r") ||
		(f != "" && (f != strings.TrimSpace(f)))
	if !needsQuote {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

// parse splits text into records of fields, honoring quoting.
func parse(text string, delimiter rune) ([][]string, error) {
	var (
		records  [][]string
		fields   []string
		field    strings.Builder
		quoted   bool // current field was opened with a quote
		inQuotes bool // currently inside a quoted region
	)

	endField := func() {
		v := field.String()
		if !quoted {
			v = strings.TrimSpace(v)
		}
		fields = append(fields, v)
		field.Reset()
		quoted = false
	}
	endRecord := func() {
		endField()
		// Skip blank lines: a single empty unquoted field.
		if len(fields) == 1 && fields[0] == "" {
			fields = nil
			return
		}
		records = append(records, fields)
		fields = nil
	}

	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case inQuotes:
			if r == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i += 2
					continue
				}
				inQuotes = false
				i++
				continue
			}
			field.WriteRune(r)
			i++
		case r == '"' && strings.TrimSpace(field.String()) == "" && !quoted:
			// Opening quote: only at the (whitespace-skipped) start of a field.
			field.Reset()
			quoted = true
			inQuotes = true
			i++
		case r == delimiter:
			endField()
			i++
		case r == '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			endRecord()
			i++
		case r == '\n':
			endRecord()
			i++
		default:
			field.WriteRune(r)
			i++
		}
	}

	if inQuotes {
		return nil, domain.ErrMalformedInput("unbalanced quote in record %d", len(records)+1)
	}
	// Final record without trailing newline.
	if field.Len() > 0 || quoted || len(fields) > 0 {
		endRecord()
	}

	return records, nil
}
