// Package metadata parses the sample metadata tables that drive
// relabeling and validation. Two shapes exist in the pipeline: the
// curated table with a header row, a declared-type row and data rows
// (Parse), and the plain header-plus-data table where a type row may
// or may not be present (ParsePlain).
package metadata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
)

// StructuralParseError reports a malformed table shape. Row is the
// 1-based row number in the source file, or 0 when the defect is not
// tied to a single row.
type StructuralParseError struct {
	Row    int
	Reason string
}

func (e StructuralParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("Metadata row %d %s", e.Row, e.Reason)
	}

	return "Metadata " + e.Reason
}

// MissingColumnError reports a required column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("Metadata must contain a '%s' column", e.Column)
}

// Row is one data row, with its 1-based row number in the source file
// and its cell values keyed by header column name.
type Row struct {
	Line   int
	Values map[string]string
}

// Table is a parsed metadata table. Types is nil for tables read with
// ParsePlain. LabelColumn and AccessionColumn hold the header spelling
// of the resolved columns; either may be empty for plain tables.
type Table struct {
	Header          []string
	Types           []string
	Rows            []Row
	LabelColumn     string
	AccessionColumn string
}

// HasColumn reports whether the header contains the exact column name.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Header {
		if col == name {
			return true
		}
	}

	return false
}

// The declared types a type row may carry when it is auto-detected in
// a plain table. The strictly validated subset lives with the
// validator.
var typeRowTags = map[string]bool{
	"character": true,
	"numeric":   true,
	"integer":   true,
	"date":      true,
	"factor":    true,
	"logical":   true,
}

// Parse reads the curated metadata shape: a header row, a type row and
// at least one data row. Header and type row must have the same column
// count, and the header must contain label and accession columns
// (case-insensitive). Data rows shorter than the header are padded
// with empty cells; rows longer than the header fail. Rows whose cells
// are all empty are skipped. Cell values are whitespace-trimmed. The
// type row is recorded lowercased but not restricted to any tag set
// here.
func Parse(r io.Reader) (*Table, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, err
	}

	if len(records) < 3 {
		return nil, StructuralParseError{Reason: "must contain header + type row + at least one data row"}
	}

	t := &Table{
		Header: trimmed(records[0]),
		Types:  lowered(trimmed(records[1])),
	}
	if len(t.Header) != len(t.Types) {
		return nil, StructuralParseError{Reason: "header and type row have different column counts"}
	}

	for _, required := range []string{"label", "accession"} {
		col, ok := findFold(t.Header, required)
		if !ok {
			return nil, MissingColumnError{Column: required}
		}
		if required == "label" {
			t.LabelColumn = col
		} else {
			t.AccessionColumn = col
		}
	}

	for i, record := range records[2:] {
		row, err := t.dataRow(i+3, record, true)
		if err != nil {
			return nil, err
		}
		if row != nil {
			t.Rows = append(t.Rows, *row)
		}
	}

	if len(t.Rows) == 0 {
		return nil, StructuralParseError{Reason: "has no data rows after filtering empty rows"}
	}

	return t, nil
}

// ParsePlain reads a header row followed by data rows. When the first
// data row consists entirely of declared-type tags it is treated as a
// type row and dropped; the second return value reports whether that
// happened. Cell values are kept verbatim.
func ParsePlain(r io.Reader) (*Table, bool, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, false, err
	}

	if len(records) < 1 {
		return nil, false, StructuralParseError{Reason: "must contain a header row"}
	}

	t := &Table{Header: records[0]}
	if t.HasColumn("label") {
		t.LabelColumn = "label"
	}

	data := records[1:]
	droppedTypeRow := false
	if len(data) > 0 && isTypeRow(data[0]) {
		data = data[1:]
		droppedTypeRow = true
	}

	firstLine := 2
	if droppedTypeRow {
		firstLine = 3
	}
	for i, record := range data {
		row, err := t.dataRow(firstLine+i, record, false)
		if err != nil {
			return nil, false, err
		}
		if row != nil {
			t.Rows = append(t.Rows, *row)
		}
	}

	return t, droppedTypeRow, nil
}

// dataRow pads a short record to the header width, rejects a long one,
// and skips records whose cells are all empty.
func (t *Table) dataRow(line int, record []string, trim bool) (*Row, error) {
	if len(record) > len(t.Header) {
		return nil, StructuralParseError{Row: line, Reason: "has more columns than header"}
	}

	values := make(map[string]string, len(t.Header))
	empty := true
	for i, col := range t.Header {
		v := ""
		if i < len(record) {
			v = record[i]
			if trim {
				v = strings.TrimSpace(v)
			}
		}
		if v != "" {
			empty = false
		}
		values[col] = v
	}
	if empty {
		return nil, nil
	}

	return &Row{Line: line, Values: values}, nil
}

func readAll(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	return records, nil
}

func isTypeRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	for _, cell := range record {
		if !typeRowTags[strings.ToLower(strings.TrimSpace(cell))] {
			return false
		}
	}

	return true
}

// findFold locates a column case-insensitively and returns its header
// spelling. The first match wins.
func findFold(header []string, name string) (string, bool) {
	for _, col := range header {
		if strings.EqualFold(col, name) {
			return col, true
		}
	}

	return "", false
}

func trimmed(record []string) []string {
	out := make([]string, len(record))
	for i, cell := range record {
		out[i] = strings.TrimSpace(cell)
	}

	return out
}

func lowered(record []string) []string {
	out := make([]string, len(record))
	for i, cell := range record {
		out[i] = strings.ToLower(cell)
	}

	return out
}
