// Package importer turns field-service job exports into a plan.MetricSummary.
//
// Exports come from many tools with many header spellings, so columns are
// found by sniffing normalized header names rather than by a fixed schema.
package importer

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// Format is the file format of an export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks a format from a file name. Unknown extensions are CSV.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// Table is a header row plus data rows. Rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns the value at (row, col) or "" when the row is short.
func (t Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// Read loads a table in the given format.
func Read(r io.Reader, format Format) (Table, error) {
	switch format {
	case FormatXLSX:
		return ReadXLSX(r)
	case FormatCSV:
		return ReadCSV(r)
	default:
		return Table{}, eris.Errorf("importer: unsupported format %q", format)
	}
}

// ReadCSV loads a CSV export. Blank lines are skipped.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, eris.Wrap(err, "importer: read csv")
	}
	return newTable(records)
}

// ReadXLSX loads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, eris.Wrap(err, "importer: open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, eris.New("importer: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, eris.Wrapf(err, "importer: read sheet %q", sheets[0])
	}
	return newTable(rows)
}

func newTable(records [][]string) (Table, error) {
	if len(records) == 0 {
		return Table{}, eris.New("importer: export has no header row")
	}

	t := Table{Header: records[0]}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
