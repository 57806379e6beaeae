// Package dataset loads the dashboard's tabular datasets from CSV or XLSX
// files and the region boundaries from GeoJSON.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Table is a header row plus string cells, as read from a file.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
	index   map[string]int
}

func newTable(name string, rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", domain.ErrDataShape, name)
	}
	t := &Table{Name: name, index: make(map[string]int, len(rows[0]))}
	for i, h := range rows[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Headers = append(t.Headers, h)
		t.index[h] = i
	}
	for _, r := range rows[1:] {
		if isBlank(r) {
			continue
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

// ReadTable reads a .csv or .xlsx file. XLSX files are read from their first sheet.
func ReadTable(path string) (*Table, error) {
	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path, name)
	case ".xlsx":
		return readXLSX(path, name)
	default:
		return nil, fmt.Errorf("unsupported dataset file type: %s", path)
	}
}

func readCSV(path, name string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return newTable(name, rows)
}

func readXLSX(path, name string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", domain.ErrDataShape, name)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return newTable(name, rows)
}

// Require returns the column indexes of names, or ErrDataShape naming the
// first missing column.
func (t *Table) Require(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		j, ok := t.index[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no %q column", domain.ErrDataShape, t.Name, n)
		}
		idx[i] = j
	}
	return idx, nil
}

// Cell returns a trimmed cell; short rows yield "".
func (t *Table) Cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Float parses a numeric cell; thousands separators are accepted. A blank
// cell is an ErrDataShape error, never zero.
func (t *Table) Float(row []string, col int) (float64, error) {
	s := strings.ReplaceAll(t.Cell(row, col), ",", "")
	if s == "" {
		return 0, fmt.Errorf("%w: %s column %q: blank cell", domain.ErrDataShape, t.Name, t.Headers[col])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s column %q: %q is not a number", domain.ErrDataShape, t.Name, t.Headers[col], s)
	}
	return v, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
