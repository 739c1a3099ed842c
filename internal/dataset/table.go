// Package dataset loads the pre-scraped TapsiFood CSV tables and the
// matched-vendors crosswalk into in-memory tables. Tables are loaded once at
// process start and are read-only afterwards; reloading is done by loading a
// fresh Snapshot and swapping the reference, never by mutating in place.
package dataset

import (
	"encoding/csv"
	"os"
	"strings"

	"menu-reconciler/internal/common/logger"
)

// Row is one record keyed by column name. Absent columns read as "".
type Row map[string]string

// Get returns the value for a column, or "" when the column is absent.
func (r Row) Get(key string) string {
	return r[key]
}

// GetDefault returns the value for a column, or def when absent or blank.
func (r Row) GetDefault(key, def string) string {
	if v, ok := r[key]; ok && v != "" {
		return v
	}
	return def
}

// Table is an immutable in-memory CSV table indexed by a vendor-code column.
type Table struct {
	columns []string
	rows    []Row
	byCode  map[string][]int
}

// EmptyTable returns a table with no rows. Used when a backing file is
// missing or fails column validation.
func EmptyTable() *Table {
	return &Table{byCode: map[string][]int{}}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the table carries a column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// RowsFor returns all rows whose vendor code equals the trimmed code, in
// file order.
func (t *Table) RowsFor(code string) []Row {
	code = strings.TrimSpace(code)
	idxs := t.byCode[code]
	rows := make([]Row, 0, len(idxs))
	for _, i := range idxs {
		rows = append(rows, t.rows[i])
	}
	return rows
}

// FirstFor returns the first row for the trimmed code.
func (t *Table) FirstFor(code string) (Row, bool) {
	rows := t.RowsFor(code)
	if len(rows) == 0 {
		return nil, false
	}
	return rows[0], true
}

// codeColumn is the canonical vendor-code column. legacyCodeColumn is the
// historical name still present in older menu exports and is renamed at load.
const (
	codeColumn       = "vendor_code"
	legacyCodeColumn = "tf_code"
)

// LoadTable reads a CSV file into a Table indexed by the vendor-code column.
// A missing file degrades to an empty table (warn-logged); a file without a
// vendor-code column degrades to an empty table (error-logged) so a
// misconfigured dataset never takes the process down.
func LoadTable(path, name string, log logger.Logger) *Table {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("dataset file not found, table unavailable", map[string]interface{}{
			"table": name,
			"path":  path,
		})
		return EmptyTable()
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.Error("failed to parse dataset CSV", map[string]interface{}{
			"table": name,
			"path":  path,
			"error": err.Error(),
		})
		return EmptyTable()
	}
	if len(records) == 0 {
		return EmptyTable()
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	codeIdx := -1
	for i, col := range header {
		if col == legacyCodeColumn {
			header[i] = codeColumn
		}
		if header[i] == codeColumn {
			codeIdx = i
		}
	}
	if codeIdx < 0 {
		log.Error("required vendor code column missing, table degraded to empty", map[string]interface{}{
			"table":  name,
			"path":   path,
			"column": codeColumn,
		})
		return EmptyTable()
	}

	t := &Table{
		columns: header,
		rows:    make([]Row, 0, len(records)-1),
		byCode:  make(map[string][]int),
	}

	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		row[codeColumn] = strings.TrimSpace(row[codeColumn])

		idx := len(t.rows)
		t.rows = append(t.rows, row)
		t.byCode[row[codeColumn]] = append(t.byCode[row[codeColumn]], idx)
	}

	log.Info("loaded dataset table", map[string]interface{}{
		"table": name,
		"path":  path,
		"rows":  t.Len(),
	})
	return t
}
