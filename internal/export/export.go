// Package export renders canonical menu rows as CSV documents and names the
// export files. Documents carry a UTF-8 BOM so spreadsheet tools detect the
// encoding of the Persian text.
package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"menu-reconciler/internal/menu"
)

// Platform prefixes used in export filenames.
const (
	PrefixSnappfood = "sf"
	PrefixTapsifood = "tf"
)

const timestampLayout = "20060102_150405"

// Render produces the CSV document for rows: BOM, canonical header, one
// record per row, minimal quoting.
func Render(rows []menu.MenuItemRow) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(menu.Columns); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write(row.Record()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Filename builds "<prefix>_menu_<code>_<timestamp>.csv". Non-alphanumeric
// runes are stripped from the vendor code so the name is filesystem-safe.
func Filename(prefix, vendorCode string, now time.Time) string {
	var code strings.Builder
	for _, r := range vendorCode {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			code.WriteRune(r)
		}
	}
	return prefix + "_menu_" + code.String() + "_" + now.Format(timestampLayout) + ".csv"
}

// WriteFile writes an already rendered document into dir, creating the
// directory if needed, and returns the full path.
func WriteFile(dir, filename, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
