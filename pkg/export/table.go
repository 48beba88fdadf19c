// Package export writes flattened rows as a delimited table.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/transform"
)

// TableWriter writes a header line and one line per row, quoting fields
// only when they contain the delimiter, a quote or a line break.
type TableWriter struct {
	path      string
	delimiter rune
}

// NewTableWriter returns a writer for path. An empty delimiter means
// config.DefaultDelimiter; only the first rune of delimiter is used.
func NewTableWriter(path, delimiter string) *TableWriter {
	if delimiter == "" {
		delimiter = config.DefaultDelimiter
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	return &TableWriter{path: path, delimiter: r}
}

func (w *TableWriter) Path() string {
	return w.path
}

// Write replaces the table at the writer's path with rows.
func (w *TableWriter) Write(rows []transform.ExportRow) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = w.delimiter

	if err := cw.Write(transform.Header()); err != nil {
		return errors.WrapError(err, errors.ErrExport, "write header")
	}
	for i, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return errors.WrapError(err, errors.ErrExport, fmt.Sprintf("write row %d", i))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapError(err, errors.ErrExport, "flush table")
	}

	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapError(err, errors.ErrExport, "create table dir")
		}
	}
	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return errors.WrapError(err, errors.ErrExport, fmt.Sprintf("write %s", tmp))
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapError(err, errors.ErrExport, fmt.Sprintf("rename %s", tmp))
	}
	return nil
}
