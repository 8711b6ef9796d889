// Package dataset models the tabular input as an in-memory table with a
// source column and a translated column. Any other columns pass through
// untouched and rows keep their original order.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/oukeidos/batrans/internal/apperrors"
)

const (
	// SummaryColumn holds the source text to translate.
	SummaryColumn = "summary"
	// TranslatedColumn receives translations and failure markers. It is
	// appended to the header when the input does not already carry it.
	TranslatedColumn = "translated_summary"
)

// Dataset is a parsed table. The done flags track which rows were produced
// by this run or loaded already-translated, so an intentionally empty
// translation still counts as processed.
type Dataset struct {
	header        []string
	rows          [][]string
	summaryCol    int
	translatedCol int
	done          []bool
}

// Load reads and parses a CSV file from disk.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ds, nil
}

// Parse reads a CSV table. The header must contain the summary column; the
// translated column is appended when absent. Rows whose translated cell is
// already non-empty are marked done so a resumed run skips them.
func Parse(r io.Reader) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, apperrors.BadRequest(fmt.Errorf("reading csv: %w", err))
	}
	if len(records) == 0 {
		return nil, apperrors.BadRequest(fmt.Errorf("csv input has no header row"))
	}

	header := records[0]
	summaryCol := columnIndex(header, SummaryColumn)
	if summaryCol < 0 {
		return nil, apperrors.BadRequest(fmt.Errorf("csv input has no %q column", SummaryColumn))
	}
	translatedCol := columnIndex(header, TranslatedColumn)
	if translatedCol < 0 {
		header = append(append([]string{}, header...), TranslatedColumn)
		translatedCol = len(header) - 1
	}

	rows := make([][]string, 0, len(records)-1)
	done := make([]bool, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
		done = append(done, row[translatedCol] != "")
	}

	return &Dataset{
		header:        header,
		rows:          rows,
		summaryCol:    summaryCol,
		translatedCol: translatedCol,
		done:          done,
	}, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Summary returns the source text of row i.
func (d *Dataset) Summary(i int) string {
	return d.rows[i][d.summaryCol]
}

// Translated returns the current content of the translated cell of row i.
func (d *Dataset) Translated(i int) string {
	return d.rows[i][d.translatedCol]
}

// Pending reports whether row i still needs translating.
func (d *Dataset) Pending(i int) bool {
	return !d.done[i]
}

// SetTranslated stores value in the translated cell of row i and marks the
// row done, even when value is empty.
func (d *Dataset) SetTranslated(i int, value string) {
	d.rows[i][d.translatedCol] = value
	d.done[i] = true
}

// Done reports whether row i has a recorded outcome.
func (d *Dataset) Done(i int) bool {
	return d.done[i]
}

// Bytes serializes the table back to CSV, header first, rows in their
// original order.
func (d *Dataset) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(d.header); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range d.rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}
