package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultMinFields is the fewest non-blank cells a data row needs.
const DefaultMinFields = 5

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	ErrNoData = errors.New("file has no data rows")
)

// Decoded holds import rows re-ordered to the expected columns. Unmatched
// columns are empty strings in every row.
type Decoded struct {
	Rows     [][]string
	Rejected int
	Mapping  []int
}

// ReadCSV decodes comma-separated input. A leading UTF-8 BOM is ignored and
// blank lines are skipped. Rows that cannot be parsed or have fewer than
// minFields non-blank cells are counted as rejected; an input without a
// header and at least one data row fails as a whole.
func ReadCSV(r io.Reader, columns []Column, minFields int) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var header []string
	records := make([][]string, 0)
	broken := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if header != nil && errors.As(err, &pe) {
				broken++
				continue
			}
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		if blankRecord(rec) {
			continue
		}
		if header == nil {
			header = rec
			continue
		}
		records = append(records, rec)
	}

	if header == nil || len(records)+broken == 0 {
		return nil, ErrNoData
	}

	out := decode(header, records, columns, minFields)
	out.Rejected += broken
	return out, nil
}

// ReadXLSX decodes the first sheet of a workbook the same way as ReadCSV.
func ReadXLSX(r io.Reader, columns []Column, minFields int) (*Decoded, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}

	var header []string
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if blankRecord(row) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		records = append(records, row)
	}
	if header == nil || len(records) == 0 {
		return nil, ErrNoData
	}
	return decode(header, records, columns, minFields), nil
}

func decode(header []string, records [][]string, columns []Column, minFields int) *Decoded {
	if minFields <= 0 {
		minFields = DefaultMinFields
	}
	mapping := MapHeader(header, columns)
	out := &Decoded{Rows: make([][]string, 0, len(records)), Mapping: mapping}

	for _, rec := range records {
		if filledCells(rec) < minFields {
			out.Rejected++
			continue
		}
		row := make([]string, len(columns))
		for ci, hi := range mapping {
			if hi >= 0 && hi < len(rec) {
				row[ci] = strings.TrimSpace(rec[hi])
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func blankRecord(rec []string) bool {
	return filledCells(rec) == 0
}

func filledCells(rec []string) int {
	n := 0
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
