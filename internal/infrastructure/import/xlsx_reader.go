package fileimport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first worksheet of a workbook. The first non-blank row is the header.
// Line numbers are spreadsheet row numbers.
func ReadXLSX(r io.Reader) ([]*Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	headerIdx := -1
	for i, rec := range records {
		if !blank(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptyFile
	}
	headers := normalizeHeaders(records[headerIdx])

	rows := make([]*Row, 0, len(records)-headerIdx-1)
	for i := headerIdx + 1; i < len(records); i++ {
		row := newRow(i+1, headers, records[i])
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(values []string) bool {
	for _, v := range values {
		if trimSpaces(v) != "" {
			return false
		}
	}
	return true
}
