package fileimport

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format is an upload file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// DetectFormat picks the format from the file extension, then the content type
func DetectFormat(fileName, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	}
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "spreadsheetml"):
		return FormatXLSX, nil
	case strings.Contains(ct, "json"):
		return FormatJSON, nil
	case strings.Contains(ct, "csv"), strings.HasPrefix(ct, "text/plain"):
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
}

// ReadRows reads every non-blank data row of a file. maxRows > 0 rejects larger files.
func ReadRows(format Format, r io.Reader, maxRows int) ([]*Row, error) {
	var rows []*Row
	var err error
	switch format {
	case FormatCSV:
		var p *CSVParser
		p, err = NewCSVParser(r)
		if err != nil {
			return nil, err
		}
		if err = p.ParseHeader(); err != nil {
			return nil, err
		}
		rows, err = p.ReadAllRows()
	case FormatXLSX:
		rows, err = ReadXLSX(r)
	case FormatJSON:
		rows, err = ReadJSON(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	if maxRows > 0 && len(rows) > maxRows {
		return nil, fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, len(rows), maxRows)
	}
	return rows, nil
}
