// Package fileimport reads tabular upload files (csv, xlsx, JSON) into header-keyed rows
// and validates their fields.
package fileimport

import (
	"strings"
	"unicode/utf8"
)

// Row is one data row keyed by normalized header, with its line in the source file
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the value of a column
func (r *Row) Get(column string) string {
	return r.Data[column]
}

// GetOrDefault returns the value of a column, or def when blank
func (r *Row) GetOrDefault(column, def string) string {
	if v := r.Data[column]; v != "" {
		return v
	}
	return def
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// headerAliases maps common spreadsheet headings to canonical column names
var headerAliases = map[string]string{
	"sku":           "article",
	"art":           "article",
	"article_no":    "article",
	"qty":           "quantity",
	"stock":         "quantity",
	"amount":        "price",
	"cost":          "price",
	"title":         "name",
	"promo":         "promo_price",
	"sale_price":    "promo_price",
	"promo_end":     "promo_ends_at",
	"promo_until":   "promo_ends_at",
	"promo_ends":    "promo_ends_at",
	"manufacturer":  "brand",
	"sub_category":  "subcategory",
	"label":         "badge",
	"currency_code": "currency",
}

// NormalizeHeader lower-cases a heading, joins words with '_' and resolves aliases
func NormalizeHeader(h string) string {
	h = strings.ToLower(trimSpaces(h))
	h = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.':
			return '_'
		}
		return r
	}, h)
	for strings.Contains(h, "__") {
		h = strings.ReplaceAll(h, "__", "_")
	}
	h = strings.Trim(h, "_")
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return h
}

// newRow zips headers with values; missing trailing values are blank
func newRow(line int, headers []string, values []string) *Row {
	row := &Row{Line: line, Data: make(map[string]string, len(headers))}
	for i, h := range headers {
		if h == "" {
			continue
		}
		v := ""
		if i < len(values) {
			v = trimSpaces(values[i])
		}
		row.Data[h] = v
	}
	return row
}

func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		headers[i] = NormalizeHeader(h)
	}
	return headers
}

// trimSpaces trims whitespace, including the non-breaking spaces spreadsheets like to emit
func trimSpaces(s string) string {
	start, end := 0, len(s)
	for start < end {
		r, size := utf8.DecodeRuneInString(s[start:])
		if !isWhitespace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		if !isWhitespace(r) {
			break
		}
		end -= size
	}
	return s[start:end]
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', '\u00a0', '\ufeff':
		return true
	}
	return false
}
