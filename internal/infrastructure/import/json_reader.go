package fileimport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ReadJSON reads a JSON array of flat objects. Keys are normalized like csv headers;
// numbers keep their literal text so prices are not rounded through float64.
// Line is the 1-based position of the object in the array.
func ReadJSON(r io.Reader) ([]*Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	rows := make([]*Row, 0, len(objects))
	for i, obj := range objects {
		row := &Row{Line: i + 1, Data: make(map[string]string, len(obj))}
		for k, v := range obj {
			s, err := scalarString(v)
			if err != nil {
				return nil, fmt.Errorf("%w: element %d, key %q: %v", ErrInvalidFile, i+1, k, err)
			}
			row.Data[NormalizeHeader(k)] = trimSpaces(s)
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(t)
		return "", fmt.Errorf("nested value %s", bytes.TrimSpace(buf.Bytes()))
	}
}
