package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is a page of list results.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Pagination is the nested pagination block some endpoints emit.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// UnmarshalJSON accepts both list shapes the API emits:
//
//	{"data": [...], "total": n, "page": p, "limit": l, "totalPages": t}
//	{"<entityPlural>": [...], "pagination": {"total": n, ...}}
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("decode page: %w", err)
	}

	rows, err := pageRows(b, fields)
	if err != nil {
		return err
	}

	var out Page[T]
	if len(rows) > 0 && !bytes.Equal(rows, []byte("null")) {
		if err := json.Unmarshal(rows, &out.Data); err != nil {
			return fmt.Errorf("decode page rows: %w", err)
		}
	}

	var meta Pagination
	if raw, ok := fields["pagination"]; ok {
		if err := json.Unmarshal(raw, &meta); err != nil {
			return fmt.Errorf("decode pagination: %w", err)
		}
	} else {
		if err := json.Unmarshal(b, &meta); err != nil {
			return fmt.Errorf("decode pagination: %w", err)
		}
	}
	out.Total = meta.Total
	out.Page = meta.Page
	out.Limit = meta.Limit
	out.TotalPages = meta.TotalPages
	if out.TotalPages == 0 && out.Limit > 0 {
		out.TotalPages = (out.Total + out.Limit - 1) / out.Limit
	}
	if out.Data == nil {
		out.Data = []T{}
	}

	*p = out
	return nil
}

// pageRows picks the row array: "data" when present, otherwise the first
// array of objects in document order. Arrays of scalars, such as status
// lists sent next to the rows, are skipped. An empty array is used only when
// no array of objects exists.
func pageRows(b []byte, fields map[string]json.RawMessage) (json.RawMessage, error) {
	if raw, ok := fields["data"]; ok {
		return raw, nil
	}

	keys, err := objectKeys(b)
	if err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}

	var empty json.RawMessage
	for _, k := range keys {
		raw := bytes.TrimSpace(fields[k])
		if len(raw) == 0 || raw[0] != '[' {
			continue
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, fmt.Errorf("decode page rows: %w", err)
		}
		if len(elems) == 0 {
			if empty == nil {
				empty = raw
			}
			continue
		}
		if first := bytes.TrimSpace(elems[0]); len(first) > 0 && first[0] == '{' {
			return raw, nil
		}
	}
	return empty, nil
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(b []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
