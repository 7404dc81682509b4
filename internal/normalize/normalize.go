// Package normalize coerces loosely-typed image-collection values into the
// canonical []string shape the API serves. The upstream table predates any
// migration of the image_link column, so a single row may carry the value as
// SQL NULL, a native array, a JSON-encoded array string, or a bare URL
// string; this package papers over that drift at the hydration boundary.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errTrailingData = errors.New("trailing data after JSON value")

// shape is decided once per input; everything after is one switch.
type shape int

const (
	shapeAbsent shape = iota
	shapeSequence
	shapeText
	shapeOther
)

type field struct {
	kind shape
	seq  []any
	text string
}

func classify(v any) field {
	switch x := v.(type) {
	case nil:
		return field{kind: shapeAbsent}
	case []string:
		seq := make([]any, len(x))
		for i, s := range x {
			seq[i] = s
		}
		return field{kind: shapeSequence, seq: seq}
	case []any:
		return field{kind: shapeSequence, seq: x}
	case string:
		return field{kind: shapeText, text: x}
	default:
		return field{kind: shapeOther}
	}
}

// Images returns the canonical image list for a raw field value. The "no
// images" sentinel is the empty slice, never nil: absent values, blank or
// "null" strings, and unexpected types (numbers, booleans, objects) all map
// to it. Images never fails; one malformed row must not abort a batch
// response, so malformed JSON degrades to a single-element list holding the
// original text.
func Images(v any) []string {
	f := classify(v)
	switch f.kind {
	case shapeAbsent:
		return []string{}

	case shapeSequence:
		out := make([]string, len(f.seq))
		for i, it := range f.seq {
			out[i] = coerceString(it)
		}
		return out

	case shapeText:
		s := strings.TrimSpace(f.text)
		if s == "" || strings.EqualFold(s, "null") {
			return []string{}
		}
		parsed, err := decodeJSON(s)
		if err != nil {
			return []string{s}
		}
		if arr, ok := parsed.([]any); ok {
			out := make([]string, len(arr))
			for i, it := range arr {
				out[i] = coerceString(it)
			}
			return out
		}
		// valid JSON but not an array: keep the raw text, not the parsed value
		return []string{s}

	default:
		return []string{}
	}
}

// decodeJSON keeps numbers as json.Number so "[1,2]" round-trips to the
// exact digits "1","2" rather than float formatting.
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Decode stops after the first value, so `["a"] junk` would slip through
	// as a valid array. The whole string has to be one JSON document.
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return v, nil
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
