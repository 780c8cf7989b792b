package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Field is one key/value pair of an output record. Values are strings, bools,
// integers or float64.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered set of fields; keys are written in slice order.
type Record []Field

// Write writes records in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - yaml
func Write(w io.Writer, records []Record, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, records, pretty)
	case "edn":
		return WriteEDN(w, records, pretty)
	case "yaml", "yml":
		return WriteYAML(w, records)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes a JSON array of objects. Non-finite floats have no JSON
// representation and are written as null.
func WriteJSON(w io.Writer, records []Record, pretty bool) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, f := range r {
			if j > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			v, err := jsonValue(f.Value)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Key, err)
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	out := buf.Bytes()
	if pretty {
		var ind bytes.Buffer
		if err := json.Indent(&ind, out, "", "  "); err != nil {
			return err
		}
		out = ind.Bytes()
	}
	_, err := fmt.Fprintln(w, string(out))
	return err
}

func jsonValue(v any) ([]byte, error) {
	if f, ok := v.(float64); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	return json.Marshal(v)
}
