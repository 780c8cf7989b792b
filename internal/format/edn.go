package format

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// WriteEDN writes a vector of maps with keyword keys. Unlike JSON, EDN can carry
// NaN and infinities (##NaN, ##Inf, ##-Inf).
func WriteEDN(w io.Writer, records []Record, pretty bool) error {
	var buf bytes.Buffer
	enc := ednEncoder{pretty: pretty, indent: 2}
	enc.writeVec(&buf, records)
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

type ednEncoder struct {
	pretty bool
	indent int
}

func (e ednEncoder) writeAny(buf *bytes.Buffer, v any) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("nil")
	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		buf.WriteString(strconv.Quote(t))
	case int:
		buf.WriteString(strconv.Itoa(t))
	case int8:
		buf.WriteString(strconv.Itoa(int(t)))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		e.writeFloat(buf, t)
	default:
		// Fallback: stringify.
		buf.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func (e ednEncoder) writeFloat(buf *bytes.Buffer, f float64) {
	switch {
	case math.IsNaN(f):
		buf.WriteString("##NaN")
	case math.IsInf(f, 1):
		buf.WriteString("##Inf")
	case math.IsInf(f, -1):
		buf.WriteString("##-Inf")
	default:
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".") {
			// Keep amounts as floats on read-back.
			s += ".0"
		}
		buf.WriteString(s)
	}
}

func (e ednEncoder) writeVec(buf *bytes.Buffer, records []Record) {
	buf.WriteByte('[')
	if len(records) == 0 {
		buf.WriteByte(']')
		return
	}
	if e.pretty {
		buf.WriteByte('\n')
	}
	for i, r := range records {
		if e.pretty {
			buf.WriteString(strings.Repeat(" ", e.indent))
		}
		e.writeMap(buf, r, 1)
		if i != len(records)-1 {
			if e.pretty {
				buf.WriteByte('\n')
			} else {
				buf.WriteByte(' ')
			}
		}
	}
	if e.pretty {
		buf.WriteByte('\n')
	}
	buf.WriteByte(']')
}

func (e ednEncoder) writeMap(buf *bytes.Buffer, r Record, level int) {
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			if e.pretty {
				buf.WriteByte('\n')
				buf.WriteString(strings.Repeat(" ", level*e.indent+1))
			} else {
				buf.WriteByte(' ')
			}
		}
		buf.WriteByte(':')
		buf.WriteString(ednKeyword(f.Key))
		buf.WriteByte(' ')
		e.writeAny(buf, f.Value)
	}
	buf.WriteByte('}')
}

// ednKeyword turns a record key into a kebab-case keyword name
// ("totalRent" -> "total-rent", "rent for 2" -> "rent-for-2").
func ednKeyword(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
