package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"rentdata/internal/model"

	"github.com/tidwall/jsonc"
)

// Document keys.
const (
	propertiesKey = "properties"
	rentDataKey   = "rentdata"
	petCountKey   = "petcount"

	bedsKey           = "beds"
	bathsKey          = "baths"
	depositKey        = "deposit"
	petDepositKey     = "petdeposit"
	petMonthlyKey     = "petmonthly"
	parkingMonthlyKey = "parkingmonthly"
	monthlyRentKey    = "monthlyrent"
	linkKey           = "link"
)

// Document is the decoded content of a rent data file.
type Document struct {
	// PetCount is nil when properties.petcount is missing or malformed.
	PetCount *int8
	// Entries are in file order. Derived fields are computed with a pet count of zero.
	Entries []model.Entry
	// Empty is true when the file had no top-level keys at all.
	Empty bool
}

// record is the on-disk shape of one entry; field order is the write order.
type record struct {
	Beds           int8    `json:"beds"`
	Baths          int8    `json:"baths"`
	Deposit        float64 `json:"deposit"`
	PetDeposit     float64 `json:"petdeposit"`
	PetMonthly     float64 `json:"petmonthly"`
	ParkingMonthly float64 `json:"parkingmonthly"`
	MonthlyRent    float64 `json:"monthlyrent"`
	Link           string  `json:"link"`
}

type namedRaw struct {
	name string
	raw  json.RawMessage
}

// Decode parses a rent data document. Comments and trailing commas are tolerated.
//
// The returned error is non-nil only when the document as a whole cannot be read.
// Records that are missing a key or carry a value of the wrong type are skipped;
// each one is reported in skipped.
func Decode(data []byte) (doc Document, skipped []error, err error) {
	data = bytes.TrimSpace(jsonc.ToJSON(data))
	if len(data) == 0 {
		return Document{Empty: true}, nil, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Document{}, nil, fmt.Errorf("parse rent data: %w", err)
	}
	if len(top) == 0 {
		return Document{Empty: true}, nil, nil
	}

	doc.PetCount = decodePetCount(top[propertiesKey])

	rows, err := decodeOrderedObject(top[rentDataKey])
	if err != nil {
		// Keep the properties; there are just no entries to load.
		skipped = append(skipped, fmt.Errorf("%s: %w", rentDataKey, err))
		rows = nil
	}
	doc.Entries = make([]model.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := decodeEntry(row.name, row.raw)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		doc.Entries = append(doc.Entries, e)
	}
	return doc, skipped, nil
}

func decodePetCount(raw json.RawMessage) *int8 {
	if len(raw) == 0 {
		return nil
	}
	var props map[string]json.RawMessage
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil
	}
	v, err := decodeInt8(props[petCountKey])
	if err != nil {
		return nil
	}
	return &v
}

// decodeOrderedObject returns the members of a JSON object in document order.
// A repeated key replaces the earlier value in place.
func decodeOrderedObject(raw json.RawMessage) ([]namedRaw, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected an object")
	}

	var out []namedRaw
	seen := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if i, dup := seen[key]; dup {
			out[i].raw = v
			continue
		}
		seen[key] = len(out)
		out = append(out, namedRaw{name: key, raw: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeEntry(name string, raw json.RawMessage) (model.Entry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return model.Entry{}, fmt.Errorf("entry %q: not an object", name)
	}

	lookup := func(key string) (json.RawMessage, error) {
		v, ok := fields[key]
		if !ok {
			return nil, fmt.Errorf("entry %q: missing %q", name, key)
		}
		return v, nil
	}
	intField := func(key string) (int8, error) {
		v, err := lookup(key)
		if err != nil {
			return 0, err
		}
		n, err := decodeInt8(v)
		if err != nil {
			return 0, fmt.Errorf("entry %q: %s: %w", name, key, err)
		}
		return n, nil
	}
	floatField := func(key string) (float64, error) {
		v, err := lookup(key)
		if err != nil {
			return 0, err
		}
		f, err := decodeFloat(v)
		if err != nil {
			return 0, fmt.Errorf("entry %q: %s: %w", name, key, err)
		}
		return f, nil
	}

	var (
		r   record
		err error
	)
	if r.Beds, err = intField(bedsKey); err != nil {
		return model.Entry{}, err
	}
	if r.Baths, err = intField(bathsKey); err != nil {
		return model.Entry{}, err
	}
	if r.Deposit, err = floatField(depositKey); err != nil {
		return model.Entry{}, err
	}
	if r.PetDeposit, err = floatField(petDepositKey); err != nil {
		return model.Entry{}, err
	}
	if r.PetMonthly, err = floatField(petMonthlyKey); err != nil {
		return model.Entry{}, err
	}
	if r.ParkingMonthly, err = floatField(parkingMonthlyKey); err != nil {
		return model.Entry{}, err
	}
	if r.MonthlyRent, err = floatField(monthlyRentKey); err != nil {
		return model.Entry{}, err
	}
	linkRaw, err := lookup(linkKey)
	if err != nil {
		return model.Entry{}, err
	}
	if err := json.Unmarshal(linkRaw, &r.Link); err != nil || string(bytes.TrimSpace(linkRaw)) == "null" {
		return model.Entry{}, fmt.Errorf("entry %q: %s: expected a string", name, linkKey)
	}

	return model.NewEntry(name, r.Beds, r.Baths, r.Deposit, r.PetDeposit, r.PetMonthly, r.ParkingMonthly, r.MonthlyRent, r.Link), nil
}

// decodeInt8 accepts integral JSON numbers in int8 range (2 and 2.0 both work).
func decodeInt8(raw json.RawMessage) (int8, error) {
	n, err := decodeNumber(raw)
	if err != nil {
		return 0, err
	}
	if v, err := strconv.ParseInt(n.String(), 10, 8); err == nil {
		return int8(v), nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt8 || f > math.MaxInt8 {
		return 0, fmt.Errorf("%s is not a small integer", n)
	}
	return int8(f), nil
}

func decodeFloat(raw json.RawMessage) (float64, error) {
	n, err := decodeNumber(raw)
	if err != nil {
		return 0, err
	}
	return n.Float64()
}

// decodeNumber accepts a bare JSON number. Quoted numbers are a type error.
func decodeNumber(raw json.RawMessage) (json.Number, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return "", errors.New("expected a number")
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || n == "" {
		return "", errors.New("expected a number")
	}
	return n, nil
}

// Encode renders the document with entries in list order.
//
// An entry that cannot be serialized (a non-finite amount, or a name already
// written) is left out and reported in failed; the rest are still written.
func Encode(petCount int8, entries []model.Entry) (data []byte, failed []error) {
	var buf bytes.Buffer
	buf.WriteString(`{"` + propertiesKey + `":{"` + petCountKey + `":`)
	buf.WriteString(strconv.Itoa(int(petCount)))
	buf.WriteString(`},"` + rentDataKey + `":{`)

	written := map[string]bool{}
	first := true
	for _, e := range entries {
		b, err := encodeEntry(e)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		if written[e.Name()] {
			failed = append(failed, fmt.Errorf("entry %q: duplicate name", e.Name()))
			continue
		}
		key, err := json.Marshal(e.Name())
		if err != nil {
			failed = append(failed, fmt.Errorf("entry %q: name: %w", e.Name(), err))
			continue
		}
		written[e.Name()] = true
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(b)
	}
	buf.WriteString("}}")

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		// Only reachable if the hand-built envelope is broken.
		return append(buf.Bytes(), '\n'), append(failed, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), failed
}

func encodeEntry(e model.Entry) ([]byte, error) {
	for _, f := range []model.Field{model.Deposit, model.PetDeposit, model.PetMonthly, model.ParkingMonthly, model.MonthlyRent} {
		v, _ := e.Float(f)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("entry %q: %s: cannot save %v", e.Name(), f.Key(), v)
		}
	}
	beds, _ := e.Int(model.Beds)
	baths, _ := e.Int(model.Baths)
	r := record{
		Beds:           beds,
		Baths:          baths,
		Deposit:        floatOf(e, model.Deposit),
		PetDeposit:     floatOf(e, model.PetDeposit),
		PetMonthly:     floatOf(e, model.PetMonthly),
		ParkingMonthly: floatOf(e, model.ParkingMonthly),
		MonthlyRent:    floatOf(e, model.MonthlyRent),
		Link:           e.Link(),
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", e.Name(), err)
	}
	return b, nil
}

func floatOf(e model.Entry, f model.Field) float64 {
	v, _ := e.Float(f)
	return v
}
