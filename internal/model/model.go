package model

import (
	"math"
	"strings"
)

// DefaultEntryName is the placeholder name of an entry built by DefaultEntry.
const DefaultEntryName = "Enter name here"

// Entry is one rental property listing.
//
// Input attributes are set through the typed setters; the derived attributes
// (TotalRent, RentFor2..4) are only ever written by Calculate.
type Entry struct {
	name string
	link string

	beds  int8
	baths int8

	deposit        float64
	petDeposit     float64
	petMonthly     float64
	parkingMonthly float64
	monthlyRent    float64

	totalRent float64
	rentFor2  float64
	rentFor3  float64
	rentFor4  float64
}

// NewEntry builds an entry and computes its derived fields with a pet count of zero.
func NewEntry(
	name string,
	beds, baths int8,
	deposit, petDeposit, petMonthly, parkingMonthly, monthlyRent float64,
	link string,
) Entry {
	e := Entry{
		name:           name,
		link:           link,
		beds:           beds,
		baths:          baths,
		deposit:        deposit,
		petDeposit:     petDeposit,
		petMonthly:     petMonthly,
		parkingMonthly: parkingMonthly,
		monthlyRent:    monthlyRent,
	}
	e.Calculate(0)
	return e
}

// DefaultEntry returns the placeholder entry used for "add entry".
func DefaultEntry() Entry {
	return NewEntry(DefaultEntryName, 0, 0, 0, 0, 0, 0, 0, "")
}

// Calculate recomputes the derived fields for the given pet count.
//
// Each split re-adds parking for the other occupants on top of a total that
// already carries one parking share.
func (e *Entry) Calculate(petCount int8) {
	e.totalRent = e.monthlyRent + e.petMonthly*float64(petCount) + e.parkingMonthly
	e.rentFor2 = e.totalRent/2 + e.parkingMonthly
	e.rentFor3 = e.totalRent/3 + e.parkingMonthly*2
	e.rentFor4 = e.totalRent/4 + e.parkingMonthly*3
}

func (e Entry) Name() string { return e.name }
func (e Entry) Link() string { return e.link }

func (e *Entry) SetName(name string) { e.name = name }
func (e *Entry) SetLink(link string) { e.link = link }

// Is reports whether name matches the entry's name, ignoring case.
func (e Entry) Is(name string) bool {
	return strings.EqualFold(e.name, name)
}

// Int returns the value of an integer field. ok is false for Name and for
// float fields.
func (e Entry) Int(f Field) (v int8, ok bool) {
	switch f {
	case Beds:
		return e.beds, true
	case Baths:
		return e.baths, true
	default:
		return 0, false
	}
}

// Float returns the value of a money field (input or derived). ok is false
// for Name and for integer fields.
func (e Entry) Float(f Field) (v float64, ok bool) {
	switch f {
	case Deposit:
		return e.deposit, true
	case PetDeposit:
		return e.petDeposit, true
	case PetMonthly:
		return e.petMonthly, true
	case ParkingMonthly:
		return e.parkingMonthly, true
	case MonthlyRent:
		return e.monthlyRent, true
	case TotalRent:
		return e.totalRent, true
	case RentFor2:
		return e.rentFor2, true
	case RentFor3:
		return e.rentFor3, true
	case RentFor4:
		return e.rentFor4, true
	default:
		return 0, false
	}
}

// SetInt sets Beds or Baths. Any other field is ignored.
func (e *Entry) SetInt(f Field, v int8) {
	switch f {
	case Beds:
		e.beds = v
	case Baths:
		e.baths = v
	}
}

// SetFloat sets one of the money input fields. Derived fields, Name and the
// integer fields are ignored. Callers must Calculate afterwards.
func (e *Entry) SetFloat(f Field, v float64) {
	switch f {
	case Deposit:
		e.deposit = v
	case PetDeposit:
		e.petDeposit = v
	case PetMonthly:
		e.petMonthly = v
	case ParkingMonthly:
		e.parkingMonthly = v
	case MonthlyRent:
		e.monthlyRent = v
	}
}

// Compare orders e against other by field: -1, 0 or +1.
//
// Names compare lowercased. Money fields use the IEEE-754 totalOrder so NaN
// and signed zeros sort consistently.
func (e Entry) Compare(other Entry, f Field) int {
	switch {
	case f == Name:
		return strings.Compare(strings.ToLower(e.name), strings.ToLower(other.name))
	case f.IsInt():
		a, _ := e.Int(f)
		b, _ := other.Int(f)
		return cmpInt8(a, b)
	case f.IsFloat():
		a, _ := e.Float(f)
		b, _ := other.Float(f)
		return TotalCompare(a, b)
	default:
		return 0
	}
}

func cmpInt8(a, b int8) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// TotalCompare compares two floats by the IEEE-754 totalOrder predicate:
// -NaN < -Inf < negative < -0 < +0 < positive < +Inf < +NaN.
func TotalCompare(a, b float64) int {
	ka, kb := totalKey(a), totalKey(b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	default:
		return 0
	}
}

// totalKey maps the float's bits onto an int64 whose natural order is the
// total order: negative values get their magnitude bits flipped.
func totalKey(f float64) int64 {
	bits := int64(math.Float64bits(f))
	return bits ^ int64(uint64(bits>>63)>>1)
}
