package model

import (
	"fmt"
	"strings"
)

// Field identifies one column of an Entry.
type Field int

const (
	Name Field = iota
	Beds
	Baths
	Deposit
	PetDeposit
	PetMonthly
	ParkingMonthly
	MonthlyRent
	TotalRent
	RentFor2
	RentFor3
	RentFor4
)

// Fields lists every field in column order.
var Fields = []Field{
	Name, Beds, Baths,
	Deposit, PetDeposit, PetMonthly, ParkingMonthly, MonthlyRent,
	TotalRent, RentFor2, RentFor3, RentFor4,
}

var fieldLabels = map[Field]string{
	Name:           "Name",
	Beds:           "Number of Beds",
	Baths:          "Number of Baths",
	Deposit:        "Deposit",
	PetDeposit:     "Pet Deposit",
	PetMonthly:     "Pet Monthly",
	ParkingMonthly: "Parking Monthly",
	MonthlyRent:    "Monthly Rent",
	TotalRent:      "Total Rent",
	RentFor2:       "Rent for 2",
	RentFor3:       "Rent for 3",
	RentFor4:       "Rent for 4",
}

// fieldKeys are the stable machine names used by CLI flags and list output.
var fieldKeys = map[Field]string{
	Name:           "name",
	Beds:           "beds",
	Baths:          "baths",
	Deposit:        "deposit",
	PetDeposit:     "petdeposit",
	PetMonthly:     "petmonthly",
	ParkingMonthly: "parkingmonthly",
	MonthlyRent:    "monthlyrent",
	TotalRent:      "totalrent",
	RentFor2:       "rentfor2",
	RentFor3:       "rentfor3",
	RentFor4:       "rentfor4",
}

// String returns the column label.
func (f Field) String() string {
	if s, ok := fieldLabels[f]; ok {
		return s
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Key returns the machine name of the field.
func (f Field) Key() string {
	return fieldKeys[f]
}

// IsInt reports whether the field is read/written through Int/SetInt.
func (f Field) IsInt() bool {
	return f == Beds || f == Baths
}

// IsFloat reports whether the field is read through Float.
func (f Field) IsFloat() bool {
	return f >= Deposit && f <= RentFor4
}

// IsDerived reports whether the field is computed by Calculate.
func (f Field) IsDerived() bool {
	return f >= TotalRent && f <= RentFor4
}

// Editable reports whether a user may write the field.
func (f Field) Editable() bool {
	return f == Name || f.IsInt() || (f.IsFloat() && !f.IsDerived())
}

// ParseField resolves a field from its key or label, ignoring case, spaces,
// dashes and underscores ("monthly-rent", "Monthly Rent", "monthlyrent").
func ParseField(s string) (Field, error) {
	norm := normalizeFieldName(s)
	for _, f := range Fields {
		if norm == f.Key() || norm == normalizeFieldName(f.String()) {
			return f, nil
		}
	}
	return Name, fmt.Errorf("unknown field: %q", s)
}

func normalizeFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
