// Package pesel validates the 11-digit national identifier: a weighted
// checksum over the first ten digits plus a birth date encoded in the first
// six, with the century folded into the month field.
package pesel

import (
	"fmt"
	"time"

	dErrors "clinicore/pkg/domain-errors"
)

// weights apply to the first ten digits when computing the check digit.
var weights = [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}

// Length is the required identifier length.
const Length = 11

// HasValidChecksum reports whether id is an 11-digit string whose final digit
// matches the weighted checksum of the first ten. Anything that is not exactly
// eleven ASCII digits is invalid; a leading zero is ordinary input.
func HasValidChecksum(id string) bool {
	if len(id) != Length {
		return false
	}
	sum := 0
	for i := 0; i < Length-1; i++ {
		d := id[i] - '0'
		if d > 9 {
			return false
		}
		sum += int(d) * weights[i]
	}
	check := id[Length-1] - '0'
	if check > 9 {
		return false
	}
	return (10-sum%10)%10 == int(check)
}

// BirthDate decodes the date embedded in digits 0-5. The month field encodes
// the century: 1-12 is the 1900s, 21-32 the 2000s, 81-92 the 1800s.
func BirthDate(id string) (time.Time, error) {
	if len(id) != Length {
		return time.Time{}, dErrors.Newf(dErrors.CodeInvalidIdentity, "identifier must be %d digits", Length)
	}
	var year, month, day int
	if _, err := fmt.Sscanf(id[:6], "%2d%2d%2d", &year, &month, &day); err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidIdentity, "identifier is not numeric")
	}
	switch {
	case month >= 1 && month <= 12:
		year += 1900
	case month >= 21 && month <= 32:
		month -= 20
		year += 2000
	case month >= 81 && month <= 92:
		month -= 80
		year += 1800
	default:
		return time.Time{}, dErrors.New(dErrors.CodeInvalidIdentity, "identifier encodes no valid month")
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 30); reject anything that moved.
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidIdentity, "identifier encodes no valid day")
	}
	return date, nil
}

// IsValidNationalID reports whether id passes the checksum and encodes the
// claimed birth date. The caller decides how to surface a failure; this layer
// only answers yes or no.
func IsValidNationalID(id string, birthDate time.Time) bool {
	if !HasValidChecksum(id) {
		return false
	}
	encoded, err := BirthDate(id)
	if err != nil {
		return false
	}
	y1, m1, d1 := encoded.Date()
	y2, m2, d2 := birthDate.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Generate produces a checksum-valid identifier encoding the given birth date
// and four-digit serial. Dates outside the encodable centuries (1800-2099)
// and serials outside [0, 9999] cannot be represented.
func Generate(birthDate time.Time, serial int) (string, error) {
	if serial < 0 || serial > 9999 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "serial must be between 0 and 9999")
	}
	year, month, day := birthDate.Year(), int(birthDate.Month()), birthDate.Day()
	switch {
	case year >= 1900 && year <= 1999:
		// month unchanged
	case year >= 2000 && year <= 2099:
		month += 20
	case year >= 1800 && year <= 1899:
		month += 80
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "birth year %d is not encodable", year)
	}
	id := fmt.Sprintf("%02d%02d%02d%04d", year%100, month, day, serial)
	sum := 0
	for i := 0; i < Length-1; i++ {
		sum += int(id[i]-'0') * weights[i]
	}
	return fmt.Sprintf("%s%d", id, (10-sum%10)%10), nil
}
