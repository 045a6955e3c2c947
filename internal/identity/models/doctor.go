package models

import (
	"time"

	dErrors "clinicore/pkg/domain-errors"
)

// Doctor is a person on the medical staff with a specialization. Immutable
// once built.
type Doctor struct {
	Person
	Specialization Specialization
	AvailableDays  []time.Weekday
	RoomLabel      string
	Contact        string
}

// DoctorParams carries raw doctor fields into the builder.
type DoctorParams struct {
	PersonParams
	Specialization Specialization
	AvailableDays  []time.Weekday
	RoomLabel      string
	Contact        string
}

// NewDoctor validates and builds a doctor. The minimum age of 25 is
// inclusive. Available weekdays are deduplicated and kept in weekday order.
func NewDoctor(p DoctorParams) (*Doctor, error) {
	person, err := newPerson(p.PersonParams, MinDoctorAge, time.Time{})
	if err != nil {
		return nil, err
	}
	if !p.Specialization.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown specialization %q", p.Specialization)
	}
	return &Doctor{
		Person:         person,
		Specialization: p.Specialization,
		AvailableDays:  normalizeWeekdays(p.AvailableDays),
		RoomLabel:      p.RoomLabel,
		Contact:        p.Contact,
	}, nil
}

// IsAvailableOn reports whether the doctor works on the given weekday.
func (d *Doctor) IsAvailableOn(day time.Weekday) bool {
	for _, available := range d.AvailableDays {
		if available == day {
			return true
		}
	}
	return false
}

func normalizeWeekdays(days []time.Weekday) []time.Weekday {
	var seen [7]bool
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			seen[d] = true
		}
	}
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}
