package models

// RoomType classifies a room by the care it is equipped for.
type RoomType string

const (
	RoomGeneral     RoomType = "general"
	RoomCardiology  RoomType = "cardiology"
	RoomNeurology   RoomType = "neurology"
	RoomOrthopedics RoomType = "orthopedics"
	RoomPediatrics  RoomType = "pediatrics"
	RoomSurgery     RoomType = "surgery"
	RoomOncology    RoomType = "oncology"
	RoomPsychiatry  RoomType = "psychiatry"
	RoomPulmonology RoomType = "pulmonology"
)

var roomTypes = map[RoomType]struct{}{
	RoomGeneral:     {},
	RoomCardiology:  {},
	RoomNeurology:   {},
	RoomOrthopedics: {},
	RoomPediatrics:  {},
	RoomSurgery:     {},
	RoomOncology:    {},
	RoomPsychiatry:  {},
	RoomPulmonology: {},
}

// ParseRoomType normalizes a stored or user-supplied room type. The empty
// string maps to the general ward.
func ParseRoomType(raw string) RoomType {
	if raw == "" {
		return RoomGeneral
	}
	return RoomType(raw)
}

// IsValid reports whether the value is a known room type.
func (t RoomType) IsValid() bool {
	_, ok := roomTypes[t]
	return ok
}
