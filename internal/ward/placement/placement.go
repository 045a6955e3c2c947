// Package placement holds the static compatibility tables between medical
// specializations, diagnoses, and room types. The functions are total: any
// value outside the tables falls back to the general ward rather than
// failing, so placement can never block an admission outright.
package placement

import (
	identity "clinicore/internal/identity/models"
	ward "clinicore/internal/ward/models"
)

// pediatricAgeCutoff is exclusive: a 17-year-old is placed in pediatrics, an
// 18-year-old is placed by diagnosis.
const pediatricAgeCutoff = 18

var specializationRooms = map[identity.Specialization]ward.RoomType{
	identity.SpecializationInternist:    ward.RoomGeneral,
	identity.SpecializationCardiologist: ward.RoomCardiology,
	identity.SpecializationNeurologist:  ward.RoomNeurology,
	identity.SpecializationOrthopedist:  ward.RoomOrthopedics,
	identity.SpecializationPediatrician: ward.RoomPediatrics,
	identity.SpecializationSurgeon:      ward.RoomSurgery,
	identity.SpecializationOncologist:   ward.RoomOncology,
	identity.SpecializationPsychiatrist: ward.RoomPsychiatry,
}

var diagnosisRooms = map[identity.Diagnosis]ward.RoomType{
	identity.DiagnosisAwaiting:     ward.RoomGeneral,
	identity.DiagnosisCardiac:      ward.RoomCardiology,
	identity.DiagnosisNeurological: ward.RoomNeurology,
	identity.DiagnosisOrthopedic:   ward.RoomOrthopedics,
	identity.DiagnosisRespiratory:  ward.RoomPulmonology,
	identity.DiagnosisOncological:  ward.RoomOncology,
	identity.DiagnosisPsychiatric:  ward.RoomPsychiatry,
}

// CompatibleRoomType returns the room type a doctor of the given
// specialization works in.
func CompatibleRoomType(spec identity.Specialization) ward.RoomType {
	if room, ok := specializationRooms[spec]; ok {
		return room
	}
	return ward.RoomGeneral
}

// Department maps an admission diagnosis to the ward that treats it.
func Department(diagnosis identity.Diagnosis) ward.RoomType {
	if room, ok := diagnosisRooms[diagnosis]; ok {
		return room
	}
	return ward.RoomGeneral
}

// PatientDepartment places a patient. Minors go to pediatrics regardless of
// diagnosis; adults are placed by their diagnosis.
func PatientDepartment(patient *identity.Patient) ward.RoomType {
	if patient.Age < pediatricAgeCutoff {
		return ward.RoomPediatrics
	}
	return Department(patient.Diagnosis)
}
