package intakes

import (
	"time"

	"med-reminder/internal/domain/schedule"
)

type ActorType string

const (
	ActorTypePatientUser   ActorType = "PATIENT_USER"
	ActorTypeClinicianUser ActorType = "CLINICIAN_USER"
)

type Actor struct {
	Type ActorType
	ID   string
}

// IntakeRecord registra qué medicamentos se marcaron como tomados para una
// categoría del día. Append-only: se crea, no se edita ni se borra.
type IntakeRecord struct {
	ID        string
	PatientID string

	Category schedule.Category

	// IDs de los medicamentos marcados en esta toma.
	MedicationIDs []string

	// TakenAt es cuándo se marcó la toma (lo reporta el cliente);
	// RecordedAt es cuándo lo recibió el backend.
	TakenAt    time.Time
	RecordedAt time.Time

	Actor Actor
}
