package carelinks

import "time"

type Scope string

const (
	ScopePatientRead   Scope = "patient:read"
	ScopeMedsRead      Scope = "meds:read"
	ScopeIntakesCreate Scope = "intakes:create"
	ScopeIntakesRead   Scope = "intakes:read"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Link vincula la ficha de un paciente con el usuario de la app móvil.
// El dashboard del médico muestra ClaimCode como QR; el móvil lo reclama
// y el link pasa a active.
type Link struct {
	ID string

	PatientID string

	ClinicianUserID string // quien generó el link
	GranteeUserID   string // usuario móvil; vacío hasta el claim

	// ClaimCode es de un solo uso: se limpia al reclamar.
	ClaimCode string

	Scopes []Scope
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
