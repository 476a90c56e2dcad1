package patients

import "time"

// Patient es la ficha de un paciente registrada por su médico tratante.
// El paciente (app móvil) accede a ella vía care links, no por ownership.
type Patient struct {
	ID              string
	ClinicianUserID string

	Name      string
	BirthDate *time.Time
	Notes     string

	// Horas de recordatorio "HH:MM" (24h). La ventana de aceptación es
	// siempre de una hora a partir de cada una.
	MorningClock string
	EveningClock string

	CreatedAt time.Time
	UpdatedAt time.Time
}
