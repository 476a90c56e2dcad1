package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string

	// Role distingue el dashboard del médico de la app del paciente
	// ("clinician" | "patient"). Puede venir vacío de upstream; la
	// autorización real sale de ownership + care links, no de acá.
	Role string
}
