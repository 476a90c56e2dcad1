package patients

import "context"

// ClinicianOf expone el clinicianUserID de un paciente.
// Se usa para evitar ciclos de imports entre módulos (patients <-> carelinks).
func (s *Service) ClinicianOf(ctx context.Context, patientID string) (string, error) {
	p, err := s.GetByID(ctx, patientID)
	if err != nil {
		return "", err
	}
	return p.ClinicianUserID, nil
}
