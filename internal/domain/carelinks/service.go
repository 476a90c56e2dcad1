package carelinks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo Repository
	now  func() time.Time

	// newCode se inyecta en tests para códigos predecibles.
	newCode func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:    repo,
		now:     time.Now,
		newCode: uuid.NewString,
	}
}

type CreateInput struct {
	PatientID       string
	ClinicianUserID string
	Scopes          []Scope
}

// Create genera un link pendiente con su claim code (lo que el dashboard
// renderiza como QR). Scopes vacíos => default útil para la app móvil.
func (s *Service) Create(ctx context.Context, in CreateInput) (Link, error) {
	patientID := strings.TrimSpace(in.PatientID)
	clinicianID := strings.TrimSpace(in.ClinicianUserID)

	if patientID == "" || clinicianID == "" {
		return Link{}, ErrInvalidInput
	}

	var scopes []Scope
	var err error
	if len(in.Scopes) == 0 {
		scopes = []Scope{ScopePatientRead, ScopeMedsRead, ScopeIntakesCreate, ScopeIntakesRead}
	} else {
		scopes, err = normalizeScopesStrict(in.Scopes)
		if err != nil {
			return Link{}, err
		}
		if len(scopes) == 0 {
			return Link{}, ErrInvalidInput
		}
	}

	now := s.now()
	l := Link{
		ID:              uuid.NewString(),
		PatientID:       patientID,
		ClinicianUserID: clinicianID,
		ClaimCode:       s.newCode(),
		Scopes:          scopes,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return Link{}, err
	}
	return l, nil
}

// Claim canjea un claim code desde la app móvil. El código es de un solo uso.
// Si el mismo usuario ya tenía links activos para el paciente, quedan
// revocados: a lo sumo un link activo por (paciente, usuario).
func (s *Service) Claim(ctx context.Context, code, granteeUserID string) (Link, error) {
	code = strings.TrimSpace(code)
	granteeUserID = strings.TrimSpace(granteeUserID)

	if code == "" || granteeUserID == "" {
		return Link{}, ErrInvalidInput
	}

	l, err := s.repo.GetByClaimCode(ctx, code)
	if err != nil {
		return Link{}, ErrNotFound
	}

	if l.ClinicianUserID == granteeUserID {
		// El médico no se vincula a sí mismo: ya tiene bypass de owner.
		return Link{}, ErrForbidden
	}
	if l.Status != StatusPending {
		return Link{}, ErrBadState
	}

	now := s.now()

	// Revocar otros links activos del mismo par antes de activar éste.
	existing, err := s.repo.ListByPatient(ctx, l.PatientID)
	if err == nil {
		for _, other := range existing {
			if other.ID == l.ID || other.GranteeUserID != granteeUserID {
				continue
			}
			if other.Status != StatusActive {
				continue
			}
			other.Status = StatusRevoked
			other.UpdatedAt = now
			other.RevokedAt = &now
			_ = s.repo.Update(ctx, other) // best-effort (MVP)
		}
	}

	l.GranteeUserID = granteeUserID
	l.ClaimCode = ""
	l.Status = StatusActive
	l.UpdatedAt = now

	if err := s.repo.Update(ctx, l); err != nil {
		return Link{}, err
	}
	return l, nil
}

// Revoke corta el acceso. Idempotente.
func (s *Service) Revoke(ctx context.Context, linkID, clinicianUserID string) (Link, error) {
	linkID = strings.TrimSpace(linkID)
	clinicianUserID = strings.TrimSpace(clinicianUserID)

	if linkID == "" || clinicianUserID == "" {
		return Link{}, ErrInvalidInput
	}

	l, err := s.repo.GetByID(ctx, linkID)
	if err != nil {
		return Link{}, ErrNotFound
	}

	if l.ClinicianUserID != clinicianUserID {
		return Link{}, ErrForbidden
	}

	if l.Status == StatusRevoked {
		return l, nil
	}

	now := s.now()
	l.Status = StatusRevoked
	l.ClaimCode = "" // un link revocado tampoco se puede reclamar
	l.UpdatedAt = now
	l.RevokedAt = &now

	if err := s.repo.Update(ctx, l); err != nil {
		return Link{}, err
	}
	return l, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Link, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListByGrantee(ctx context.Context, granteeUserID string) ([]Link, error) {
	granteeUserID = strings.TrimSpace(granteeUserID)
	if granteeUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByGrantee(ctx, granteeUserID)
}

func (s *Service) GetActiveLink(ctx context.Context, patientID, granteeUserID string) (Link, error) {
	patientID = strings.TrimSpace(patientID)
	granteeUserID = strings.TrimSpace(granteeUserID)

	if patientID == "" || granteeUserID == "" {
		return Link{}, ErrInvalidInput
	}
	l, err := s.repo.GetActiveLink(ctx, patientID, granteeUserID)
	if err != nil {
		return Link{}, ErrNotFound
	}
	return l, nil
}

// HasScope valida si el link incluye un scope.
func HasScope(l Link, scope Scope) bool {
	for _, s := range l.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

func normalizeScopesStrict(in []Scope) ([]Scope, error) {
	allowed := map[Scope]struct{}{
		ScopePatientRead:   {},
		ScopeMedsRead:      {},
		ScopeIntakesCreate: {},
		ScopeIntakesRead:   {},
	}

	seen := map[Scope]struct{}{}
	out := make([]Scope, 0, len(in))

	for _, raw := range in {
		s := Scope(strings.TrimSpace(string(raw)))
		if s == "" {
			continue
		}
		if _, ok := allowed[s]; !ok {
			return nil, ErrInvalidInput
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out, nil
}
