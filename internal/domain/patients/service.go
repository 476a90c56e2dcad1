package patients

import (
	"context"
	"errors"
	"strings"
	"time"

	"med-reminder/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	BirthDate *time.Time
	Notes     string

	// Opcionales; si vienen vacíos se usan los defaults del sistema.
	MorningClock string
	EveningClock string
}

func (s *Service) Create(ctx context.Context, clinicianUserID string, in CreateInput) (Patient, error) {
	if strings.TrimSpace(clinicianUserID) == "" {
		return Patient{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Patient{}, ErrInvalidInput
	}

	morning, err := normalizeClock(in.MorningClock, schedule.DefaultMorningClock)
	if err != nil {
		return Patient{}, ErrInvalidInput
	}
	evening, err := normalizeClock(in.EveningClock, schedule.DefaultEveningClock)
	if err != nil {
		return Patient{}, ErrInvalidInput
	}

	now := s.now()
	p := Patient{
		ID:              uuid.NewString(),
		ClinicianUserID: clinicianUserID,
		Name:            strings.TrimSpace(in.Name),
		BirthDate:       in.BirthDate,
		Notes:           strings.TrimSpace(in.Notes),
		MorningClock:    morning,
		EveningClock:    evening,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByClinician(ctx context.Context, clinicianUserID string) ([]Patient, error) {
	return s.repo.ListByClinician(ctx, clinicianUserID)
}

// PatchBirthDate distingue "no enviado" de "enviado null" en el PATCH.
type PatchBirthDate struct {
	Present bool
	Value   *string // "YYYY-MM-DD"; nil con Present=true limpia el campo
}

type UpdateProfileInput struct {
	Name         *string
	Notes        *string
	MorningClock *string
	EveningClock *string
	BirthDate    PatchBirthDate
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Patient{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Patient{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.MorningClock != nil {
		clock, err := normalizeClock(*in.MorningClock, schedule.DefaultMorningClock)
		if err != nil {
			return Patient{}, ErrInvalidInput
		}
		p.MorningClock = clock
	}
	if in.EveningClock != nil {
		clock, err := normalizeClock(*in.EveningClock, schedule.DefaultEveningClock)
		if err != nil {
			return Patient{}, ErrInvalidInput
		}
		p.EveningClock = clock
	}
	if in.BirthDate.Present {
		if in.BirthDate.Value == nil {
			p.BirthDate = nil
		} else {
			t, err := time.Parse("2006-01-02", *in.BirthDate.Value)
			if err != nil {
				return Patient{}, ErrInvalidInput
			}
			p.BirthDate = &t
		}
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// WindowFor devuelve la ventana de recordatorio configurada del paciente.
func (p Patient) WindowFor(cat schedule.Category) schedule.Window {
	clock := p.MorningClock
	if cat == schedule.CategoryEvening {
		clock = p.EveningClock
	}
	w, err := schedule.ParseWindow(clock)
	if err != nil {
		// Dato sucio en storage: degradar al default, no romper la evaluación.
		return schedule.WindowFor(cat)
	}
	return w
}

func normalizeClock(raw, fallback string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	w, err := schedule.ParseWindow(raw)
	if err != nil {
		return "", err
	}
	return w.Clock(), nil
}
