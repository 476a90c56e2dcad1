package medications

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
	Name          string
	MorningDosage string
	EveningDosage string
	PlanDays      []schedule.DayEntry
	Notes         string
}

func (s *Service) Create(ctx context.Context, patientID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(patientID) == "" {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}
	// En escritura somos estrictos: o no hay plan, o tiene 14 entradas.
	// (En lectura igual se degrada, pero mejor no guardar basura.)
	if len(in.PlanDays) != 0 && len(in.PlanDays) != schedule.CycleDays {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	m := Medication{
		ID:            uuid.NewString(),
		PatientID:     patientID,
		Name:          strings.TrimSpace(in.Name),
		MorningDosage: strings.TrimSpace(in.MorningDosage),
		EveningDosage: strings.TrimSpace(in.EveningDosage),
		PlanDays:      clonePlan(in.PlanDays),
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Medication, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// PatchPlan distingue "no enviado" de "enviado null" (null limpia el plan).
type PatchPlan struct {
	Present bool
	Days    []schedule.DayEntry // nil con Present=true limpia el plan
}

type UpdateInput struct {
	Name          *string
	MorningDosage *string
	EveningDosage *string
	Notes         *string
	Plan          PatchPlan
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medication, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Name = name
	}
	if in.MorningDosage != nil {
		m.MorningDosage = strings.TrimSpace(*in.MorningDosage)
	}
	if in.EveningDosage != nil {
		m.EveningDosage = strings.TrimSpace(*in.EveningDosage)
	}
	if in.Notes != nil {
		m.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Plan.Present {
		if len(in.Plan.Days) != 0 && len(in.Plan.Days) != schedule.CycleDays {
			return Medication{}, ErrInvalidInput
		}
		m.PlanDays = clonePlan(in.Plan.Days)
	}

	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// Delete borra el medicamento. Los intake records que lo referencian quedan:
// el log es append-only e histórico.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func clonePlan(days []schedule.DayEntry) []schedule.DayEntry {
	if len(days) == 0 {
		return nil
	}
	cp := make([]schedule.DayEntry, len(days))
	copy(cp, days)
	return cp
}
