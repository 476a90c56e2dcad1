package intakes

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
	Category      schedule.Category
	MedicationIDs []string
	TakenAt       time.Time // cero => now
}

func (s *Service) Create(ctx context.Context, patientID string, actor Actor, in CreateInput) (IntakeRecord, error) {
	if strings.TrimSpace(patientID) == "" {
		return IntakeRecord{}, ErrInvalidInput
	}
	if in.Category != schedule.CategoryMorning && in.Category != schedule.CategoryEvening {
		return IntakeRecord{}, ErrInvalidInput
	}
	if actor.Type == "" || strings.TrimSpace(actor.ID) == "" {
		return IntakeRecord{}, ErrInvalidInput
	}

	medIDs := make([]string, 0, len(in.MedicationIDs))
	for _, id := range in.MedicationIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		medIDs = append(medIDs, id)
	}
	if len(medIDs) == 0 {
		return IntakeRecord{}, ErrInvalidInput
	}

	now := s.now()
	takenAt := in.TakenAt
	if takenAt.IsZero() {
		takenAt = now
	}

	rec := IntakeRecord{
		ID:            uuid.NewString(),
		PatientID:     patientID,
		Category:      in.Category,
		MedicationIDs: medIDs,
		TakenAt:       takenAt,
		RecordedAt:    now,
		Actor:         actor,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return IntakeRecord{}, err
	}
	return rec, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]IntakeRecord, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID, filter)
}

// TakenIDs junta los medicamentos marcados en un set para cruzarlo con la
// salida del resolver (el resolver no sabe de tomas; ver handler de due).
func TakenIDs(items []IntakeRecord) map[string]bool {
	out := make(map[string]bool)
	for _, rec := range items {
		for _, id := range rec.MedicationIDs {
			out[id] = true
		}
	}
	return out
}

// DayRange devuelve [00:00 del día, 00:00 del siguiente) en UTC, para
// filtrar las tomas de una fecha calendario.
func DayRange(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}
