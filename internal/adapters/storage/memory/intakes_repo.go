package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"med-reminder/internal/domain/intakes"
)

type intakeRepo struct {
	mu   sync.RWMutex
	byID map[string]intakes.IntakeRecord
}

func NewIntakeRepo() intakes.Repository {
	return &intakeRepo{
		byID: make(map[string]intakes.IntakeRecord),
	}
}

func (r *intakeRepo) Create(ctx context.Context, rec intakes.IntakeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("intake id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("intake already exists")
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *intakeRepo) ListByPatient(ctx context.Context, patientID string, filter intakes.ListFilter) ([]intakes.IntakeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]intakes.IntakeRecord, 0)
	for _, rec := range r.byID {
		if rec.PatientID != patientID {
			continue
		}
		if filter.Category != "" && rec.Category != filter.Category {
			continue
		}
		if filter.From != nil && rec.TakenAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !rec.TakenAt.Before(*filter.To) {
			continue
		}
		out = append(out, rec)
	}

	// Más recientes primero, como el log del móvil.
	sort.Slice(out, func(i, j int) bool {
		return out[i].TakenAt.After(out[j].TakenAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}
