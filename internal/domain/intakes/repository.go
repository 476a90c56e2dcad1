package intakes

import (
	"context"
	"time"

	"med-reminder/internal/domain/schedule"
)

type Repository interface {
	Create(ctx context.Context, rec IntakeRecord) error
	ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]IntakeRecord, error)
}

type ListFilter struct {
	Category schedule.Category // vacío = todas
	From     *time.Time
	To       *time.Time
	Limit    int
}
