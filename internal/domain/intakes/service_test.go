package intakes

import (
	"context"
	"testing"
	"time"

	"med-reminder/internal/domain/schedule"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	items []IntakeRecord
}

func (r *testRepo) Create(ctx context.Context, rec IntakeRecord) error {
	r.items = append(r.items, rec)
	return nil
}

func (r *testRepo) ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]IntakeRecord, error) {
	out := make([]IntakeRecord, 0)
	for _, rec := range r.items {
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
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsTakenAtToNow(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	now := time.Date(2026, 2, 2, 8, 15, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rec, err := svc.Create(context.Background(), "patient-1", Actor{
		Type: ActorTypePatientUser,
		ID:   "mobile-1",
	}, CreateInput{
		Category:      schedule.CategoryMorning,
		MedicationIDs: []string{"med-1", " ", "med-2"},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.TakenAt != now || rec.RecordedAt != now {
		t.Fatalf("expected TakenAt/RecordedAt to default to now")
	}
	// los IDs en blanco se descartan
	if len(rec.MedicationIDs) != 2 {
		t.Fatalf("expected 2 medication ids, got %#v", rec.MedicationIDs)
	}
}

func TestService_Create_Validation(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	actor := Actor{Type: ActorTypeClinicianUser, ID: "clinician-1"}

	cases := []struct {
		name      string
		patientID string
		actor     Actor
		in        CreateInput
	}{
		{"empty patient", "", actor, CreateInput{Category: schedule.CategoryMorning, MedicationIDs: []string{"m"}}},
		{"bad category", "patient-1", actor, CreateInput{Category: schedule.Category("noon"), MedicationIDs: []string{"m"}}},
		{"no actor", "patient-1", Actor{}, CreateInput{Category: schedule.CategoryMorning, MedicationIDs: []string{"m"}}},
		{"no medications", "patient-1", actor, CreateInput{Category: schedule.CategoryMorning}},
		{"only blank medications", "patient-1", actor, CreateInput{Category: schedule.CategoryMorning, MedicationIDs: []string{"  ", ""}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.patientID, tc.actor, tc.in); err != ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_ListByPatient_Filters(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	base := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	actor := Actor{Type: ActorTypePatientUser, ID: "mobile-1"}

	mustCreate := func(cat schedule.Category, takenAt time.Time) {
		t.Helper()
		if _, err := svc.Create(context.Background(), "patient-1", actor, CreateInput{
			Category:      cat,
			MedicationIDs: []string{"med-1"},
			TakenAt:       takenAt,
		}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	mustCreate(schedule.CategoryMorning, base)
	mustCreate(schedule.CategoryEvening, base.Add(12*time.Hour))
	mustCreate(schedule.CategoryMorning, base.AddDate(0, 0, 1))

	// solo mañanas
	got, err := svc.ListByPatient(context.Background(), "patient-1", ListFilter{
		Category: schedule.CategoryMorning,
	})
	if err != nil {
		t.Fatalf("ListByPatient error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 morning records, got %d", len(got))
	}

	// solo el primer día
	from, to := DayRange(base)
	got, err = svc.ListByPatient(context.Background(), "patient-1", ListFilter{
		From: &from,
		To:   &to,
	})
	if err != nil {
		t.Fatalf("ListByPatient error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records on first day, got %d", len(got))
	}
}

func TestTakenIDs_MergesRecords(t *testing.T) {
	taken := TakenIDs([]IntakeRecord{
		{MedicationIDs: []string{"med-1", "med-2"}},
		{MedicationIDs: []string{"med-2", "med-3"}},
	})

	for _, id := range []string{"med-1", "med-2", "med-3"} {
		if !taken[id] {
			t.Fatalf("expected %s taken", id)
		}
	}
	if taken["med-4"] {
		t.Fatalf("did not expect med-4 taken")
	}
}

func TestDayRange_HalfOpenUTC(t *testing.T) {
	from, to := DayRange(time.Date(2026, 2, 2, 17, 45, 0, 0, time.UTC))

	if from != time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected from: %v", from)
	}
	if to != time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected to: %v", to)
	}
}
