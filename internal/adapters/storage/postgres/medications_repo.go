package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"med-reminder/internal/domain/medications"
	"med-reminder/internal/domain/schedule"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	plan, err := planToJSON(m.PlanDays)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, patient_id,
			name, morning_dosage, evening_dosage,
			plan, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		m.ID,
		m.PatientID,
		m.Name,
		m.MorningDosage,
		m.EveningDosage,
		plan,
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	plan, err := planToJSON(m.PlanDays)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			morning_dosage = $3,
			evening_dosage = $4,
			plan = $5,
			notes = $6,
			updated_at = $7
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.MorningDosage,
		m.EveningDosage,
		plan,
		m.Notes,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM medications WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, patient_id,
			name, morning_dosage, evening_dosage,
			plan, notes,
			created_at, updated_at
		FROM medications
		WHERE id = $1
	`, id)

	return scanMedication(row.Scan)
}

func (r *MedicationsRepo) ListByPatient(ctx context.Context, patientID string) ([]medications.Medication, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, patient_id,
			name, morning_dosage, evening_dosage,
			plan, notes,
			created_at, updated_at
		FROM medications
		WHERE patient_id = $1
		ORDER BY created_at ASC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func scanMedication(scan func(dest ...any) error) (medications.Medication, error) {
	var m medications.Medication
	var plan []byte

	if err := scan(
		&m.ID,
		&m.PatientID,
		&m.Name,
		&m.MorningDosage,
		&m.EveningDosage,
		&plan,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, ErrNotFound
		}
		return medications.Medication{}, err
	}

	if len(plan) > 0 {
		var days []schedule.DayEntry
		if err := json.Unmarshal(plan, &days); err == nil {
			// Un plan ilegible en storage se trata como ausente: el
			// medicamento cae al fallback de dosis simples, no rompe.
			m.PlanDays = days
		}
	}

	return m, nil
}

// plan se guarda como JSONB nullable; nil => columna NULL.
func planToJSON(days []schedule.DayEntry) (any, error) {
	if len(days) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(days)
	if err != nil {
		return nil, err
	}
	return b, nil
}
