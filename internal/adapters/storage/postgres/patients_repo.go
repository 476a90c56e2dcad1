package postgres

import (
	"context"
	"database/sql"
	"strings"

	"med-reminder/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (
			id, clinician_user_id,
			name, birth_date, notes,
			morning_clock, evening_clock,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		p.ID,
		p.ClinicianUserID,
		p.Name,
		toNullDate(p.BirthDate),
		p.Notes,
		p.MorningClock,
		p.EveningClock,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET
			name = $2,
			birth_date = $3,
			notes = $4,
			morning_clock = $5,
			evening_clock = $6,
			updated_at = $7
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		toNullDate(p.BirthDate),
		p.Notes,
		p.MorningClock,
		p.EveningClock,
		p.UpdatedAt,
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

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return patients.Patient{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, clinician_user_id,
			name, birth_date, notes,
			morning_clock, evening_clock,
			created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)

	return scanPatient(row.Scan)
}

func (r *PatientsRepo) ListByClinician(ctx context.Context, clinicianUserID string) ([]patients.Patient, error) {
	clinicianUserID = strings.TrimSpace(clinicianUserID)
	if clinicianUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, clinician_user_id,
			name, birth_date, notes,
			morning_clock, evening_clock,
			created_at, updated_at
		FROM patients
		WHERE clinician_user_id = $1
		ORDER BY created_at ASC
	`, clinicianUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func scanPatient(scan func(dest ...any) error) (patients.Patient, error) {
	var p patients.Patient
	var bd sql.NullTime

	if err := scan(
		&p.ID,
		&p.ClinicianUserID,
		&p.Name,
		&bd,
		&p.Notes,
		&p.MorningClock,
		&p.EveningClock,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return patients.Patient{}, ErrNotFound
		}
		return patients.Patient{}, err
	}

	if bd.Valid {
		t := bd.Time
		// birth_date es DATE; pgx lo mapea a time.Time medianoche UTC
		p.BirthDate = &t
	}

	return p, nil
}
