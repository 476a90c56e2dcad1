package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"med-reminder/internal/domain/intakes"
	"med-reminder/internal/domain/schedule"
)

type IntakesRepo struct {
	db *sql.DB
}

func NewIntakesRepo(db *sql.DB) *IntakesRepo {
	return &IntakesRepo{db: db}
}

func (r *IntakesRepo) Create(ctx context.Context, rec intakes.IntakeRecord) error {
	medIDs, err := json.Marshal(rec.MedicationIDs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO intake_records (
			id, patient_id,
			category, medication_ids,
			taken_at, recorded_at,
			actor_type, actor_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		rec.ID,
		rec.PatientID,
		string(rec.Category),
		medIDs,
		rec.TakenAt,
		rec.RecordedAt,
		string(rec.Actor.Type),
		rec.Actor.ID,
	)
	return err
}

func (r *IntakesRepo) ListByPatient(ctx context.Context, patientID string, filter intakes.ListFilter) ([]intakes.IntakeRecord, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	// Query dinámica simple: condiciones opcionales con placeholders correlativos.
	query := `
		SELECT
			id, patient_id,
			category, medication_ids,
			taken_at, recorded_at,
			actor_type, actor_id
		FROM intake_records
		WHERE patient_id = $1`
	args := []any{patientID}

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND taken_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND taken_at < $%d", len(args))
	}

	query += " ORDER BY taken_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]intakes.IntakeRecord, 0)
	for rows.Next() {
		var rec intakes.IntakeRecord
		var category, actorType string
		var medIDs []byte

		if err := rows.Scan(
			&rec.ID,
			&rec.PatientID,
			&category,
			&medIDs,
			&rec.TakenAt,
			&rec.RecordedAt,
			&actorType,
			&rec.Actor.ID,
		); err != nil {
			return nil, err
		}

		rec.Category = schedule.Category(category)
		rec.Actor.Type = intakes.ActorType(actorType)
		if len(medIDs) > 0 {
			_ = json.Unmarshal(medIDs, &rec.MedicationIDs)
		}

		out = append(out, rec)
	}

	return out, rows.Err()
}
