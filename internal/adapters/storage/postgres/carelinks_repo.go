package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"med-reminder/internal/domain/carelinks"
)

type CareLinksRepo struct {
	db *sql.DB
}

func NewCareLinksRepo(db *sql.DB) *CareLinksRepo {
	return &CareLinksRepo{db: db}
}

func (r *CareLinksRepo) Create(ctx context.Context, l carelinks.Link) error {
	scopes, err := scopesToJSON(l.Scopes)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO care_links (
			id, patient_id, clinician_user_id, grantee_user_id,
			claim_code, scopes, status,
			created_at, updated_at, revoked_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		l.ID,
		l.PatientID,
		l.ClinicianUserID,
		toNullString(l.GranteeUserID),
		toNullString(l.ClaimCode),
		scopes,
		string(l.Status),
		l.CreatedAt,
		l.UpdatedAt,
		toNullTime(l.RevokedAt),
	)
	return err
}

func (r *CareLinksRepo) Update(ctx context.Context, l carelinks.Link) error {
	scopes, err := scopesToJSON(l.Scopes)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE care_links
		SET
			grantee_user_id = $2,
			claim_code = $3,
			scopes = $4,
			status = $5,
			updated_at = $6,
			revoked_at = $7
		WHERE id = $1
	`,
		l.ID,
		toNullString(l.GranteeUserID),
		toNullString(l.ClaimCode),
		scopes,
		string(l.Status),
		l.UpdatedAt,
		toNullTime(l.RevokedAt),
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

func (r *CareLinksRepo) GetByID(ctx context.Context, id string) (carelinks.Link, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return carelinks.Link{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, patient_id, clinician_user_id, grantee_user_id,
			claim_code, scopes, status,
			created_at, updated_at, revoked_at
		FROM care_links
		WHERE id = $1
	`, id)

	return scanCareLink(row.Scan)
}

func (r *CareLinksRepo) GetByClaimCode(ctx context.Context, code string) (carelinks.Link, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return carelinks.Link{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, patient_id, clinician_user_id, grantee_user_id,
			claim_code, scopes, status,
			created_at, updated_at, revoked_at
		FROM care_links
		WHERE claim_code = $1
	`, code)

	return scanCareLink(row.Scan)
}

func (r *CareLinksRepo) ListByPatient(ctx context.Context, patientID string) ([]carelinks.Link, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, patient_id, clinician_user_id, grantee_user_id,
			claim_code, scopes, status,
			created_at, updated_at, revoked_at
		FROM care_links
		WHERE patient_id = $1
		ORDER BY created_at ASC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCareLinks(rows)
}

func (r *CareLinksRepo) ListByGrantee(ctx context.Context, granteeUserID string) ([]carelinks.Link, error) {
	granteeUserID = strings.TrimSpace(granteeUserID)
	if granteeUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, patient_id, clinician_user_id, grantee_user_id,
			claim_code, scopes, status,
			created_at, updated_at, revoked_at
		FROM care_links
		WHERE grantee_user_id = $1
		ORDER BY updated_at DESC
	`, granteeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCareLinks(rows)
}

func (r *CareLinksRepo) GetActiveLink(ctx context.Context, patientID, granteeUserID string) (carelinks.Link, error) {
	patientID = strings.TrimSpace(patientID)
	granteeUserID = strings.TrimSpace(granteeUserID)
	if patientID == "" || granteeUserID == "" {
		return carelinks.Link{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, patient_id, clinician_user_id, grantee_user_id,
			claim_code, scopes, status,
			created_at, updated_at, revoked_at
		FROM care_links
		WHERE patient_id = $1
		  AND grantee_user_id = $2
		  AND status = 'active'
		ORDER BY updated_at DESC
		LIMIT 1
	`, patientID, granteeUserID)

	return scanCareLink(row.Scan)
}

func collectCareLinks(rows *sql.Rows) ([]carelinks.Link, error) {
	out := make([]carelinks.Link, 0)
	for rows.Next() {
		l, err := scanCareLink(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanCareLink(scan func(dest ...any) error) (carelinks.Link, error) {
	var l carelinks.Link
	var grantee, claimCode sql.NullString
	var scopes []byte
	var status string
	var revokedAt sql.NullTime

	if err := scan(
		&l.ID,
		&l.PatientID,
		&l.ClinicianUserID,
		&grantee,
		&claimCode,
		&scopes,
		&status,
		&l.CreatedAt,
		&l.UpdatedAt,
		&revokedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return carelinks.Link{}, ErrNotFound
		}
		return carelinks.Link{}, err
	}

	l.GranteeUserID = grantee.String
	l.ClaimCode = claimCode.String
	l.Status = carelinks.Status(status)
	if len(scopes) > 0 {
		var ss []carelinks.Scope
		if err := json.Unmarshal(scopes, &ss); err == nil {
			l.Scopes = ss
		}
	}
	if l.Scopes == nil {
		l.Scopes = []carelinks.Scope{}
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		l.RevokedAt = &t
	}

	return l, nil
}

// scopes se guarda como JSONB para no depender de arrays de Postgres.
func scopesToJSON(in []carelinks.Scope) ([]byte, error) {
	if in == nil {
		in = []carelinks.Scope{}
	}
	return json.Marshal(in)
}

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
