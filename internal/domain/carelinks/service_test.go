package carelinks

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Link
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Link{}}
}

func (r *testRepo) Create(ctx context.Context, l Link) error {
	if l.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[l.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[l.ID] = l
	return nil
}

func (r *testRepo) Update(ctx context.Context, l Link) error {
	if l.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[l.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[l.ID] = l
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Link, error) {
	l, ok := r.byID[id]
	if !ok {
		return Link{}, errRepoNotFound
	}
	return l, nil
}

func (r *testRepo) GetByClaimCode(ctx context.Context, code string) (Link, error) {
	if code == "" {
		return Link{}, errRepoNotFound
	}
	for _, l := range r.byID {
		if l.ClaimCode == code {
			return l, nil
		}
	}
	return Link{}, errRepoNotFound
}

func (r *testRepo) ListByPatient(ctx context.Context, patientID string) ([]Link, error) {
	out := make([]Link, 0)
	for _, l := range r.byID {
		if l.PatientID == patientID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *testRepo) ListByGrantee(ctx context.Context, granteeUserID string) ([]Link, error) {
	out := make([]Link, 0)
	for _, l := range r.byID {
		if l.GranteeUserID == granteeUserID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *testRepo) GetActiveLink(ctx context.Context, patientID, granteeUserID string) (Link, error) {
	var winner Link
	has := false

	for _, l := range r.byID {
		if l.PatientID != patientID {
			continue
		}
		if l.GranteeUserID != granteeUserID {
			continue
		}
		if l.Status != StatusActive {
			continue
		}

		if !has {
			winner = l
			has = true
			continue
		}
		if l.UpdatedAt.After(winner.UpdatedAt) {
			winner = l
		}
	}

	if !has {
		return Link{}, errRepoNotFound
	}
	return winner, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultScopes_WhenEmpty(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.newCode = func() string { return "code-1" }

	l, err := svc.Create(context.Background(), CreateInput{
		PatientID:       "patient-1",
		ClinicianUserID: "clinician-1",
		Scopes:          nil,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if l.Status != StatusPending {
		t.Fatalf("expected status pending, got %s", l.Status)
	}
	if l.ClaimCode != "code-1" {
		t.Fatalf("expected claim code set, got %q", l.ClaimCode)
	}
	if l.CreatedAt != now || l.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
	// default: todo lo que la app móvil necesita
	for _, s := range []Scope{ScopePatientRead, ScopeMedsRead, ScopeIntakesCreate, ScopeIntakesRead} {
		if !HasScope(l, s) {
			t.Fatalf("expected default scope %s, got %#v", s, l.Scopes)
		}
	}
}

func TestService_Create_StrictScopes_RejectsUnknown(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{
		PatientID:       "patient-1",
		ClinicianUserID: "clinician-1",
		Scopes:          []Scope{ScopeMedsRead, Scope("meds:write")},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Claim_ActivatesAndBurnsCode(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.newCode = func() string { return "code-1" }

	created, err := svc.Create(context.Background(), CreateInput{
		PatientID:       "patient-1",
		ClinicianUserID: "clinician-1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	claimed, err := svc.Claim(context.Background(), "code-1", "mobile-1")
	if err != nil {
		t.Fatalf("Claim error: %v", err)
	}
	if claimed.ID != created.ID {
		t.Fatalf("expected same link, got %s vs %s", claimed.ID, created.ID)
	}
	if claimed.Status != StatusActive {
		t.Fatalf("expected active, got %s", claimed.Status)
	}
	if claimed.GranteeUserID != "mobile-1" {
		t.Fatalf("expected grantee set, got %q", claimed.GranteeUserID)
	}
	if claimed.ClaimCode != "" {
		t.Fatalf("expected claim code cleared, got %q", claimed.ClaimCode)
	}

	// el código es de un solo uso
	if _, err := svc.Claim(context.Background(), "code-1", "mobile-2"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound reusing code, got %v", err)
	}
}

func TestService_Claim_RejectsSelfClaim(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.newCode = func() string { return "code-1" }

	_, err := svc.Create(context.Background(), CreateInput{
		PatientID:       "patient-1",
		ClinicianUserID: "clinician-1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Claim(context.Background(), "code-1", "clinician-1"); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for self claim, got %v", err)
	}
}

func TestService_Claim_LeavesOnlyOneActive_ForPatientAndGrantee(t *testing.T) {
	// Si por data sucia ya había un link activo del mismo par, al reclamar
	// otro debe quedar exactamente 1 activo.
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale := Link{
		ID:              "l1",
		PatientID:       "patient-1",
		ClinicianUserID: "clinician-1",
		GranteeUserID:   "mobile-1",
		Scopes:          []Scope{ScopePatientRead},
		Status:          StatusActive,
		CreatedAt:       now.Add(-10 * time.Minute),
		UpdatedAt:       now.Add(-10 * time.Minute),
	}
	pending := Link{
		ID:              "l2",
		PatientID:       "patient-1",
		ClinicianUserID: "clinician-1",
		ClaimCode:       "code-2",
		Scopes:          []Scope{ScopePatientRead, ScopeMedsRead},
		Status:          StatusPending,
		CreatedAt:       now.Add(-5 * time.Minute),
		UpdatedAt:       now.Add(-5 * time.Minute),
	}
	_ = repo.Create(context.Background(), stale)
	_ = repo.Create(context.Background(), pending)

	if _, err := svc.Claim(context.Background(), "code-2", "mobile-1"); err != nil {
		t.Fatalf("Claim error: %v", err)
	}

	activeCount := 0
	for _, l := range repo.byID {
		if l.PatientID == "patient-1" && l.GranteeUserID == "mobile-1" && l.Status == StatusActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly 1 active link, got %d", activeCount)
	}
}

func TestService_Revoke_Idempotent_AndOnlyClinician(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.newCode = func() string { return "code-1" }

	l, err := svc.Create(context.Background(), CreateInput{
		PatientID:       "patient-1",
		ClinicianUserID: "clinician-1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Revoke(context.Background(), l.ID, "someone-else"); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden revoking as stranger, got %v", err)
	}

	revoked, err := svc.Revoke(context.Background(), l.ID, "clinician-1")
	if err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if revoked.Status != StatusRevoked {
		t.Fatalf("expected revoked, got %s", revoked.Status)
	}
	if revoked.ClaimCode != "" {
		t.Fatalf("expected claim code cleared on revoke")
	}
	if revoked.RevokedAt == nil {
		t.Fatalf("expected RevokedAt set")
	}

	// un link revocado ya no se puede reclamar
	if _, err := svc.Claim(context.Background(), "code-1", "mobile-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound claiming revoked link, got %v", err)
	}

	// idempotente
	again, err := svc.Revoke(context.Background(), l.ID, "clinician-1")
	if err != nil {
		t.Fatalf("Revoke #2 error: %v", err)
	}
	if again.Status != StatusRevoked {
		t.Fatalf("expected revoked after idempotent revoke, got %s", again.Status)
	}
}
