package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"med-reminder/internal/domain/carelinks"
	"med-reminder/internal/router"
)

func TestHTTP_EndToEnd_LinkAndDueFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	clinicianID := "clinician-1"
	patientUserID := "mobile-user-1"

	// 1) Médico crea ficha de paciente
	patientID := createPatient(t, ts.URL, clinicianID, map[string]any{
		"name":          "Doña Rosa",
		"birth_date":    "1948-03-15",
		"morning_clock": "08:00",
		"evening_clock": "20:00",
	})

	// 2) Usuario móvil NO puede ver la ficha todavía
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/"+patientID, patientUserID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 before link, got %d", st)
		}
	}

	// 3) Médico indica medicamentos: uno con conteos simples y otro con
	// plan quincenal (solo el día de índice 10, de mañana).
	plan := make([]map[string]any, 14)
	for i := range plan {
		plan[i] = map[string]any{"morning": false, "evening": false}
	}
	plan[10]["morning"] = true

	uniformMedID := createMedication(t, ts.URL, clinicianID, patientID, map[string]any{
		"name":           "Enalapril",
		"morning_dosage": "1",
		"evening_dosage": "0",
	})
	fortnightMedID := createMedication(t, ts.URL, clinicianID, patientID, map[string]any{
		"name":           "Metotrexato",
		"morning_dosage": "2",
		"evening_dosage": "0",
		"schedule":       plan,
	})

	// 4) Médico genera link (scopes default); el claim code es lo que
	// el dashboard renderiza como QR
	linkID, claimCode := createLink(t, ts.URL, clinicianID, patientID, nil)
	if claimCode == "" {
		t.Fatalf("expected claim code on pending link")
	}

	// 5) Usuario móvil reclama el código
	{
		st, body := doReq(t, ts.URL, "POST", "/links/claim", patientUserID, map[string]any{
			"code": claimCode,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 claim link, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status    string `json:"status"`
			ClaimCode string `json:"claim_code"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != string(carelinks.StatusActive) {
			t.Fatalf("expected active link after claim, got %q", resp.Status)
		}
		if resp.ClaimCode != "" {
			t.Fatalf("claim code should be cleared after claim")
		}
	}

	// 6) El código es de un solo uso
	{
		st, _ := doReq(t, ts.URL, "POST", "/links/claim", "other-user", map[string]any{
			"code": claimCode,
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 reusing claim code, got %d", st)
		}
	}

	// 7) Usuario móvil ve su ficha vinculada
	{
		st, body := doReq(t, ts.URL, "GET", "/me/patients", patientUserID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing my patients, got %d body=%s", st, string(body))
		}
		var resp []struct {
			Patient struct {
				ID string `json:"id"`
			} `json:"patient"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp) != 1 || resp[0].Patient.ID != patientID {
			t.Fatalf("expected exactly the linked patient, got body=%s", string(body))
		}
	}

	// 8) Tomas pendientes el 2024-01-11 de mañana (índice 10): ambos tocan
	{
		due := getDue(t, ts.URL, patientUserID, patientID, "morning", "2024-01-11")
		if due.CycleIndex != 10 {
			t.Fatalf("expected cycle index 10 for 2024-01-11, got %d", due.CycleIndex)
		}
		if due.WindowStart != "08:00" {
			t.Fatalf("expected window start 08:00, got %q", due.WindowStart)
		}
		if len(due.Medications) != 2 {
			t.Fatalf("expected 2 due medications, got %d", len(due.Medications))
		}
		for _, m := range due.Medications {
			if m.Taken {
				t.Fatalf("expected no medication taken yet, got %q taken", m.Name)
			}
		}
	}

	// 9) Al día siguiente (índice 11) el plan quincenal ya no aplica
	{
		due := getDue(t, ts.URL, patientUserID, patientID, "morning", "2024-01-12")
		if len(due.Medications) != 1 || due.Medications[0].ID != uniformMedID {
			t.Fatalf("expected only the uniform medication on index 11, got body=%+v", due.Medications)
		}
	}

	// 10) Usuario móvil registra la toma del uniforme
	{
		st, body := doReq(t, ts.URL, "POST", "/patients/"+patientID+"/intakes", patientUserID, map[string]any{
			"category":       "morning",
			"medication_ids": []string{uniformMedID},
			"taken_at":       "2024-01-11T08:15:00Z",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create intake, got %d body=%s", st, string(body))
		}
	}

	// 11) La evaluación refleja la toma registrada
	{
		due := getDue(t, ts.URL, patientUserID, patientID, "morning", "2024-01-11")
		byID := map[string]bool{}
		for _, m := range due.Medications {
			byID[m.ID] = m.Taken
		}
		if !byID[uniformMedID] {
			t.Fatalf("expected uniform medication marked taken")
		}
		if byID[fortnightMedID] {
			t.Fatalf("expected fortnight medication still pending")
		}
	}

	// 12) Médico revoca el link
	{
		st, body := doReq(t, ts.URL, "POST", "/links/"+linkID+"/revoke", clinicianID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 revoke link, got %d body=%s", st, string(body))
		}
	}

	// 13) Usuario móvil pierde acceso inmediatamente
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/"+patientID, patientUserID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 get patient after revoke, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/due?category=morning&date=2024-01-11", patientUserID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 due after revoke, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/patients/"+patientID+"/intakes", patientUserID, map[string]any{
			"category":       "morning",
			"medication_ids": []string{uniformMedID},
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 create intake after revoke, got %d", st)
		}
	}
}

func TestHTTP_CreateLink_RejectsUnknownScope(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	clinicianID := "clinician-1"

	patientID := createPatient(t, ts.URL, clinicianID, map[string]any{
		"name": "Don Pedro",
	})

	// scope inválido => 400
	st, _ := doReq(t, ts.URL, "POST", "/patients/"+patientID+"/links", clinicianID, map[string]any{
		"scopes": []string{"meds:read", "meds:write"},
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown scope, got %d", st)
	}
}

func TestHTTP_CreateMedication_RejectsShortPlan(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	clinicianID := "clinician-1"

	patientID := createPatient(t, ts.URL, clinicianID, map[string]any{
		"name": "Don Pedro",
	})

	plan := make([]map[string]any, 7) // 7 días no alcanza: el ciclo es de 14
	for i := range plan {
		plan[i] = map[string]any{"morning": true, "evening": false}
	}

	st, _ := doReq(t, ts.URL, "POST", "/patients/"+patientID+"/medications", clinicianID, map[string]any{
		"name":     "Metotrexato",
		"schedule": plan,
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for 7-entry schedule, got %d", st)
	}
}

func TestHTTP_DrugSearch_NotConfigured(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "GET", "/drugs/search?q=ibuprofen", "clinician-1", nil)
	if st != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without drug catalog configured, got %d", st)
	}
}

type dueResult struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	CycleIndex  int    `json:"cycle_index"`
	WindowStart string `json:"window_start"`
	Medications []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Taken bool   `json:"taken"`
	} `json:"medications"`
}

func getDue(t *testing.T, baseURL, userID, patientID, category, date string) dueResult {
	t.Helper()

	st, body := doReq(t, baseURL, "GET",
		"/patients/"+patientID+"/due?category="+category+"&date="+date, userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 due, got %d body=%s", st, string(body))
	}

	var out dueResult
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("due response: %v body=%s", err, string(body))
	}
	return out
}

func createPatient(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/patients", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create patient, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create patient: missing id body=%s", string(body))
	}
	return resp.ID
}

func createMedication(t *testing.T, baseURL, userID, patientID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/patients/"+patientID+"/medications", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medication, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create medication: missing id body=%s", string(body))
	}
	return resp.ID
}

func createLink(t *testing.T, baseURL, clinicianID, patientID string, scopes []string) (string, string) {
	t.Helper()

	var payload map[string]any
	if scopes != nil {
		payload = map[string]any{"scopes": scopes}
	}

	st, body := doReq(t, baseURL, "POST", "/patients/"+patientID+"/links", clinicianID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create link, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID        string `json:"id"`
		ClaimCode string `json:"claim_code"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create link: missing id body=%s", string(body))
	}
	return resp.ID, resp.ClaimCode
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
