package patients

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"med-reminder/internal/domain/carelinks"
	"med-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, linksSvc *carelinks.Service) {
	// Fichas (médico)
	r.Route("/patients", func(pr chi.Router) {
		pr.Post("/", createPatientHandler(svc))
		pr.Get("/", listPatientsHandler(svc))

		// Ficha individual (médico, o vinculado con patient:read)
		pr.Get("/{patientID}", getPatientHandler(svc, linksSvc))
		pr.Patch("/{patientID}", updatePatientHandler(svc))
	})

	// Fichas vinculadas a mí (app móvil)
	r.Get("/me/patients", listMyLinkedPatientsHandler(svc, linksSvc))
}

type createPatientRequest struct {
	Name         string `json:"name"`
	BirthDate    string `json:"birth_date"` // YYYY-MM-DD opcional
	Notes        string `json:"notes"`
	MorningClock string `json:"morning_clock"` // "HH:MM" opcional
	EveningClock string `json:"evening_clock"`
}

type patientResponse struct {
	ID              string     `json:"id"`
	ClinicianUserID string     `json:"clinician_user_id"`
	Name            string     `json:"name"`
	BirthDate       *time.Time `json:"birth_date,omitempty"`
	Notes           string     `json:"notes"`
	MorningClock    string     `json:"morning_clock"`
	EveningClock    string     `json:"evening_clock"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type updatePatientRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name         *string `json:"name"`
	Notes        *string `json:"notes"`
	MorningClock *string `json:"morning_clock"`
	EveningClock *string `json:"evening_clock"`
	// birth_date se maneja aparte para permitir null (limpiar).
}

type linkedPatientResponse struct {
	Patient patientResponse   `json:"patient"`
	Link    linkedLinkSummary `json:"link"`
	Scopes  []carelinks.Scope `json:"scopes"` // redundante pero útil para la UI
}

type linkedLinkSummary struct {
	ID     string           `json:"id"`
	Status carelinks.Status `json:"status"`
}

func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:         req.Name,
			BirthDate:    bd,
			Notes:        req.Notes,
			MorningClock: req.MorningClock,
			EveningClock: req.EveningClock,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

func listPatientsHandler(svc *Service) http.HandlerFunc {
	// Solo fichas propias del médico (las vinculadas van por /me/patients)
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByClinician(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPatientHandler(svc *Service, linksSvc *carelinks.Service) http.HandlerFunc {
	// Médico tratante directo; vinculado requiere patient:read
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")
		p, err := svc.GetByID(r.Context(), patientID)
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		if p.ClinicianUserID != claims.UserID {
			l, err := linksSvc.GetActiveLink(r.Context(), patientID, claims.UserID)
			if err != nil || !carelinks.HasScope(l, carelinks.ScopePatientRead) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func updatePatientHandler(svc *Service) http.HandlerFunc {
	// La ficha la edita solo el médico tratante.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")
		current, err := svc.GetByID(r.Context(), patientID)
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		if current.ClinicianUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		// Decode a map primero para detectar presencia de birth_date
		// (y así permitir "birth_date": null).
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updatePatientRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		bd := PatchBirthDate{}
		if v, exists := raw["birth_date"]; exists {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					http.Error(w, "birth_date must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				bd.Value = &s
			}
		}

		updated, err := svc.UpdateProfile(r.Context(), patientID, UpdateProfileInput{
			Name:         req.Name,
			Notes:        req.Notes,
			MorningClock: req.MorningClock,
			EveningClock: req.EveningClock,
			BirthDate:    bd,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "patient not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(updated))
	}
}

func listMyLinkedPatientsHandler(svc *Service, linksSvc *carelinks.Service) http.HandlerFunc {
	// Fichas vinculadas a mí (links activos con patient:read)
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		links, err := linksSvc.ListByGrantee(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		seen := map[string]struct{}{}
		out := make([]linkedPatientResponse, 0)

		for _, l := range links {
			if l.Status != carelinks.StatusActive {
				continue
			}
			if !carelinks.HasScope(l, carelinks.ScopePatientRead) {
				continue
			}
			if _, ok := seen[l.PatientID]; ok {
				continue
			}
			seen[l.PatientID] = struct{}{}

			p, err := svc.GetByID(r.Context(), l.PatientID)
			if err != nil {
				// tolera links huérfanos en el repo in-memory
				continue
			}

			out = append(out, linkedPatientResponse{
				Patient: toPatientResponse(p),
				Link: linkedLinkSummary{
					ID:     l.ID,
					Status: l.Status,
				},
				Scopes: l.Scopes,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{
		ID:              p.ID,
		ClinicianUserID: p.ClinicianUserID,
		Name:            p.Name,
		BirthDate:       p.BirthDate,
		Notes:           p.Notes,
		MorningClock:    p.MorningClock,
		EveningClock:    p.EveningClock,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
