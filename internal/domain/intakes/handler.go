package intakes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"med-reminder/internal/domain/carelinks"
	"med-reminder/internal/domain/patients"
	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, patientsSvc *patients.Service, linksSvc *carelinks.Service) {
	r.Route("/patients/{patientID}/intakes", func(ir chi.Router) {
		ir.Post("/", createIntakeHandler(svc, patientsSvc, linksSvc))
		ir.Get("/", listIntakesHandler(svc, patientsSvc, linksSvc))
	})
}

// createIntakeRequest es el cuerpo para registrar una toma desde el móvil.
type createIntakeRequest struct {
	Category      string   `json:"category" enums:"morning,evening"`
	MedicationIDs []string `json:"medication_ids"`
	TakenAt       string   `json:"taken_at"` // RFC3339 opcional; vacío = ahora
}

type intakeResponse struct {
	ID            string            `json:"id"`
	PatientID     string            `json:"patient_id"`
	Category      schedule.Category `json:"category"`
	MedicationIDs []string          `json:"medication_ids"`
	TakenAt       time.Time         `json:"taken_at"`
	RecordedAt    time.Time         `json:"recorded_at"`
	ActorType     ActorType         `json:"actor_type"`
	ActorID       string            `json:"actor_id"`
}

// createIntakeHandler godoc
// @Summary Registrar toma de medicamentos
// @Description Agrega un registro al log de tomas del paciente (append-only). El médico tratante siempre puede; un usuario vinculado necesita un care link activo con scope `intakes:create`.
// @Tags intakes
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param patientID path string true "ID del paciente"
// @Param payload body createIntakeRequest true "Toma registrada; taken_at en RFC3339 (opcional)"
// @Success 201 {object} intakeResponse
// @Failure 400 {string} string "invalid json / category inválida / sin medication_ids"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID}/intakes [post]
func createIntakeHandler(svc *Service, patientsSvc *patients.Service, linksSvc *carelinks.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")
		p, err := patientsSvc.GetByID(r.Context(), patientID)
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		actorType := ActorTypeClinicianUser

		// Permisos: médico tratante siempre; vinculado con intakes:create.
		if p.ClinicianUserID != claims.UserID {
			l, err := linksSvc.GetActiveLink(r.Context(), patientID, claims.UserID)
			if err != nil || !carelinks.HasScope(l, carelinks.ScopeIntakesCreate) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			actorType = ActorTypePatientUser
		}

		var req createIntakeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cat, ok := schedule.ParseCategory(req.Category)
		if !ok {
			http.Error(w, "category must be morning or evening", http.StatusBadRequest)
			return
		}

		var takenAt time.Time
		if strings.TrimSpace(req.TakenAt) != "" {
			t, err := time.Parse(time.RFC3339, req.TakenAt)
			if err != nil {
				http.Error(w, "taken_at must be RFC3339", http.StatusBadRequest)
				return
			}
			takenAt = t
		}

		rec, err := svc.Create(r.Context(), patientID, Actor{
			Type: actorType,
			ID:   claims.UserID,
		}, CreateInput{
			Category:      cat,
			MedicationIDs: req.MedicationIDs,
			TakenAt:       takenAt,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toIntakeResponse(rec))
	}
}

func listIntakesHandler(svc *Service, patientsSvc *patients.Service, linksSvc *carelinks.Service) http.HandlerFunc {
	// Filtros: ?category=&from=&to= (fechas YYYY-MM-DD) &limit=
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")
		p, err := patientsSvc.GetByID(r.Context(), patientID)
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		if p.ClinicianUserID != claims.UserID {
			l, err := linksSvc.GetActiveLink(r.Context(), patientID, claims.UserID)
			if err != nil || !carelinks.HasScope(l, carelinks.ScopeIntakesRead) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		var filter ListFilter

		if raw := r.URL.Query().Get("category"); raw != "" {
			cat, ok := schedule.ParseCategory(raw)
			if !ok {
				http.Error(w, "category must be morning or evening", http.StatusBadRequest)
				return
			}
			filter.Category = cat
		}
		if raw := r.URL.Query().Get("from"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			filter.From = &t
		}
		if raw := r.URL.Query().Get("to"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			// inclusivo: hasta fin de ese día
			end := t.AddDate(0, 0, 1)
			filter.To = &end
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			filter.Limit = n
		}

		items, err := svc.ListByPatient(r.Context(), patientID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]intakeResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toIntakeResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toIntakeResponse(rec IntakeRecord) intakeResponse {
	return intakeResponse{
		ID:            rec.ID,
		PatientID:     rec.PatientID,
		Category:      rec.Category,
		MedicationIDs: rec.MedicationIDs,
		TakenAt:       rec.TakenAt,
		RecordedAt:    rec.RecordedAt,
		ActorType:     rec.Actor.Type,
		ActorID:       rec.Actor.ID,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
