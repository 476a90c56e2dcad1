package medications

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"med-reminder/internal/domain/carelinks"
	"med-reminder/internal/domain/intakes"
	"med-reminder/internal/domain/patients"
	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, patientsSvc *patients.Service, linksSvc *carelinks.Service, intakesSvc *intakes.Service) {
	r.Route("/patients/{patientID}/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc, patientsSvc))
		mr.Get("/", listMedicationsHandler(svc, patientsSvc, linksSvc))
		mr.Patch("/{medID}", updateMedicationHandler(svc, patientsSvc))
		mr.Delete("/{medID}", deleteMedicationHandler(svc, patientsSvc))
	})

	// Evaluación de tomas pendientes (resolver + cruce con el log de tomas)
	r.Get("/patients/{patientID}/due", dueHandler(svc, patientsSvc, linksSvc, intakesSvc))
}

type dayEntryRequest struct {
	Morning bool `json:"morning"`
	Evening bool `json:"evening"`
}

// createMedicationRequest es el cuerpo para indicar un medicamento.
type createMedicationRequest struct {
	Name          string            `json:"name"`
	MorningDosage string            `json:"morning_dosage"` // "2"; vacío = no toca
	EveningDosage string            `json:"evening_dosage"`
	Schedule      []dayEntryRequest `json:"schedule"` // opcional; exactamente 14 entradas
	Notes         string            `json:"notes"`
}

type updateMedicationRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name          *string `json:"name"`
	MorningDosage *string `json:"morning_dosage"`
	EveningDosage *string `json:"evening_dosage"`
	Notes         *string `json:"notes"`
	// schedule se maneja aparte para distinguir "null" (limpiar) de "no enviado".
}

type medicationResponse struct {
	ID            string              `json:"id"`
	PatientID     string              `json:"patient_id"`
	Name          string              `json:"name"`
	MorningDosage string              `json:"morning_dosage"`
	EveningDosage string              `json:"evening_dosage"`
	Schedule      []schedule.DayEntry `json:"schedule,omitempty"`
	Notes         string              `json:"notes"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type dueMedicationResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MorningDosage string `json:"morning_dosage"`
	EveningDosage string `json:"evening_dosage"`
	Taken         bool   `json:"taken"`
}

type dueResponse struct {
	Date        string                  `json:"date"`
	Category    schedule.Category       `json:"category"`
	CycleIndex  int                     `json:"cycle_index"`
	WindowStart string                  `json:"window_start"` // "HH:MM" del paciente
	Medications []dueMedicationResponse `json:"medications"`
}

// createMedicationHandler godoc
// @Summary Indicar un medicamento
// @Description Crea un medicamento en la ficha del paciente. Solo el médico tratante. `schedule`, si viene, debe tener exactamente 14 entradas (semana A índices 0-6, semana B 7-13); si no viene, mandan los conteos simples.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param patientID path string true "ID del paciente"
// @Param payload body createMedicationRequest true "Medicamento"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / schedule con largo distinto de 14"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID}/medications [post]
func createMedicationHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
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

		// Crear/editar medicamentos es acción del médico, sin delegación.
		if p.ClinicianUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), patientID, CreateInput{
			Name:          req.Name,
			MorningDosage: req.MorningDosage,
			EveningDosage: req.EveningDosage,
			PlanDays:      toDayEntries(req.Schedule),
			Notes:         req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

func listMedicationsHandler(svc *Service, patientsSvc *patients.Service, linksSvc *carelinks.Service) http.HandlerFunc {
	// Médico tratante, o vinculado con meds:read
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
			if err != nil || !carelinks.HasScope(l, carelinks.ScopeMedsRead) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		items, err := svc.ListByPatient(r.Context(), patientID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateMedicationHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
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
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		medID := chi.URLParam(r, "medID")
		current, err := svc.GetByID(r.Context(), medID)
		if err != nil || current.PatientID != patientID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		// Para soportar "schedule": null (limpiar plan) hay que detectar
		// presencia del campo: decode a map primero.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateMedicationRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		plan := PatchPlan{}
		if v, exists := raw["schedule"]; exists {
			plan.Present = true
			if string(v) != "null" {
				var entries []dayEntryRequest
				if err := json.Unmarshal(v, &entries); err != nil {
					http.Error(w, "schedule must be an array of day entries or null", http.StatusBadRequest)
					return
				}
				plan.Days = toDayEntries(entries)
			}
		}

		updated, err := svc.Update(r.Context(), medID, UpdateInput{
			Name:          req.Name,
			MorningDosage: req.MorningDosage,
			EveningDosage: req.EveningDosage,
			Notes:         req.Notes,
			Plan:          plan,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "medication not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(updated))
	}
}

func deleteMedicationHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
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
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		medID := chi.URLParam(r, "medID")
		current, err := svc.GetByID(r.Context(), medID)
		if err != nil || current.PatientID != patientID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		if err := svc.Delete(r.Context(), medID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// dueHandler godoc
// @Summary Tomas pendientes del día
// @Description Evalúa qué medicamentos tocan para la fecha y categoría dadas (ciclo quincenal) y cruza con el log de tomas de ese día para marcar `taken`. `date` por defecto es hoy (UTC).
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param patientID path string true "ID del paciente"
// @Param category query string true "morning o evening"
// @Param date query string false "YYYY-MM-DD; default hoy"
// @Success 200 {object} dueResponse
// @Failure 400 {string} string "category inválida / date inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID}/due [get]
func dueHandler(svc *Service, patientsSvc *patients.Service, linksSvc *carelinks.Service, intakesSvc *intakes.Service) http.HandlerFunc {
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
			if err != nil || !carelinks.HasScope(l, carelinks.ScopeMedsRead) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		cat, ok := schedule.ParseCategory(r.URL.Query().Get("category"))
		if !ok {
			http.Error(w, "category must be morning or evening", http.StatusBadRequest)
			return
		}

		day := time.Now().UTC()
		if raw := r.URL.Query().Get("date"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			day = t
		}

		meds, err := svc.ListByPatient(r.Context(), patientID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		due := DueOn(meds, cat, day)

		// El resolver es puro; acá somos el caller que cruza con las tomas
		// ya registradas ese día para esa categoría.
		from, to := intakes.DayRange(day)
		records, err := intakesSvc.ListByPatient(r.Context(), patientID, intakes.ListFilter{
			Category: cat,
			From:     &from,
			To:       &to,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		taken := intakes.TakenIDs(records)

		out := dueResponse{
			Date:        day.Format("2006-01-02"),
			Category:    cat,
			CycleIndex:  schedule.IndexAt(day),
			WindowStart: p.WindowFor(cat).Clock(),
			Medications: make([]dueMedicationResponse, 0, len(due)),
		}
		for _, m := range due {
			out.Medications = append(out.Medications, dueMedicationResponse{
				ID:            m.ID,
				Name:          m.Name,
				MorningDosage: m.MorningDosage,
				EveningDosage: m.EveningDosage,
				Taken:         taken[m.ID],
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toDayEntries(in []dayEntryRequest) []schedule.DayEntry {
	if in == nil {
		return nil
	}
	out := make([]schedule.DayEntry, 0, len(in))
	for _, e := range in {
		out = append(out, schedule.DayEntry{Morning: e.Morning, Evening: e.Evening})
	}
	return out
}

func toMedicationResponse(m Medication) medicationResponse {
	return medicationResponse{
		ID:            m.ID,
		PatientID:     m.PatientID,
		Name:          m.Name,
		MorningDosage: m.MorningDosage,
		EveningDosage: m.EveningDosage,
		Schedule:      m.PlanDays,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo;
// si se repite en más lados, recién ahí conviene extraer un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
