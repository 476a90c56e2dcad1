package carelinks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"med-reminder/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// ClinicianLookup evita importar el paquete patients (rompe ciclos).
type ClinicianLookup interface {
	ClinicianOf(ctx context.Context, patientID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, clinicians ClinicianLookup) {
	// Acciones del médico, por paciente
	r.Route("/patients/{patientID}/links", func(lr chi.Router) {
		lr.Post("/", createLinkHandler(svc, clinicians))
		lr.Get("/", listLinksByPatientHandler(svc, clinicians))
	})

	// Canje desde la app móvil (el QR trae el claim code)
	r.Post("/links/claim", claimLinkHandler(svc))

	r.Post("/links/{linkID}/revoke", revokeLinkHandler(svc))

	// Usuario móvil: sus vínculos
	r.Get("/me/links", listMyLinksHandler(svc))
}

type createLinkRequest struct {
	Scopes []Scope `json:"scopes"`
}

type claimLinkRequest struct {
	Code string `json:"code"`
}

type linkResponse struct {
	ID              string     `json:"id"`
	PatientID       string     `json:"patient_id"`
	ClinicianUserID string     `json:"clinician_user_id"`
	GranteeUserID   string     `json:"grantee_user_id,omitempty"`
	ClaimCode       string     `json:"claim_code,omitempty"`
	Scopes          []Scope    `json:"scopes"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
}

func createLinkHandler(svc *Service, clinicians ClinicianLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")

		clinicianID, err := clinicians.ClinicianOf(r.Context(), patientID)
		if err != nil || strings.TrimSpace(clinicianID) == "" {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		if clinicianID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		// Body opcional: sin body => scopes default.
		var req createLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := svc.Create(r.Context(), CreateInput{
			PatientID:       patientID,
			ClinicianUserID: claims.UserID,
			Scopes:          req.Scopes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toLinkResponse(l))
	}
}

func listLinksByPatientHandler(svc *Service, clinicians ClinicianLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")

		clinicianID, err := clinicians.ClinicianOf(r.Context(), patientID)
		if err != nil || strings.TrimSpace(clinicianID) == "" {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		if clinicianID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.ListByPatient(r.Context(), patientID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]linkResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toLinkResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// claimLinkHandler godoc
// @Summary Reclamar un care link
// @Description Canjea el claim code que el dashboard muestra como QR. El código es de un solo uso; al reclamarlo el link queda activo para el usuario autenticado.
// @Tags links
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body claimLinkRequest true "Claim code del QR"
// @Success 200 {object} linkResponse
// @Failure 400 {string} string "invalid json / code required"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "link not found"
// @Failure 409 {string} string "link already claimed or revoked"
// @Router /links/claim [post]
func claimLinkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req claimLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Code) == "" {
			http.Error(w, "code required", http.StatusBadRequest)
			return
		}

		l, err := svc.Claim(r.Context(), req.Code, claims.UserID)
		if err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "link not found", http.StatusNotFound)
			case ErrForbidden:
				http.Error(w, "forbidden", http.StatusForbidden)
			case ErrBadState:
				http.Error(w, "link already claimed or revoked", http.StatusConflict)
			default:
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}

		writeJSON(w, http.StatusOK, toLinkResponse(l))
	}
}

func revokeLinkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		linkID := chi.URLParam(r, "linkID")

		l, err := svc.Revoke(r.Context(), linkID, claims.UserID)
		if err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "link not found", http.StatusNotFound)
			case ErrForbidden:
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}

		writeJSON(w, http.StatusOK, toLinkResponse(l))
	}
}

func listMyLinksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByGrantee(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]linkResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toLinkResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toLinkResponse(l Link) linkResponse {
	return linkResponse{
		ID:              l.ID,
		PatientID:       l.PatientID,
		ClinicianUserID: l.ClinicianUserID,
		GranteeUserID:   l.GranteeUserID,
		ClaimCode:       l.ClaimCode,
		Scopes:          l.Scopes,
		Status:          l.Status,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		RevokedAt:       l.RevokedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
