package router

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	mem "med-reminder/internal/adapters/storage/memory"
	pg "med-reminder/internal/adapters/storage/postgres"
	"med-reminder/internal/domain/carelinks"
	"med-reminder/internal/domain/intakes"
	"med-reminder/internal/domain/medications"
	"med-reminder/internal/domain/patients"
	"med-reminder/internal/middleware"
	"med-reminder/internal/ports/auth"
	"med-reminder/internal/ports/druginfo"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: catálogo externo de medicamentos (autocomplete).
	// Si es nil, /drugs/search responde 503.
	DrugLookup druginfo.Lookup
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		patientRepo patients.Repository
		medRepo     medications.Repository
		intakeRepo  intakes.Repository
		linkRepo    carelinks.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		patientRepo = pg.NewPatientsRepo(db)
		medRepo = pg.NewMedicationsRepo(db)
		intakeRepo = pg.NewIntakesRepo(db)
		linkRepo = pg.NewCareLinksRepo(db)
	} else {
		patientRepo = mem.NewPatientRepo()
		medRepo = mem.NewMedicationRepo()
		intakeRepo = mem.NewIntakeRepo()
		linkRepo = mem.NewCareLinkRepo()
	}

	// Services por módulo
	patientsSvc := patients.NewService(patientRepo)
	medsSvc := medications.NewService(medRepo)
	intakesSvc := intakes.NewService(intakeRepo)
	linksSvc := carelinks.NewService(linkRepo)

	// Rutas por módulo
	patients.RegisterRoutes(r, patientsSvc, linksSvc)
	medications.RegisterRoutes(r, medsSvc, patientsSvc, linksSvc, intakesSvc)
	intakes.RegisterRoutes(r, intakesSvc, patientsSvc, linksSvc)
	carelinks.RegisterRoutes(r, linksSvc, patientsSvc)

	registerDrugSearch(r, opts.DrugLookup)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// registerDrugSearch expone el autocomplete del catálogo externo.
// GET /drugs/search?q=ibuprofen&limit=5
func registerDrugSearch(r chi.Router, lookup druginfo.Lookup) {
	r.Get("/drugs/search", func(w http.ResponseWriter, req *http.Request) {
		if _, ok := middleware.GetClaims(req.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if lookup == nil {
			http.Error(w, "drug catalog not configured", http.StatusServiceUnavailable)
			return
		}

		q := req.URL.Query().Get("q")
		limit := 0
		if v := req.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		drugs, err := lookup.Search(req.Context(), q, limit)
		if err != nil {
			http.Error(w, "drug catalog unavailable", http.StatusBadGateway)
			return
		}

		type drugResponse struct {
			BrandName   string `json:"brand_name"`
			GenericName string `json:"generic_name"`
			Route       string `json:"route,omitempty"`
			DosageForm  string `json:"dosage_form,omitempty"`
		}
		out := make([]drugResponse, 0, len(drugs))
		for _, d := range drugs {
			out = append(out, drugResponse{
				BrandName:   d.BrandName,
				GenericName: d.GenericName,
				Route:       d.Route,
				DosageForm:  d.DosageForm,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(out)
	})
}
