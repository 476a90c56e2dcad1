package main

import (
	"net/http"
	"os"
	"time"

	"med-reminder/internal/adapters/auth/accounts"
	"med-reminder/internal/adapters/druginfo/openfda"
	"med-reminder/internal/platform/logger"
	"med-reminder/internal/ports/auth"
	"med-reminder/internal/ports/druginfo"
	"med-reminder/internal/router"

	"github.com/joho/godotenv"

	_ "med-reminder/docs" // swagger generado (swag init)
)

// @title med-reminder API
// @version 0.1
// @description Backend de recordatorios de medicación con ciclo quincenal.
// @BasePath /
func main() {
	// .env es opcional; en prod las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Verifier real solo si hay servicio de cuentas configurado;
	// sin él, el middleware corre en modo dev (X-Debug-User-ID).
	var verifier auth.AuthVerifier
	if baseURL := os.Getenv("ACCOUNTS_BASE_URL"); baseURL != "" {
		client, err := accounts.NewClient(accounts.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("ACCOUNTS_API_KEY"),
		})
		if err != nil {
			log.Error("accounts client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = accounts.NewVerifier(client)
		log.Info("accounts verifier enabled", map[string]any{"base_url": baseURL})
	} else {
		log.Warn("no ACCOUNTS_BASE_URL, running in dev auth mode", nil)
	}

	// Catálogo de medicamentos (autocomplete del dashboard).
	var lookup druginfo.Lookup
	if os.Getenv("OPENFDA_DISABLED") == "" {
		client, err := openfda.NewClient(openfda.Config{
			BaseURL: os.Getenv("OPENFDA_BASE_URL"),
		})
		if err != nil {
			log.Error("openfda client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		lookup = client
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DrugLookup:   lookup,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
