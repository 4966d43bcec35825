package main

import (
	"net/http"
	"os"
	"time"

	"care-access/internal/adapters/auth/heimdall"
	"care-access/internal/adapters/capabilities/plansfeatures"
	"care-access/internal/platform/logger"
	"care-access/internal/ports/auth"
	"care-access/internal/ports/capabilities"
	"care-access/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Sin AUTH_BASE_URL el verifier queda nil y el middleware corre en modo dev
	// (headers X-Debug-User-ID / X-Debug-User-Role).
	var verifier auth.AuthVerifier
	if base := os.Getenv("AUTH_BASE_URL"); base != "" {
		client, err := heimdall.NewClient(heimdall.Config{
			BaseURL: base,
			APIKey:  os.Getenv("AUTH_API_KEY"),
		})
		if err != nil {
			log.Error("heimdall client init failed", map[string]any{"error": err})
			os.Exit(1)
		}
		verifier = heimdall.NewVerifier(client)
	}

	var caps capabilities.CapabilitiesResolver
	if base := os.Getenv("PLANS_BASE_URL"); base != "" {
		client, err := plansfeatures.NewClient(plansfeatures.Config{
			BaseURL: base,
			APIKey:  os.Getenv("PLANS_API_KEY"),
		})
		if err != nil {
			log.Error("plans-features client init failed", map[string]any{"error": err})
			os.Exit(1)
		}
		caps = plansfeatures.NewResolver(client)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Capabilities: caps,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err})
		os.Exit(1)
	}
}
