package main

import (
	"log"

	"github.com/ecoconnect-dev/ecoconnect/db"
	"github.com/ecoconnect-dev/ecoconnect/internal/auth"
	"github.com/ecoconnect-dev/ecoconnect/internal/config"
	"github.com/ecoconnect-dev/ecoconnect/internal/identity"
	"github.com/ecoconnect-dev/ecoconnect/internal/router"
	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/ecoconnect-dev/ecoconnect/internal/supabase"
	"github.com/ecoconnect-dev/ecoconnect/internal/ws"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(gdb, cfg.ReviewsEnabled); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	st := store.New(gdb, cfg.ReviewsEnabled)

	tokens, err := auth.NewJWT(cfg.JWTSecret)

	if err != nil {
		log.Fatalf("Failed to initialize session tokens: %v", err)
	}

	var provider supabase.AuthAPI

	if cfg.SupabaseURL != "" {
		provider = supabase.NewClient(supabase.Config{
			URL:        cfg.SupabaseURL,
			AnonKey:    cfg.SupabaseAnonKey,
			ServiceKey: cfg.SupabaseServiceKey,
		})
	} else {
		log.Println("No identity provider configured, running in relaxed mode")
	}

	reconciler := identity.NewReconciler(st, provider, cfg.AuthRelaxed)

	r := router.New(router.Deps{
		Store:          st,
		Provider:       provider,
		Reconciler:     reconciler,
		Tokens:         tokens,
		Hub:            ws.NewHub(cfg.AllowedOrigins),
		CookieDomain:   cfg.CookieDomain,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
