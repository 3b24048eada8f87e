package config

import (
	"errors"
	"os"
	"strings"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

type Config struct {
	Port         string
	DatabaseURL  string
	JWTSecret    string
	CookieDomain string

	// AllowedOrigins gates both CORS and websocket upgrades.
	AllowedOrigins []string

	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string

	// AuthRelaxed trusts a client-claimed email on the SSO endpoint
	// when no provider credential is presented. Development only.
	AuthRelaxed bool

	ReviewsEnabled bool
}

func Load() (Config, error) {
	cfg := Config{
		Port:               os.Getenv("PORT"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CookieDomain:       os.Getenv("DOMAIN"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		AuthRelaxed:        os.Getenv("AUTH_RELAXED") == "true",
		ReviewsEnabled:     os.Getenv("REVIEWS_ENABLED") != "false",
		AllowedOrigins:     allowedOrigins(),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL environment variable is not set")
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET environment variable is not set")
	}

	if cfg.SupabaseURL == "" && !cfg.AuthRelaxed {
		return Config{}, errors.New("SUPABASE_URL environment variable is not set (set AUTH_RELAXED=true to run without a provider)")
	}

	return cfg, nil
}

func allowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if extra := os.Getenv("ALLOWED_ORIGINS"); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
