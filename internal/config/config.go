// Package config loads runtime configuration from the environment.
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// JWTConfig defines an issuer/secret pair for admin token verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr               string
	MongoURI           string
	MongoDatabase      string
	SurveyCollection   string
	ResponseCollection string
	CategoryCollection string
	VoiceCollection    string
	Timeout            time.Duration
	ServerLog          *log.Logger
	JWTConfigs         []JWTConfig
	JWTAudience        string
	AllowedOrigins     []string
	PublicBaseURL      string
	MediaBaseURL       string
	UploadDir          string
}

// Load reads environment variables and returns a fully populated Config.
// A .env file in the working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()

	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("ADMIN_JWT_ISSUER", "survey-club-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("ADMIN_JWT_SECONDARY_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: strings.TrimSpace(os.Getenv("ADMIN_JWT_SECONDARY_ISSUER")),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		log.Fatal("ADMIN_JWT_SECRET must be configured")
	}

	mediaBaseURL := strings.TrimSpace(os.Getenv("MEDIA_BASE_URL"))
	if mediaBaseURL == "" {
		mediaBaseURL = "http://localhost:8080/media"
	}

	cfg := Config{
		Addr:               envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:           envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:      envOrDefault("MONGO_DB", "survey-club"),
		SurveyCollection:   envOrDefault("SURVEY_COLLECTION", "surveys"),
		ResponseCollection: envOrDefault("RESPONSE_COLLECTION", "responses"),
		CategoryCollection: envOrDefault("CATEGORY_COLLECTION", "categories"),
		VoiceCollection:    envOrDefault("VOICE_COLLECTION", "voices"),
		Timeout:            timeout,
		ServerLog:          log.New(os.Stdout, "[survey-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:         jwtConfigs,
		JWTAudience:        strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE")),
		AllowedOrigins:     parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		PublicBaseURL:      envOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		MediaBaseURL:       mediaBaseURL,
		UploadDir:          envOrDefault("UPLOAD_DIR", "./uploads"),
	}
	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
