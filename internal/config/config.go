package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	FirestoreProjectID string
	AdminEmail         string
	TokenSecret        string
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	CORSOrigin         string
	// Google federated sign-in
	GoogleOAuthClientID string
	// Redis Configuration (refresh tokens + revoked access tokens)
	RedisURL string
	// Meilisearch Configuration
	MeiliURL       string
	MeiliMasterKey string
	// AI assist (Gemini)
	GeminiAPIKey string
	GeminiModel  string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		Addr:                getenv("API_ADDR", ":8790"),
		FirestoreProjectID:  getenv("FIRESTORE_PROJECT_ID", "kidpress-dev"),
		AdminEmail:          getenv("KIDPRESS_ADMIN_EMAIL", "admin@kidpress.local"),
		TokenSecret:         getenv("KIDPRESS_TOKEN_SECRET", "kidpress-dev-secret"),
		AccessTTL:           time.Duration(getenvInt("KIDPRESS_ACCESS_TTL_SECONDS", 900)) * time.Second,
		RefreshTTL:          time.Duration(getenvInt("KIDPRESS_REFRESH_TTL_SECONDS", 2592000)) * time.Second,
		CORSOrigin:          getenv("KIDPRESS_CORS_ORIGIN", "*"),
		GoogleOAuthClientID: getenv("GOOGLE_OAUTH_CLIENT_ID", ""),
		RedisURL:            getenv("REDIS_URL", "redis://localhost:6379/0"),
		MeiliURL:            getenv("MEILI_URL", ""),
		MeiliMasterKey:      getenv("MEILI_MASTER_KEY", ""),
		GeminiAPIKey:        getenv("GEMINI_API_KEY", ""),
		GeminiModel:         getenv("GEMINI_MODEL", "gemini-2.5-flash"),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
