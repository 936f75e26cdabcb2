package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	BaseURL             string
	DashboardURL        string
	FacebookAppID       string
	FacebookAppSecret   string
	GoogleClientID      string
	GoogleClientSecret  string
	FirebaseCredentials string
	CredentialStore     string
	DatabaseURL         string
	ServiceTokenSecret  string
	GraphAPIBaseURL     string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	baseURL := getEnv("BASE_URL", "http://localhost:8080")

	return &Config{
		Port:                getEnv("PORT", "8080"),
		BaseURL:             baseURL,
		DashboardURL:        getEnv("DASHBOARD_URL", baseURL),
		FacebookAppID:       getEnv("FACEBOOK_APP_ID", ""),
		FacebookAppSecret:   getEnv("FACEBOOK_APP_SECRET", ""),
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		CredentialStore:     getEnv("CREDENTIAL_STORE", "firestore"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		ServiceTokenSecret:  getEnv("SERVICE_TOKEN_SECRET", ""),
		GraphAPIBaseURL:     getEnv("GRAPH_API_BASE_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
