package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	SslCertPath string
	JWTSecret   string
	AIAPIKey    string
	EmbedModel  string
	GenModel    string
	RetrieveK   int
	Port        string
}

// LoadConfig loads the environment variables and returns the config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SslCertPath: getEnv("SSL_CERT_PATH", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		AIAPIKey:    getEnv("GEMINI_API_KEY", ""),
		EmbedModel:  getEnv("EMBED_MODEL", "text-embedding-004"),
		GenModel:    getEnv("GEN_MODEL", "gemini-1.5-flash"),
		RetrieveK:   getEnvInt("RETRIEVE_K", 5),
		Port:        getEnv("PORT", "8080"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
