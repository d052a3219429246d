package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Atlas  AtlasConfig
	App    AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type AtlasConfig struct {
	PublicKey  string
	PrivateKey string
	OrgID      string
	BaseURL    string
}

type AppConfig struct {
	Environment string
	Version     string
}

const defaultAtlasBaseURL = "https://cloud.mongodb.com/api/atlas/v1.0"

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Atlas: AtlasConfig{
			PublicKey:  getEnv("ATLAS_PUBLIC_KEY", ""),
			PrivateKey: getEnv("ATLAS_PRIVATE_KEY", ""),
			OrgID:      getEnv("ATLAS_ORG_ID", ""),
			BaseURL:    getEnv("ATLAS_BASE_URL", defaultAtlasBaseURL),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Atlas.PublicKey == "" {
		return fmt.Errorf("ATLAS_PUBLIC_KEY is required")
	}

	if c.Atlas.PrivateKey == "" {
		return fmt.Errorf("ATLAS_PRIVATE_KEY is required")
	}

	if c.Atlas.OrgID == "" {
		return fmt.Errorf("ATLAS_ORG_ID is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)

	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
