// Package config builds the process configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all environment-sourced settings, constructed once at
// startup and passed by reference into each component.
type Config struct {
	GraphAPIToken   string
	PhoneNumberID   string
	VerifyToken     string
	Port            string
	DBPath          string
	GraphAPIBaseURL string

	// Optional object-storage archive for generated documents.
	// Disabled when ArchiveEndpoint is empty.
	ArchiveEndpoint  string
	ArchiveAccessKey string
	ArchiveSecretKey string
	ArchiveBucket    string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using process environment")
	}

	cfg := &Config{
		GraphAPIToken:   os.Getenv("GRAPH_API_TOKEN"),
		PhoneNumberID:   os.Getenv("PHONE_NUMBER_ID"),
		VerifyToken:     os.Getenv("WEBHOOK_VERIFY_TOKEN"),
		Port:            os.Getenv("PORT"),
		DBPath:          os.Getenv("DB_PATH"),
		GraphAPIBaseURL: os.Getenv("GRAPH_API_BASE_URL"),
		ArchiveEndpoint: os.Getenv("ARCHIVE_ENDPOINT"),
		ArchiveBucket:   os.Getenv("ARCHIVE_BUCKET"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./insurance.db"
	}
	if cfg.GraphAPIBaseURL == "" {
		cfg.GraphAPIBaseURL = "https://graph.facebook.com/v18.0"
	}
	if cfg.ArchiveBucket == "" {
		cfg.ArchiveBucket = "policy-documents"
	}

	// Also check for AWS/MinIO standard variable names
	cfg.ArchiveAccessKey = os.Getenv("ARCHIVE_ACCESS_KEY")
	if cfg.ArchiveAccessKey == "" {
		cfg.ArchiveAccessKey = os.Getenv("ARCHIVE_ACCESS_KEY_ID")
	}
	cfg.ArchiveSecretKey = os.Getenv("ARCHIVE_SECRET_KEY")
	if cfg.ArchiveSecretKey == "" {
		cfg.ArchiveSecretKey = os.Getenv("ARCHIVE_SECRET_ACCESS_KEY")
	}

	if cfg.GraphAPIToken == "" {
		return nil, fmt.Errorf("GRAPH_API_TOKEN environment variable is required")
	}
	if cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("PHONE_NUMBER_ID environment variable is required")
	}
	if cfg.VerifyToken == "" {
		return nil, fmt.Errorf("WEBHOOK_VERIFY_TOKEN environment variable is required")
	}

	return cfg, nil
}
