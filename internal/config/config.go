// Package config loads importer settings from the environment, with a
// .env file picked up from the working directory when present.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	IMAPAddr     string
	IMAPUser     string
	IMAPPassword string

	Folder        string
	SubjectFilter string

	OrderURLTemplate string
	OutputDir        string
	UserDataDir      string
	PGURL            string

	LogLevel       string
	ContentTimeout time.Duration
}

// Load reads the environment. Missing variables fall back to defaults;
// PG_URL has none, an empty value disables the order archive.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		IMAPAddr:         env("IMAP_ADDR", "outlook.office365.com:993"),
		IMAPUser:         env("IMAP_USER", ""),
		IMAPPassword:     env("IMAP_PASSWORD", ""),
		Folder:           env("IMAP_FOLDER", "Inbox/Shopping/Supermarkets/Walmart"),
		SubjectFilter:    env("SUBJECT_FILTER", "Your Walmart order was delivered"),
		OrderURLTemplate: env("ORDER_URL_TEMPLATE", "https://www.walmart.ca/en/orders/%s"),
		OutputDir:        env("OUTPUT_DIR", "out"),
		UserDataDir:      env("BROWSER_USER_DATA_DIR", ".browser-user-data"),
		PGURL:            env("PG_URL", ""),
		LogLevel:         env("LOG_LEVEL", "info"),
		ContentTimeout:   envDuration("CONTENT_TIMEOUT", 25*time.Second),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
