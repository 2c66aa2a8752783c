// Package config loads application configuration from environment
// variables.  Required variables are enforced by must() and missing
// values stop the process at startup with a fatal log message; tunables
// fall back to sensible defaults.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.
type Config struct {
	Env             string   // application environment ("dev", "prod")
	Port            string   // HTTP port to listen on
	BaseURL         string   // external base URL used when building login links
	DBUser          string   // database username
	DBPass          string   // database password (optional)
	DBHost          string   // database host address
	DBPort          string   // database port number
	DBName          string   // database name
	JWTSecret       string   // secret used to sign login and session tokens
	LoginTTLMin     int      // magic-link token time-to-live in minutes
	SessionTTLHours int      // session cookie time-to-live in hours
	AdminEmails     []string // lower-cased addresses with admin rights
	AdminWindowDays int      // days before/after today an admin can manage
	CatalogPath     string   // path to the lecture/session catalog YAML
	SMTPHost        string   // SMTP relay host (unused in dev)
	SMTPPort        string   // SMTP relay port
	SMTPFrom        string   // From address of outgoing mail
	SMTPUser        string   // SMTP auth username (optional)
	SMTPPass        string   // SMTP auth password (optional)
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		BaseURL:         strings.TrimRight(must("BASE_URL"), "/"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		LoginTTLMin:     intOr("LOGIN_TOKEN_TTL_MIN", 15),
		SessionTTLHours: intOr("SESSION_TTL_HOURS", 12),
		AdminEmails:     splitEmails(os.Getenv("ADMIN_EMAILS")),
		AdminWindowDays: intOr("ADMIN_WINDOW_DAYS", 14),
		CatalogPath:     must("CATALOG_PATH"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        envStr("SMTP_PORT", "25"),
		SMTPFrom:        os.Getenv("SMTP_FROM"),
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
	}
}

// Dev reports whether the application runs in the development
// environment, where outgoing mail is logged instead of sent.
func (c Config) Dev() bool { return c.Env == "dev" }

// IsAdmin reports whether the given (already normalized) email address
// carries admin rights.
func (c Config) IsAdmin(email string) bool {
	for _, a := range c.AdminEmails {
		if a == email {
			return true
		}
	}
	return false
}

// must retrieves a required environment variable; an unset or empty value
// terminates the process.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr reads an optional integer variable, falling back to def when the
// variable is unset; a malformed value terminates the process.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// splitEmails turns a comma-separated list into trimmed, lower-cased
// addresses, skipping empty entries.
func splitEmails(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
