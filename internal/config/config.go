package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Secrets (session signing key, Razorpay
// key secret, SMTP password) are server-side only and never appear in
// HTTP responses.
type Config struct {
	Env               string // application environment (e.g. "dev", "prod")
	Port              string // HTTP port to listen on
	DBUser            string // database username
	DBPass            string // database password (optional)
	DBHost            string // database host address
	DBPort            string // database port number
	DBName            string // database name
	SessionSecret     string // secret used to sign admin session tokens
	AdminPasswordHash string // bcrypt hash of the admin panel password
	RazorpayKeyID     string // Razorpay key id (safe to expose to checkout)
	RazorpayKeySecret string // Razorpay key secret (HMAC signature verification)
	SMTPHost          string // outbound mail server host
	SMTPPort          int    // outbound mail server port
	EmailUser         string // SMTP account username
	EmailPassword     string // SMTP account password
	EmailFrom         string // From address on confirmation mail
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"), // empty allowed
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		SessionSecret:     must("SESSION_SECRET"),
		AdminPasswordHash: must("ADMIN_PASSWORD_HASH"),
		RazorpayKeyID:     must("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: must("RAZORPAY_KEY_SECRET"),
		SMTPHost:          must("SMTP_HOST"),
		SMTPPort:          mustInt("SMTP_PORT"),
		EmailUser:         must("EMAIL_USER"),
		EmailPassword:     must("EMAIL_PASSWORD"),
		EmailFrom:         must("EMAIL_FROM"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer.  If conversion fails, the application logs a fatal error and
// exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
