package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the application configuration
type Config struct {
	Port           string
	DBDriver       string
	DBURL          string
	DBMaxOpenConns int
	JWTSecret      string
	LogLevel       string
	CORSOrigins    []string
	VenueLocation  *time.Location

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	// TwilioWhatsAppNumber enables WhatsApp delivery to E.164 numbers.
	TwilioWhatsAppNumber string
	ReminderCron         string
	ReminderDaysAhead    int
}

// LoadConfig loads .env (when present) and reads the environment with defaults
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment")
	}

	tz := getEnv("VENUE_TIMEZONE", "Asia/Ho_Chi_Minh")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warn().Err(err).Str("timezone", tz).Msg("unknown venue timezone, falling back to UTC")
		loc = time.UTC
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBURL:          getEnv("DB_URL", ""),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		VenueLocation:  loc,

		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		ReminderCron:         getEnv("REMINDER_CRON", "0 9 * * *"),
		ReminderDaysAhead:    getEnvInt("REMINDER_DAYS_AHEAD", 7),
	}
}

// RemindersEnabled reports whether SMS credentials are configured.
func (c *Config) RemindersEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer in environment, using default")
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
