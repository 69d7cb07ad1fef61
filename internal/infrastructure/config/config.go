// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// PostgreSQL
	PostgresDSN string

	// MongoDB (audit log)
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Reminders
	RemindersEnabled  bool
	ReminderLeadHours int
	ReminderSweep     time.Duration

	// Auto-cancel of never-confirmed bookings
	UnconfirmedCancelLead  time.Duration
	UnconfirmedCancelSweep time.Duration

	// Cache
	CacheDefaultTTL time.Duration

	// Inventory monitoring
	StockMonitorInterval time.Duration
	AlertRecipientName   string
	AlertRecipientEmail  string

	// Gmail (outbound email channel)
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	GmailSender       string

	// SMS gateway
	SMSGatewayEndpoint string
	SMSGatewayToken    string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=clinic password=clinic dbname=clinic port=5432 sslmode=disable"),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "clinic"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		RemindersEnabled:  getEnvAsBool("REMINDERS_ENABLED", true),
		ReminderLeadHours: getEnvAsInt("REMINDER_LEAD_HOURS", 24),
		ReminderSweep:     time.Duration(getEnvAsInt("REMINDER_SWEEP_INTERVAL", 60)) * time.Second,

		UnconfirmedCancelLead:  time.Duration(getEnvAsInt("UNCONFIRMED_CANCEL_LEAD_HOURS", 2)) * time.Hour,
		UnconfirmedCancelSweep: time.Duration(getEnvAsInt("UNCONFIRMED_CANCEL_SWEEP_INTERVAL", 600)) * time.Second,

		CacheDefaultTTL: time.Duration(getEnvAsInt("CACHE_DEFAULT_TTL", 300)) * time.Second,

		StockMonitorInterval: time.Duration(getEnvAsInt("STOCK_MONITOR_INTERVAL", 3600)) * time.Second,
		AlertRecipientName:   getEnv("ALERT_RECIPIENT_NAME", "Inventory Manager"),
		AlertRecipientEmail:  getEnv("ALERT_RECIPIENT_EMAIL", "admin@clinic.local"),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailSender:       getEnv("GMAIL_SENDER", "noreply@clinic.local"),

		SMSGatewayEndpoint: getEnv("SMS_GATEWAY_ENDPOINT", ""),
		SMSGatewayToken:    getEnv("SMS_GATEWAY_TOKEN", ""),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
