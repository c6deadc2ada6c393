package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	UIModeTUI      = "tui"
	UIModeHeadless = "headless"
)

type Config struct {
	NATSURL         string
	LogNATSSubjects bool

	ChannelID          string
	ChannelTitle       string
	ChannelDescription string
	PermissionGranted  bool

	SpeedMultiplier float64
	DriverName      string
	Vehicle         string

	HTTPAddr    string
	MetricsAddr string

	DatabaseURL string
	AMQPURL     string

	JWTSecret        string
	JWTExpiryMinutes int

	UIMode   string
	LogLevel string
	LogFile  string
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.NATSURL = getenvDefault("NATS_URL", "nats://127.0.0.1:4222")
	cfg.LogNATSSubjects = parseBool(os.Getenv("LOG_NATS_SUBJECTS"))

	cfg.ChannelID = getenvDefault("NOTIFICATION_CHANNEL_ID", "progress.centric")
	cfg.ChannelTitle = getenvDefault("NOTIFICATION_CHANNEL_TITLE", "Ride progress")
	cfg.ChannelDescription = getenvDefault("NOTIFICATION_CHANNEL_DESCRIPTION", "Ride status updates")

	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("NOTIFICATION_PERMISSION"))); v {
	case "", "denied":
		cfg.PermissionGranted = false
	case "granted":
		cfg.PermissionGranted = true
	default:
		return nil, fmt.Errorf("invalid NOTIFICATION_PERMISSION: %q", v)
	}

	// Speed multiplier
	if v := os.Getenv("SPEED_MULTIPLIER"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid SPEED_MULTIPLIER: %q", v)
		}
		cfg.SpeedMultiplier = f
	} else {
		cfg.SpeedMultiplier = 1.0
	}

	cfg.DriverName = getenvDefault("DRIVER_NAME", "Viktor")
	cfg.Vehicle = getenvDefault("VEHICLE", "Toyota Camry")

	// Empty disables the corresponding server.
	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", ":8080")
	if v, ok := os.LookupEnv("HTTP_ADDR"); ok && strings.TrimSpace(v) == "" {
		cfg.HTTPAddr = ""
	}
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	cfg.DatabaseURL = firstNonEmpty(os.Getenv("DATABASE_URL"), os.Getenv("PG_DSN"))
	cfg.AMQPURL = os.Getenv("AMQP_URL")

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if v := os.Getenv("JWT_EXPIRY_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid JWT_EXPIRY_MINUTES: %q", v)
		}
		cfg.JWTExpiryMinutes = n
	} else {
		cfg.JWTExpiryMinutes = 60
	}

	cfg.UIMode = strings.ToLower(getenvDefault("UI_MODE", UIModeTUI))
	if cfg.UIMode != UIModeTUI && cfg.UIMode != UIModeHeadless {
		return nil, fmt.Errorf("invalid UI_MODE: %q", cfg.UIMode)
	}
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "INFO")
	cfg.LogFile = os.Getenv("LOG_FILE")
	if cfg.LogFile == "" && cfg.UIMode == UIModeTUI {
		// The terminal belongs to the UI; keep logs off stdout.
		cfg.LogFile = "ride-progress-sim.log"
	}

	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
