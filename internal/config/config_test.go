package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UI_MODE", "headless")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SpeedMultiplier != 1.0 {
		t.Errorf("SpeedMultiplier = %v", cfg.SpeedMultiplier)
	}
	if cfg.ChannelID != "progress.centric" {
		t.Errorf("ChannelID = %q", cfg.ChannelID)
	}
	if cfg.PermissionGranted {
		t.Error("permission should default to denied")
	}
	if cfg.DriverName != "Viktor" || cfg.Vehicle != "Toyota Camry" {
		t.Errorf("driver = %q / %q", cfg.DriverName, cfg.Vehicle)
	}
	if cfg.HTTPAddr != ":8080" || cfg.JWTExpiryMinutes != 60 {
		t.Errorf("HTTPAddr = %q, JWTExpiryMinutes = %d", cfg.HTTPAddr, cfg.JWTExpiryMinutes)
	}
	if cfg.LogFile != "" {
		t.Errorf("headless LogFile = %q, want stdout", cfg.LogFile)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UI_MODE", "tui")
	t.Setenv("SPEED_MULTIPLIER", "10")
	t.Setenv("NOTIFICATION_PERMISSION", "granted")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PG_DSN", "postgres://localhost/ride")
	t.Setenv("LOG_NATS_SUBJECTS", "yes")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SpeedMultiplier != 10 || !cfg.PermissionGranted || cfg.HTTPAddr != "" {
		t.Errorf("unexpected cfg %+v", cfg)
	}
	if cfg.DatabaseURL != "postgres://localhost/ride" || !cfg.LogNATSSubjects {
		t.Errorf("DatabaseURL = %q, LogNATSSubjects = %v", cfg.DatabaseURL, cfg.LogNATSSubjects)
	}
	if cfg.LogFile == "" {
		t.Error("tui mode should log to a file")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"SPEED_MULTIPLIER":        "0",
		"NOTIFICATION_PERMISSION": "maybe",
		"UI_MODE":                 "gui",
		"JWT_EXPIRY_MINUTES":      "-5",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("UI_MODE", "headless")
			t.Setenv(k, v)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%q accepted", k, v)
			}
		})
	}
}
