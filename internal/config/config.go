// Package config holds the application settings that shape the booking
// calendar: the operating window of the day and the input length caps.
// Values are read from environment variables with local-development defaults;
// cmd/main.go loads a .env file first so the same variables can live there.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries the runtime settings for the booking application.
type Config struct {
	Port string

	// Operating window of the calendar, in whole hours. Bookings may start
	// at BeginHour:00 at the earliest and end at EndHour+1:00 at the latest.
	BeginHour int
	EndHour   int

	// NotesLen is the maximum stored length of a booking's notes field.
	NotesLen int

	// MaxResourceNameLen caps resource names entered by administrators.
	MaxResourceNameLen int
}

// Load reads the configuration from the environment.
// It fails when the operating window is malformed, since every validation
// and calendar computation depends on it.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		BeginHour:          getEnvInt("BEGIN_HOUR", 7),
		EndHour:            getEnvInt("END_HOUR", 22),
		NotesLen:           getEnvInt("NOTES_LEN", 255),
		MaxResourceNameLen: getEnvInt("MAX_RESOURCE_NAME_LEN", 45),
	}

	if cfg.BeginHour < 0 || cfg.EndHour > 23 || cfg.BeginHour > cfg.EndHour {
		return Config{}, fmt.Errorf("invalid operating window %d-%d", cfg.BeginHour, cfg.EndHour)
	}
	if cfg.NotesLen < 1 {
		return Config{}, fmt.Errorf("invalid NOTES_LEN %d", cfg.NotesLen)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
