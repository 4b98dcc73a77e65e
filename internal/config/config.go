package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/foosball-elo/internal/rating"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() Config {
	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Slack: SlackConfig{
			Token:         optional("SLACK_BOT_TOKEN", ""),
			ChannelID:     optional("SLACK_CHANNEL_ID", ""),
			SigningSecret: optional("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: optional("GCP_PROJECT", ""),
		PushToken: optional("PUBSUB_PUSH_TOKEN", ""),
		JWTSecret: getEnv("JWT_SECRET"),
		Rating: RatingConfig{
			AdaptionStep:      optionalFloat("RATING_ADAPTION_STEP", rating.DefaultAdaptionStep),
			Scale:             optionalFloat("RATING_SCALE", rating.DefaultScale),
			Initial:           optionalInt("RATING_INITIAL", rating.InitialRating),
			InactivityPenalty: optionalBool("INACTIVITY_PENALTY_ENABLED", true),
		},
	}
	return cfg
}

// Params returns the rating engine parameters.
func (r RatingConfig) Params() rating.Params {
	return rating.Params{AdaptionStep: r.AdaptionStep, Scale: r.Scale}
}

// DefaultRating returns the rating settings used when nothing is configured.
func DefaultRating() RatingConfig {
	return RatingConfig{
		AdaptionStep:      rating.DefaultAdaptionStep,
		Scale:             rating.DefaultScale,
		Initial:           rating.InitialRating,
		InactivityPenalty: true,
	}
}

func optional(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func optionalFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Fatalf("Error: %s must be a positive number, got %q", key, raw)
	}
	return v
}

func optionalInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Error: %s must be an integer, got %q", key, raw)
	}
	return v
}

func optionalBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Fatalf("Error: %s must be true or false, got %q", key, raw)
	}
	return v
}
