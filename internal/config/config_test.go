package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DB_NAME", "ladder.db")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")

	cfg := FromEnv()

	assert.Equal(t, "ladder.db", cfg.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.Slack.Token)
	assert.Equal(t, DefaultRating(), cfg.Rating)
	assert.Equal(t, 64.0, cfg.Rating.Params().AdaptionStep)
}

func TestFromEnvRatingOverrides(t *testing.T) {
	t.Setenv("DB_NAME", "ladder.db")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RATING_ADAPTION_STEP", "32")
	t.Setenv("RATING_SCALE", "800")
	t.Setenv("RATING_INITIAL", "1000")
	t.Setenv("INACTIVITY_PENALTY_ENABLED", "false")

	cfg := FromEnv()

	assert.Equal(t, RatingConfig{AdaptionStep: 32, Scale: 800, Initial: 1000, InactivityPenalty: false}, cfg.Rating)
}
