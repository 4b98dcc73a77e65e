package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Slack     SlackConfig
	Turso     TursoConfig
	ProjectID string
	PushToken string
	JWTSecret string
	Rating    RatingConfig
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// RatingConfig tunes the rating engine.
type RatingConfig struct {
	AdaptionStep      float64
	Scale             float64
	Initial           int
	InactivityPenalty bool
}
