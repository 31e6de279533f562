package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// RedisURI enables the global leaderboard when set; gameplay
	// never depends on it.
	RedisURI string `env:"REDIS_URI"`

	// QuestionsPath overrides the embedded question bank.
	QuestionsPath string `env:"QUESTIONS_PATH"`

	RoomInactivityTTL time.Duration `env:"ROOM_INACTIVITY_TTL" envDefault:"1h"`
	SweepInterval     time.Duration `env:"SWEEP_INTERVAL" envDefault:"30m"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

// Load reads .env (when present) and parses the environment.
func Load() (*Config, error) {
	godotenv.Load()
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
