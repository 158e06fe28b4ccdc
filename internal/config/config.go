package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"local"`

	// LLM settings. An empty API key disables remote classification and the
	// analyzer runs fully on the heuristic path.
	LLMAPIKey    string        `env:"LLM_API_KEY"`
	LLMBaseURL   string        `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel     string        `env:"LLM_MODEL" envDefault:"llama3-8b-8192"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	RateLimitRPS int           `env:"RATE_LIMIT_RPS" envDefault:"1"`

	// Bot mode.
	BotToken string `env:"BOT_TOKEN"`

	// Web mode.
	ListenPort     int    `env:"LISTEN_PORT" envDefault:"8000"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	HealthPort int `env:"HEALTH_PORT" envDefault:"8080"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
