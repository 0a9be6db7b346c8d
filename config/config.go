package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// App holds all process configuration, loaded once at startup.
type App struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	HTTPAddr      string `envconfig:"HTTP_ADDR" default:":8000"`
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"*"`

	// SeedDemoData populates the database with synthetic accounts, pets and
	// inquiries on startup. Development only.
	SeedDemoData bool `envconfig:"SEED_DEMO_DATA" default:"false"`
}

// Load reads configuration from the environment, merging in a .env file when
// one is present in the working directory.
func Load() (App, error) {
	_ = godotenv.Load()

	var c App
	err := envconfig.Process("", &c)
	return c, err
}
