package myconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port               string  `env:"PORT" env-default:"8080"`
	StripeSecretKey    string  `env:"STRIPE_SECRET_KEY"`
	StripePublicKey    string  `env:"STRIPE_PUBLIC_KEY"`
	CheckoutAPIURL     string  `env:"CHECKOUT_API_URL"`
	GoogleCloudProject string  `env:"GOOGLE_CLOUD_PROJECT"`
	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" env-default:"5"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" env-default:"10"`
}

// Load reads the environment, after merging an optional .env file for local
// development. Absent Stripe keys are not an error: the features depending on
// them degrade instead.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	err := godotenv.Load(envFiles...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error reading env-file %v: %s", envFiles, err)
	}

	cfg := Config{}
	err = cleanenv.ReadEnv(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error reading environment: %s", err)
	}

	return cfg, nil
}

func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}
	return cfg
}

// Problems lists configuration gaps that disable part of the site.
func (c Config) Problems() []string {
	problems := []string{}
	if c.StripeSecretKey == "" {
		problems = append(problems, "STRIPE_SECRET_KEY is not set in environment variables")
	}
	if c.StripePublicKey == "" {
		problems = append(problems, "STRIPE_PUBLIC_KEY is not set in environment variables")
	}
	return problems
}

func (c Config) String() string {
	return fmt.Sprintf("port:%s, secret-key-set:%t, public-key-set:%t, checkout-api:%q, project:%q, rate-limit:%.1f/s (burst %d)",
		c.Port, c.StripeSecretKey != "", c.StripePublicKey != "", c.CheckoutAPIURL, c.GoogleCloudProject, c.RateLimitPerSecond, c.RateLimitBurst)
}
