package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"sozluk/internal/services"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	SessionName   string
	GinMode       string

	Rates         services.Rates
	VoteRateLimit float64
	VoteBurst     int
	MaxAnonVotes  int
	TabCacheTTL   time.Duration
}

// Load reads .env (if present) and the environment. VOTE_RATES_FILE may point
// to a YAML file overriding the default vote rates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=sozluk port=5432 sslmode=disable"),
		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
		SessionName:   getEnv("SESSION_NAME", "sozluk_session"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		Rates:         services.DefaultRates,
	}

	var err error
	if cfg.VoteRateLimit, err = strconv.ParseFloat(getEnv("VOTE_RATE_LIMIT", "2"), 64); err != nil {
		return nil, fmt.Errorf("VOTE_RATE_LIMIT: %w", err)
	}
	if cfg.VoteBurst, err = strconv.Atoi(getEnv("VOTE_RATE_BURST", "10")); err != nil {
		return nil, fmt.Errorf("VOTE_RATE_BURST: %w", err)
	}
	if cfg.MaxAnonVotes, err = strconv.Atoi(getEnv("MAX_ANON_VOTES", strconv.Itoa(services.DefaultMaxAnonVotes))); err != nil {
		return nil, fmt.Errorf("MAX_ANON_VOTES: %w", err)
	}
	if cfg.TabCacheTTL, err = time.ParseDuration(getEnv("TAB_CACHE_TTL", "1m")); err != nil {
		return nil, fmt.Errorf("TAB_CACHE_TTL: %w", err)
	}

	if path := os.Getenv("VOTE_RATES_FILE"); path != "" {
		if cfg.Rates, err = LoadRates(path, cfg.Rates); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.VoteRateLimit <= 0 {
		return fmt.Errorf("VOTE_RATE_LIMIT must be positive, got %v", c.VoteRateLimit)
	}
	if c.VoteBurst < 1 {
		return fmt.Errorf("VOTE_RATE_BURST must be at least 1, got %d", c.VoteBurst)
	}
	if c.MaxAnonVotes < 1 || c.MaxAnonVotes > services.MaxAnonVotesLimit {
		return fmt.Errorf("MAX_ANON_VOTES must be between 1 and %d, got %d", services.MaxAnonVotesLimit, c.MaxAnonVotes)
	}
	if err := c.Rates.Validate(); err != nil {
		return fmt.Errorf("vote rates: %w", err)
	}
	return nil
}

// rateFile is the YAML layout of VOTE_RATES_FILE. Values are strings so that
// they parse exactly; empty fields keep the base rate.
type rateFile struct {
	Increase                string `yaml:"increase"`
	Reduce                  string `yaml:"reduce"`
	AnonymousMultiplier     string `yaml:"anonymous_multiplier"`
	AuthenticatedMultiplier string `yaml:"authenticated_multiplier"`
}

// LoadRates reads a rate file and applies it on top of base.
func LoadRates(path string, base services.Rates) (services.Rates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read vote rates: %w", err)
	}
	return ParseRates(raw, base)
}

func ParseRates(raw []byte, base services.Rates) (services.Rates, error) {
	var f rateFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return base, fmt.Errorf("parse vote rates: %w", err)
	}

	out := base
	for _, field := range []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"increase", f.Increase, &out.Increase},
		{"reduce", f.Reduce, &out.Reduce},
		{"anonymous_multiplier", f.AnonymousMultiplier, &out.AnonymousMultiplier},
		{"authenticated_multiplier", f.AuthenticatedMultiplier, &out.AuthenticatedMultiplier},
	} {
		if field.value == "" {
			continue
		}
		d, err := decimal.NewFromString(field.value)
		if err != nil {
			return base, fmt.Errorf("vote rates %s: %w", field.name, err)
		}
		*field.dst = d
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
