package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sozluk/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "VOTE_RATE_LIMIT", "VOTE_RATE_BURST", "MAX_ANON_VOTES", "TAB_CACHE_TTL", "VOTE_RATES_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2.0, cfg.VoteRateLimit)
	assert.Equal(t, 10, cfg.VoteBurst)
	assert.Equal(t, services.DefaultMaxAnonVotes, cfg.MaxAnonVotes)
	assert.Equal(t, time.Minute, cfg.TabCacheTTL)
	assert.True(t, cfg.Rates.Increase.Equal(decimal.RequireFromString("0.2")))
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("increase: \"0.4\"\nanonymous_multiplier: \"0.25\"\n"), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("VOTE_RATE_BURST", "3")
	t.Setenv("TAB_CACHE_TTL", "30s")
	t.Setenv("VOTE_RATES_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.VoteBurst)
	assert.Equal(t, 30*time.Second, cfg.TabCacheTTL)
	assert.Equal(t, services.Hundredths(10), cfg.Rates.Weighted(services.VoteUp, true))
	assert.Equal(t, services.Hundredths(-20), cfg.Rates.Weighted(services.VoteDown, false))
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"rate not a number", "VOTE_RATE_LIMIT", "fast"},
		{"zero burst", "VOTE_RATE_BURST", "0"},
		{"anon list too long for the cookie", "MAX_ANON_VOTES", "200"},
		{"bad ttl", "TAB_CACHE_TTL", "soon"},
		{"missing rates file", "VOTE_RATES_FILE", "/nonexistent/rates.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseRates(t *testing.T) {
	rates, err := ParseRates([]byte(`
increase: "0.3"
reduce: "-0.1"
`), services.DefaultRates)
	require.NoError(t, err)
	assert.True(t, rates.Increase.Equal(decimal.RequireFromString("0.3")))
	assert.True(t, rates.Reduce.Equal(decimal.RequireFromString("-0.1")))
	assert.True(t, rates.AnonymousMultiplier.Equal(services.DefaultRates.AnonymousMultiplier), "unset fields keep the base")

	_, err = ParseRates([]byte(`increase: "lots"`), services.DefaultRates)
	assert.ErrorContains(t, err, "increase")

	_, err = ParseRates([]byte("increase: [1"), services.DefaultRates)
	assert.Error(t, err)
}

func TestValidateRates(t *testing.T) {
	cfg := &Config{VoteRateLimit: 1, VoteBurst: 1, MaxAnonVotes: 1, Rates: services.DefaultRates}
	require.NoError(t, cfg.Validate())

	cfg.Rates.AnonymousMultiplier = decimal.RequireFromString("0.33")
	assert.ErrorContains(t, cfg.Validate(), "two decimal places")

	cfg.Rates = services.DefaultRates
	cfg.Rates.Reduce = decimal.RequireFromString("0.2")
	assert.Error(t, cfg.Validate())

	cfg.Rates = services.DefaultRates
	cfg.MaxAnonVotes = 0
	assert.Error(t, cfg.Validate())

	cfg.MaxAnonVotes = services.MaxAnonVotesLimit + 1
	assert.ErrorContains(t, cfg.Validate(), "MAX_ANON_VOTES")
	cfg.MaxAnonVotes = services.MaxAnonVotesLimit
	assert.NoError(t, cfg.Validate())
}
