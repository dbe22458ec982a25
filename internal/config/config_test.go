package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_SESSION_JWT_SECRET", "test-secret")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "karts-club", cfg.MongoDatabase)
	assert.Equal(t, "artworks", cfg.ArtworkCollection)
	assert.Equal(t, "surveys", cfg.SurveyCollection)
	assert.Equal(t, "b_passwords", cfg.BPasswordCollection)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)

	assert.Equal(t, []byte("test-secret"), cfg.SessionSecret)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)

	assert.Equal(t, "1221", cfg.SharedLoginSecret)
	assert.Equal(t, BPasswordRegistered, cfg.BPasswordPolicy)
	assert.Equal(t, "E00002", cfg.BPasswordManagerCode)

	assert.Equal(t, FeaturedByTimestamp, cfg.FeaturedMode)
	assert.Equal(t, 8, cfg.FeaturedCapacity)
	assert.True(t, cfg.FeatureRequireComment)

	require.NotNil(t, cfg.ServerLog)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_SESSION_JWT_SECRET", "test-secret")
	t.Setenv("B_PASSWORD_POLICY", "any4")
	t.Setenv("FEATURED_MODE", "slots")
	t.Setenv("FEATURE_REQUIRE_COMMENT", "false")
	t.Setenv("SESSION_TOKEN_TTL", "30m")
	t.Setenv("API_ALLOWED_ORIGINS", "https://karts.example.com, https://admin.karts.example.com")

	cfg := Load()

	assert.Equal(t, BPasswordAnyFourDigits, cfg.BPasswordPolicy)
	assert.Equal(t, FeaturedBySlots, cfg.FeaturedMode)
	// slots 方式の既定スロット数は 2
	assert.Equal(t, 2, cfg.FeaturedCapacity)
	assert.False(t, cfg.FeatureRequireComment)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://karts.example.com", "https://admin.karts.example.com"}, cfg.AllowedOrigins)
}

func TestLoadCapacityOverride(t *testing.T) {
	t.Setenv("AUTH_SESSION_JWT_SECRET", "test-secret")
	t.Setenv("FEATURED_CAPACITY", "12")

	cfg := Load()
	assert.Equal(t, 12, cfg.FeaturedCapacity)
}

func TestParsePolicyAndMode(t *testing.T) {
	assert.Equal(t, BPasswordNone, parseBPasswordPolicy(" NONE "))
	assert.Equal(t, BPasswordAnyFourDigits, parseBPasswordPolicy("any4"))
	assert.Equal(t, BPasswordRegistered, parseBPasswordPolicy(""))
	assert.Equal(t, BPasswordRegistered, parseBPasswordPolicy("unknown"))

	assert.Equal(t, FeaturedBySlots, parseFeaturedMode("Slots"))
	assert.Equal(t, FeaturedByTimestamp, parseFeaturedMode(""))
	assert.Equal(t, FeaturedByTimestamp, parseFeaturedMode("unknown"))
}
