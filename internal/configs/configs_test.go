package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.AdviceModel)
	assert.Equal(t, 10*time.Second, cfg.AdviceTimeout)

	assert.Equal(t, 70, cfg.Match.BaseScore)
	assert.Equal(t, 5, cfg.Match.PerSkillBonus)
	assert.Equal(t, 10, cfg.Match.RecencyBonus)
	assert.Equal(t, 95, cfg.Match.MaxScore)
	assert.Equal(t, 7*24*time.Hour, cfg.Match.RecencyWindow)
}

func TestLoadConfigMatchOverrides(t *testing.T) {
	t.Setenv("MATCH_BASE_SCORE", "50")
	t.Setenv("MATCH_PER_SKILL_BONUS", "8")
	t.Setenv("MATCH_RECENCY_BONUS", "20")
	t.Setenv("MATCH_MAX_SCORE", "99")
	t.Setenv("MATCH_RECENCY_DAYS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Match.BaseScore)
	assert.Equal(t, 8, cfg.Match.PerSkillBonus)
	assert.Equal(t, 20, cfg.Match.RecencyBonus)
	assert.Equal(t, 99, cfg.Match.MaxScore)
	assert.Equal(t, 3*24*time.Hour, cfg.Match.RecencyWindow)
}

func TestLoadConfigRejectsBaseAboveCap(t *testing.T) {
	t.Setenv("MATCH_BASE_SCORE", "96")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "80")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "not-a-number")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRequiresSecretsOutsideDevelopment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://app@db:5432/skillswap")
	t.Setenv("ADVICE_API_KEY", "sk-test")

	_, err := LoadConfig()
	assert.Error(t, err, "JWT_SECRET must be required in production")

	t.Setenv("JWT_SECRET", "supersecret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
}

func TestLoadConfigParsesAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://skillswap.app, https://staging.skillswap.app ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://skillswap.app", "https://staging.skillswap.app"}, cfg.AllowedOrigins)
}
