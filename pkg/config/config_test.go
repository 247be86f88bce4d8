package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Pairing.BFIEnabled)
	assert.True(t, cfg.Pairing.VARKEnabled)
	assert.Equal(t, 1.0, cfg.Pairing.BFIWeight)
	assert.Equal(t, 60, cfg.Availability.SlotMinutes)
	assert.Equal(t, 10*time.Minute, cfg.Availability.CacheTTL)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("PAIRING_VARK_ENABLED", false)
	v.Set("PAIRING_BFI_WEIGHT", 2.5)
	v.Set("PAIRING_FETCH_CONCURRENCY", -1)
	v.Set("AVAILABILITY_CACHE_TTL", "not-a-duration")
	v.Set("JWT_AUDIENCE", "web, admin ,")

	cfg := fromViper(v)

	assert.False(t, cfg.Pairing.VARKEnabled)
	assert.Equal(t, 2.5, cfg.Pairing.BFIWeight)
	assert.Equal(t, 4, cfg.Pairing.FetchConcurrency)
	assert.Equal(t, 10*time.Minute, cfg.Availability.CacheTTL)
	assert.Equal(t, []string{"web", "admin"}, cfg.JWT.Audience)
}
