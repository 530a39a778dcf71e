package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/fulfillment-service-go/internal/routing"
)

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8084", cfg.App.Port)
	assert.Equal(t, "preferred", cfg.Fulfillment.Strategy)
	assert.True(t, cfg.Fulfillment.AutoSubmit)
	assert.False(t, cfg.Fulfillment.RejectUnroutable)
	assert.Equal(t, 4, cfg.Fulfillment.MaxConcurrentSubmissions)
	assert.Equal(t, 30*time.Second, cfg.CJDropshipping.Timeout)
	assert.False(t, cfg.CJDropshipping.Enabled())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FULFILLMENT_FULFILLMENT_STRATEGY", "cheapest")
	t.Setenv("FULFILLMENT_FULFILLMENT_AUTO_SUBMIT", "false")
	t.Setenv("FULFILLMENT_CJDROPSHIPPING_ACCESS_TOKEN", "tok")
	t.Setenv("FULFILLMENT_DATABASE_DSN", "postgres://x")

	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "cheapest", cfg.Fulfillment.Strategy)
	assert.False(t, cfg.Fulfillment.AutoSubmit)
	assert.True(t, cfg.CJDropshipping.Enabled())
	assert.Equal(t, "postgres://x", cfg.Database.DSN)
}

func TestTOMLFile(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[fulfillment]
strategy = "fastest"
max_concurrent_submissions = 2
reject_unroutable = true

[catalog]
path = "/etc/catalog.json"
`)))

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "fastest", cfg.Fulfillment.Strategy)
	assert.Equal(t, 2, cfg.Fulfillment.MaxConcurrentSubmissions)
	assert.True(t, cfg.Fulfillment.RejectUnroutable)
	assert.Equal(t, "/etc/catalog.json", cfg.Catalog.Path)
}

func TestValidate(t *testing.T) {
	t.Setenv("FULFILLMENT_FULFILLMENT_STRATEGY", "random")
	_, err := fromViper(viper.New())
	require.ErrorIs(t, err, routing.ErrUnknownStrategy)
}

func TestStrategyIsNormalized(t *testing.T) {
	t.Setenv("FULFILLMENT_FULFILLMENT_STRATEGY", " Cheapest ")
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "cheapest", cfg.Fulfillment.Strategy)
}
