package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalYAML(t *testing.T) {
	var cfg struct {
		Lag Duration `yaml:"lag"`
		TTL Duration `yaml:"ttl"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("lag: 168h\nttl: 10m\n"), &cfg))
	assert.Equal(t, 7*24*time.Hour, cfg.Lag.Std())
	assert.Equal(t, 10*time.Minute, cfg.TTL.Std())

	err := yaml.Unmarshal([]byte("lag: not-a-duration\n"), &cfg)
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := defaults()
	assert.Equal(t, "order-service", cfg.App.Name)
	assert.Equal(t, 15.0, cfg.Billing.StandardRate)
	assert.Equal(t, 10.0, cfg.Billing.PrimeRate)
	assert.Equal(t, 7*24*time.Hour, cfg.Billing.OrderCompleteDuration.Std())
	assert.Equal(t, 10*time.Minute, cfg.Billing.StoreCacheTTL.Std())
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MYSQL_DSN", "user:pass@tcp(db:3306)/orders")
	t.Setenv("ORDER_COMPLETE_DURATION", "72h")

	cfg := defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, "user:pass@tcp(db:3306)/orders", cfg.Infra.MysqlDSN)
	assert.Equal(t, 72*time.Hour, cfg.Billing.OrderCompleteDuration.Std())
}
