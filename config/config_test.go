package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for key := range defaults {
		t.Setenv(key, "")
	}

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "memory", cfg.Provider)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, "nova-sdk.com", cfg.ProxyUpstream)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("POOL_OPERATOR_ACCOUNT", "operator.testnet")
	t.Setenv("PROVIDER", "remote")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "operator.testnet", cfg.OperatorAccount)
	assert.Equal(t, "remote", cfg.Provider)
}

func TestValidate(t *testing.T) {
	valid := Config{Port: "3001", PollInterval: time.Second, Provider: "memory"}
	require.NoError(t, valid.Validate())

	noPort := valid
	noPort.Port = ""
	assert.Error(t, noPort.Validate())

	badInterval := valid
	badInterval.PollInterval = 0
	assert.Error(t, badInterval.Validate())

	dynamoWithoutBucket := valid
	dynamoWithoutBucket.Provider = "dynamo"
	assert.Error(t, dynamoWithoutBucket.Validate())
}
