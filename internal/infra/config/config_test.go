package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(nil, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "simulator", cfg.Pix.Mode)

	oc, err := cfg.Orchestrator()
	require.NoError(t, err)
	assert.True(t, oc.DepositAmount.Equal(decimal.RequireFromString("4.90")))
	assert.Equal(t, 3*time.Second, oc.PollPeriod)
	assert.Equal(t, 2500*time.Millisecond, oc.SettleDelay)
	assert.Equal(t, 3*time.Second, oc.DeclineDisplay)
	assert.Equal(t, 3*time.Second, oc.CloseDelay)
	assert.False(t, oc.FailureBackoff.Enabled())
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	path := writeFile(t, `
http:
  addr: ":9000"
log:
  level: debug
deposit:
  amount: "10.00"
  decline_display: 20s
  max_polls: 40
storage:
  driver: sqlite
  path: /tmp/kyc.db
`)

	cfg, err := config.LoadFrom(
		[]string{"--config", path, "--addr", ":9100"},
		map[string]string{
			"KYC_DEPOSIT_AMOUNT":       "7.50",
			"KYC_DEPOSIT_BACKOFF_BASE": "2s",
			"KYC_LOG_LEVEL":            "warn",
		},
	)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.HTTP.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)

	oc, err := cfg.Orchestrator()
	require.NoError(t, err)
	assert.True(t, oc.DepositAmount.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, 20*time.Second, oc.DeclineDisplay)
	assert.Equal(t, 40, oc.MaxPolls)
	assert.Equal(t, 2*time.Second, oc.FailureBackoff.BaseDelay)
	assert.Equal(t, 3*time.Second, oc.PollPeriod)
}

func TestLoad_WhenInvalid_ShouldFail(t *testing.T) {
	cases := map[string]map[string]string{
		"amount":  {"KYC_DEPOSIT_AMOUNT": "free"},
		"zero":    {"KYC_DEPOSIT_AMOUNT": "0"},
		"storage": {"KYC_STORAGE_DRIVER": "postgres"},
		"pix":     {"KYC_PIX_MODE": "http"},
		"policy":  {"KYC_DEPOSIT_POLICY": "coin-flip"},
	}

	for name, environment := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadFrom(nil, environment)
			require.Error(t, err)
		})
	}
}

func TestLoad_WhenFileMissing_ShouldFail(t *testing.T) {
	_, err := config.LoadFrom([]string{"-c", filepath.Join(t.TempDir(), "nope.yaml")}, map[string]string{})
	require.Error(t, err)
}

func TestLoad_WhenUnknownFlag_ShouldFail(t *testing.T) {
	_, err := config.LoadFrom([]string{"--nope"}, map[string]string{})
	require.Error(t, err)
}
