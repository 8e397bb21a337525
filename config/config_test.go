package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"BACKEND_URL":    "http://localhost:8000",
		"SESSION_SECRET": strings.Repeat("s", 32),
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 1800*time.Millisecond, cfg.PaymentProcessingDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.PaymentConfirmDelay)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Nil(t, cfg.SessionKey)
	assert.Empty(t, cfg.R2BucketName)
	assert.False(t, cfg.SecureCookies)
}

func TestFromEnv_RequiredVariables(t *testing.T) {
	for _, name := range []string{"BACKEND_URL", "SESSION_SECRET"} {
		env := baseEnv()
		delete(env, name)
		_, err := FromEnv(envOf(env))
		require.Error(t, err)
		assert.Contains(t, err.Error(), name)
	}
}

func TestFromEnv_ShortSecret(t *testing.T) {
	env := baseEnv()
	env["SESSION_SECRET"] = "short"
	_, err := FromEnv(envOf(env))
	assert.Error(t, err)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"SERVER_PORT":           "70000",
		"BACKEND_TIMEOUT":       "soon",
		"PAYMENT_CONFIRM_DELAY": "-1s",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			env := baseEnv()
			env[name] = value
			_, err := FromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_DatabaseNeedsEncryptionKey(t *testing.T) {
	env := baseEnv()
	env["DATABASE_URL"] = "postgres://localhost/portal?sslmode=disable"
	_, err := FromEnv(envOf(env))
	require.Error(t, err)

	env["SESSION_ENCRYPTION_KEY"] = "abcd"
	_, err = FromEnv(envOf(env))
	require.Error(t, err)

	env["SESSION_ENCRYPTION_KEY"] = strings.Repeat("ab", 32)
	cfg, err := FromEnv(envOf(env))
	require.NoError(t, err)
	require.NotNil(t, cfg.SessionKey)
	assert.Equal(t, byte(0xab), cfg.SessionKey[31])
}

func TestFromEnv_OriginsAndR2(t *testing.T) {
	env := baseEnv()
	env["ALLOWED_ORIGINS"] = "http://localhost:5173, https://portal.example.com ,"
	env["R2_ACCOUNT_ID"] = "acc"
	env["R2_ACCESS_KEY_ID"] = "key"
	env["R2_SECRET_ACCESS_KEY"] = "secret"
	env["R2_BUCKET_NAME"] = "rosters"
	env["R2_PUBLIC_BASE_URL"] = "https://cdn.example.com"

	cfg, err := FromEnv(envOf(env))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://portal.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "rosters", cfg.R2BucketName)
	assert.Equal(t, "https://cdn.example.com", cfg.R2PublicBaseURL)
}
