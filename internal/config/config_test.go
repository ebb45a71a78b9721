package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("populates all fields", func(t *testing.T) {
		cfg, err := NewConfig("localhost:8000", "postgres://localhost/dmchat",
			"dGVzdC1zaWduaW5nLWtleQ==", []string{"http://localhost:3000"}, true)
		require.NoError(t, err, "expected no error")

		assert.Equal(t, "localhost:8000", cfg.ServerAddr)
		assert.Equal(t, "postgres://localhost/dmchat", cfg.DatabaseDSN)
		assert.Equal(t, []byte("test-signing-key"), cfg.SigningKey, "expected decoded signing key")
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
		assert.True(t, cfg.AllowSelfMessages)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		tt := []struct {
			name                            string
			serverAddr, databaseDSN, secret string
		}{
			{"empty server address", "", "dsn", "c2VjcmV0"},
			{"empty database DSN", "localhost:8000", "", "c2VjcmV0"},
			{"empty signing secret", "localhost:8000", "dsn", ""},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				cfg, err := NewConfig(tc.serverAddr, tc.databaseDSN, tc.secret, nil, false)
				assert.Error(t, err, "expected error")
				assert.Nil(t, cfg, "expected no config")
			})
		}
	})

	t.Run("rejects invalid base64 secret", func(t *testing.T) {
		cfg, err := NewConfig("localhost:8000", "dsn", "not-base64!!!", nil, false)
		assert.ErrorContains(t, err, "decode signing secret")
		assert.Nil(t, cfg)
	})
}
