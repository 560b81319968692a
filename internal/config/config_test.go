package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	v.Set("projectid", "demo-project")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "demo-project", cfg.ProjectID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendFirestore, cfg.StoreBackend)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, FirestoreCacheStaleTime, cfg.CacheStaleTime)
	assert.Equal(t, 10*time.Second, cfg.CacheFetchTimeout)
	assert.False(t, cfg.SMTPEnabled())
}

func TestCacheStaleTimeDefaultsByBackend(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   time.Duration
	}{
		{"firestore bounds staleness", map[string]any{"projectid": "p"}, FirestoreCacheStaleTime},
		{"firestore explicit zero", map[string]any{"projectid": "p", "cachestaletime": "0s"}, 0},
		{"firestore explicit value", map[string]any{"projectid": "p", "cachestaletime": "5s"}, 5 * time.Second},
		{"sqlite keeps until invalidated", map[string]any{"storebackend": "sqlite"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.values {
				v.Set(k, val)
			}
			cfg, err := Load(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.CacheStaleTime)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STOREBACKEND", "sqlite")
	t.Setenv("SQLITEPATH", "/tmp/ledger.db")
	t.Setenv("CACHESTALETIME", "2m")
	t.Setenv("CACHEFETCHTIMEOUT", "3s")
	t.Setenv("LOGLEVEL", "debug")
	t.Setenv("SMTPHOST", "smtp.example.com")
	t.Setenv("SMTPFROM", "noreply@example.com")

	v := viper.New()
	v.AutomaticEnv()
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "/tmp/ledger.db", cfg.SQLitePath)
	assert.Equal(t, 2*time.Minute, cfg.CacheStaleTime)
	assert.Equal(t, 3*time.Second, cfg.CacheFetchTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.True(t, cfg.SMTPEnabled())
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"firestore without project", map[string]any{}},
		{"unknown backend", map[string]any{"storebackend": "postgres"}},
		{"smtp without sender", map[string]any{"projectid": "p", "smtphost": "smtp.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.values {
				v.Set(k, val)
			}
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}
