package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	r := NewResolver(mapLookup(map[string]string{KeySessionStore: SessionMemory}), nil)

	cfg, err := Load(r, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, RealtimeStub, cfg.RealtimeMode)
	assert.Equal(t, RequestTimeout, cfg.Timeout)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvironmentBeatsFile(t *testing.T) {
	r := NewResolver(mapLookup(map[string]string{
		KeyAPIURL:       "https://env.example.com/api",
		KeySessionStore: SessionMemory,
	}), nil)

	file := &FileConfig{APIURL: "https://file.example.com/api", RealtimeMode: RealtimeWebSocket}

	cfg, err := Load(r, file)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api", cfg.APIURL)
	assert.Equal(t, RealtimeWebSocket, cfg.RealtimeMode)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		msg  string
	}{
		{
			name: "relative api url",
			vars: map[string]string{KeyAPIURL: "/api", KeySessionStore: SessionMemory},
			msg:  KeyAPIURL,
		},
		{
			name: "unknown realtime mode",
			vars: map[string]string{KeyRealtimeMode: "sse", KeySessionStore: SessionMemory},
			msg:  KeyRealtimeMode,
		},
		{
			name: "redis without url",
			vars: map[string]string{KeySessionStore: SessionRedis},
			msg:  KeyRedisURL,
		},
		{
			name: "bad insights ttl",
			vars: map[string]string{KeyInsightsCache: "soon", KeySessionStore: SessionMemory},
			msg:  KeyInsightsCache,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(NewResolver(mapLookup(tt.vars), nil), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	cfg, err := Load(NewResolver(mapLookup(map[string]string{KeySessionStore: SessionMemory}), nil), nil)
	require.NoError(t, err)

	require.NoError(t, cfg.ApplyFlags(Flags{APIURL: "https://flag.example.com/api"}))
	assert.Equal(t, "https://flag.example.com/api", cfg.APIURL)

	assert.Error(t, cfg.ApplyFlags(Flags{SessionStore: "cookie"}))
}

func TestFileConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	missing, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, &FileConfig{}, missing)

	fc := &FileConfig{APIURL: "https://fleet.example.com/api", RealtimeMode: RealtimeWebSocket}
	require.NoError(t, fc.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fc, loaded)
}
