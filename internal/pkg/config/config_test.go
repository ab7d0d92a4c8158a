package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://airq:airq@db:5432/airq")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "postgres://airq:airq@db:5432/airq", cfg.DatabaseURL)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.Server.GraphiQL)
	assert.False(t, cfg.MQTT.Enabled())
	assert.Equal(t, "@every 1m", cfg.Simulator.Schedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("HTTP_CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://airq.example.com")
	t.Setenv("HTTP_GRAPHIQL", "false")
	t.Setenv("MQTT_HOST", "tcp://broker:1883")
	t.Setenv("SIMULATOR_SCHEDULE", "*/5 * * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000", "https://airq.example.com"}, cfg.Server.CORSAllowedOrigins)
	assert.False(t, cfg.Server.GraphiQL)
	assert.True(t, cfg.MQTT.Enabled())
	assert.Equal(t, "homeassistant/sensor", cfg.MQTT.TopicPrefix)
	assert.Equal(t, "*/5 * * * *", cfg.Simulator.Schedule)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=DEBUG\nHTTP_ADDR=:9000\n"), 0o600))
	t.Setenv("HTTP_ADDR", ":7000")
	// godotenv.Load sets LOG_LEVEL for the whole process; restore it afterwards.
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, ":7000", cfg.Server.Addr, "environment wins over the file")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
