package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("OPENAI_API_KEY", "sk_test")
	t.Setenv("ASSEMBLYAI_API_KEY", "")
	t.Setenv("PORT", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("ASSEMBLYAI_POLL_INTERVAL", "")
	t.Setenv("OPENAI_REQUEST_TIMEOUT", "")
	t.Setenv("PIPELINE_WORKERS", "")
	t.Setenv("GROQ_MODEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "meetscribe", cfg.Database.Name)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Groq.Model)
	assert.Equal(t, 5*time.Second, cfg.AssemblyAI.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.OpenAI.RequestTimeout)
	assert.Equal(t, int64(25), cfg.OpenAI.MaxPayloadMB)
	assert.Equal(t, 2, cfg.Pipeline.WorkerCount)
	assert.Equal(t, 64, cfg.Pipeline.QueueSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("ASSEMBLYAI_API_KEY", "aai_test")
	t.Setenv("PORT", "9090")
	t.Setenv("ASSEMBLYAI_POLL_INTERVAL", "250ms")
	t.Setenv("PIPELINE_WORKERS", "8")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.AssemblyAI.PollInterval)
	assert.Equal(t, 8, cfg.Pipeline.WorkerCount)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoadRequiresGroqKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk_test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestLoadRequiresTranscriptionProvider(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ASSEMBLYAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcription provider")
}

func TestValidateWorkerCount(t *testing.T) {
	cfg := &Config{
		Groq:     GroqConfig{APIKey: "gsk_test"},
		OpenAI:   OpenAIConfig{APIKey: "sk_test"},
		Pipeline: PipelineConfig{WorkerCount: 0},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PIPELINE_WORKERS")
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db",
			Port:     "5433",
			User:     "app",
			Password: "secret",
			Name:     "meetings",
			SSLMode:  "disable",
		},
	}

	assert.Equal(t,
		"host=db port=5433 user=app password=secret dbname=meetings sslmode=disable",
		cfg.GetDatabaseDSN())
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &Config{Redis: RedisConfig{Host: "cache", Port: "6380"}}
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
}
