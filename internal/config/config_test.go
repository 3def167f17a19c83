package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.LogMode)
	require.Equal(t, 10, cfg.SnapshotKeep)
	require.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	require.Equal(t, 5, cfg.Tutor.QuizQuestions)
	require.Equal(t, 10, cfg.Tutor.FinalExamQuestions)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PATHWISE_LOG_MODE", "prod")
	t.Setenv("PATHWISE_TUTOR_QUIZ_QUESTIONS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.LogMode)
	require.Equal(t, 8, cfg.Tutor.QuizQuestions)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	appDir := filepath.Join(dir, "pathwise")
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	yaml := "log_mode: prod\nsnapshot_keep: 3\nllm:\n  provider: gemini\n"
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.LogMode)
	require.Equal(t, 3, cfg.SnapshotKeep)
	require.Equal(t, "gemini", cfg.LLM.Provider)
}

func TestProviderConfigMergesModel(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PATHWISE_ANTHROPIC_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	cfg.LLM.AnthropicModel = "claude-sonnet"

	pc, err := cfg.ProviderConfig()
	require.NoError(t, err)
	require.Equal(t, "anthropic", pc.Provider)
	require.Equal(t, "claude-sonnet", pc.Anthropic.Model)
	require.Equal(t, "test-key", pc.Anthropic.APIKey)
}

func TestTutorSettingsOverride(t *testing.T) {
	c := &Config{Tutor: TutorConfig{QuizQuestions: 7}}
	tc := c.TutorSettings()
	require.Equal(t, 7, tc.QuizQuestions)
	require.Equal(t, 10, tc.FinalExamQuestions)
}
