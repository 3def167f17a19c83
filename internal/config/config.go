// Package config loads application configuration from a config file
// and PATHWISE_-prefixed environment variables, with env taking
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pathwise/pathwise/internal/llm"
	"github.com/pathwise/pathwise/internal/tutor"
)

// Config holds all application configuration.
type Config struct {
	// LogMode selects logger output: "dev" (console) or "prod" (JSON).
	LogMode string `mapstructure:"log_mode"`

	// DBPath overrides the default database location when set.
	DBPath string `mapstructure:"db_path"`

	// SnapshotKeep is how many snapshots Prune retains.
	SnapshotKeep int `mapstructure:"snapshot_keep"`

	// PassThreshold overrides the quiz pass threshold when > 0.
	// Debugging aid; leave unset in normal use.
	PassThreshold float64 `mapstructure:"pass_threshold"`

	LLM   LLMConfig   `mapstructure:"llm"`
	Tutor TutorConfig `mapstructure:"tutor"`
}

// LLMConfig selects and configures the LLM provider.
type LLMConfig struct {
	Provider       string        `mapstructure:"provider"`
	AnthropicModel string        `mapstructure:"anthropic_model"`
	OpenAIModel    string        `mapstructure:"openai_model"`
	GeminiModel    string        `mapstructure:"gemini_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// TutorConfig tunes generation sizes and question counts.
type TutorConfig struct {
	QuizQuestions          int `mapstructure:"quiz_questions"`
	PreAssessmentQuestions int `mapstructure:"pre_assessment_questions"`
	FinalExamQuestions     int `mapstructure:"final_exam_questions"`
	ContentMaxTokens       int `mapstructure:"content_max_tokens"`
}

// Load reads configuration. Search order for the optional config file:
// $XDG_CONFIG_HOME/pathwise/config.yaml, then ~/.config/pathwise/.
// Every key is also settable as PATHWISE_<KEY> (dots become
// underscores); API keys come only from the environment and are
// handled by the llm package.
func Load() (*Config, error) {
	v := viper.New()

	// Every key needs a default so AutomaticEnv can bind it during
	// Unmarshal.
	v.SetDefault("log_mode", "dev")
	v.SetDefault("db_path", "")
	v.SetDefault("snapshot_keep", 10)
	v.SetDefault("pass_threshold", 0.0)
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.anthropic_model", "")
	v.SetDefault("llm.openai_model", "")
	v.SetDefault("llm.gemini_model", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("tutor.quiz_questions", 5)
	v.SetDefault("tutor.pre_assessment_questions", 5)
	v.SetDefault("tutor.final_exam_questions", 10)
	v.SetDefault("tutor.content_max_tokens", 4096)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("PATHWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ProviderConfig merges the file/env settings into the llm package's
// env-discovered provider config.
func (c *Config) ProviderConfig() (llm.Config, error) {
	base := llm.ConfigFromEnv()
	if base.Provider == "anthropic" && base.Anthropic.APIKey == "" {
		// Nothing set explicitly; probe the standard key env vars.
		if discovered, ok := llm.DiscoverConfig(); ok {
			base = discovered
		}
	}

	if c.LLM.Provider != "" {
		base.Provider = c.LLM.Provider
	}
	if c.LLM.AnthropicModel != "" {
		base.Anthropic.Model = c.LLM.AnthropicModel
	}
	if c.LLM.OpenAIModel != "" {
		base.OpenAI.Model = c.LLM.OpenAIModel
	}
	if c.LLM.GeminiModel != "" {
		base.Gemini.Model = c.LLM.GeminiModel
	}
	if c.LLM.Timeout > 0 {
		base.Timeout = c.LLM.Timeout
	}

	if err := base.Validate(); err != nil {
		return llm.Config{}, err
	}
	return base, nil
}

// TutorConfig builds the tutor settings on top of its defaults.
func (c *Config) TutorSettings() tutor.Config {
	tc := tutor.DefaultConfig()
	if c.Tutor.QuizQuestions > 0 {
		tc.QuizQuestions = c.Tutor.QuizQuestions
	}
	if c.Tutor.PreAssessmentQuestions > 0 {
		tc.PreAssessmentQuestions = c.Tutor.PreAssessmentQuestions
	}
	if c.Tutor.FinalExamQuestions > 0 {
		tc.FinalExamQuestions = c.Tutor.FinalExamQuestions
	}
	if c.Tutor.ContentMaxTokens > 0 {
		tc.ContentMaxTokens = c.Tutor.ContentMaxTokens
	}
	return tc
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "pathwise")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pathwise")
}
