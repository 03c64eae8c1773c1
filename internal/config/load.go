package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. WRAPPED_SERVER_PORT.
const EnvPrefix = "WRAPPED"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory or ./config. Environment variables take
// precedence over values from the file. The result is validated.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is like Load but reads the config file at path when path is not
// empty.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.call_timeout_seconds", 60)

	v.SetDefault("images.model", "gpt-image-1")
	v.SetDefault("images.size", "1024x1024")
	v.SetDefault("images.quality", "low")

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl_hours", 24)

	v.SetDefault("archive.backend", "memory")

	v.SetDefault("generation.max_concurrency", 8)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 32)

	v.SetDefault("onchain.timeout_seconds", 15)
}

// bindEnvs registers keys that have no default so AutomaticEnv can see them
// during Unmarshal.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"llm.gemini_api_key",
		"images.openai_api_key",
		"cache.redis_url",
		"archive.bucket",
		"archive.database_url",
		"archive.public_base_url",
		"generation.generators_file",
		"generation.temp_dir",
		"onchain.reputation_url",
		"onchain.api_key",
	} {
		_ = v.BindEnv(key)
	}
}
