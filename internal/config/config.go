package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Images     ImagesConfig     `mapstructure:"images"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Archive    ArchiveConfig    `mapstructure:"archive" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Task       TaskConfig       `mapstructure:"task" validate:"required"`
	Onchain    OnchainConfig    `mapstructure:"onchain"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// LLMConfig contains the structured-output model settings.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName          string `mapstructure:"model_name" validate:"required"`
	MaxRetries         int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
	CallTimeoutSeconds int    `mapstructure:"call_timeout_seconds" validate:"gte=1,lte=600"`
}

// ImagesConfig contains the image model settings. Without an API key image
// generators fall back to SVG.
type ImagesConfig struct {
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	Model        string `mapstructure:"model" validate:"required"`
	Size         string `mapstructure:"size" validate:"required"`
	Quality      string `mapstructure:"quality" validate:"required,oneof=low medium high auto"`
}

// CacheConfig selects the collection cache backend.
type CacheConfig struct {
	Backend  string `mapstructure:"backend" validate:"required,oneof=redis memory"`
	RedisURL string `mapstructure:"redis_url" validate:"required_if=Backend redis"`
	TTLHours int    `mapstructure:"ttl_hours" validate:"gte=1"`
}

// ArchiveConfig selects the deck archive and media storage backend.
type ArchiveConfig struct {
	Backend       string `mapstructure:"backend" validate:"required,oneof=gcs postgres memory"`
	Bucket        string `mapstructure:"bucket" validate:"required_if=Backend gcs"`
	DatabaseURL   string `mapstructure:"database_url" validate:"required_if=Backend postgres"`
	PublicBaseURL string `mapstructure:"public_base_url" validate:"omitempty,url"`
}

// GenerationConfig controls deck generation.
type GenerationConfig struct {
	MaxConcurrency int    `mapstructure:"max_concurrency" validate:"gte=1,lte=64"`
	GeneratorsFile string `mapstructure:"generators_file"`
	TempDir        string `mapstructure:"temp_dir"`
}

// TaskConfig sizes the async generation worker pool.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
	QueueSize   int `mapstructure:"queue_size" validate:"gte=1"`
}

// OnchainConfig points at the reputation metadata service. Without an
// endpoint the account-metadata card is disabled.
type OnchainConfig struct {
	ReputationURL  string `mapstructure:"reputation_url" validate:"omitempty,url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`
}
