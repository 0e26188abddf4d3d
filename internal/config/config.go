package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig
	Store StoreConfig
	Redis RedisConfig
	Sink  SinkConfig
	Alias AliasConfig
	Auth  AuthConfig
}

type AppConfig struct {
	Env            string
	Port           string
	BaseURL        string
	TrustedProxies []string
}

type StoreConfig struct {
	// Backend selects the alias store: "memory" (default) or "redis".
	Backend string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

type SinkConfig struct {
	// BaseURL of the remote log collector; empty disables the sink.
	BaseURL    string
	Timeout    time.Duration
	Token      string
	BufferSize int
}

type AliasConfig struct {
	ShortCodeLength int
	// MaxGenerateRetries bounds the random generate-and-check loop.
	// With a 62^6 code space it is never reached in practice.
	MaxGenerateRetries int
}

type AuthConfig struct {
	BasicUser     string
	BasicPassword string
}

func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	// Read config file (optional, env vars take precedence)
	_ = viper.ReadInConfig()

	cfg := &Config{
		App: AppConfig{
			Env:            viper.GetString("APP_ENV"),
			Port:           viper.GetString("APP_PORT"),
			BaseURL:        viper.GetString("APP_BASE_URL"),
			TrustedProxies: viper.GetStringSlice("TRUSTED_PROXIES"),
		},
		Store: StoreConfig{
			Backend: viper.GetString("STORE_BACKEND"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
		},
		Sink: SinkConfig{
			BaseURL:    viper.GetString("SINK_BASE_URL"),
			Timeout:    viper.GetDuration("SINK_TIMEOUT"),
			Token:      viper.GetString("SINK_TOKEN"),
			BufferSize: viper.GetInt("SINK_BUFFER_SIZE"),
		},
		Alias: AliasConfig{
			ShortCodeLength:    viper.GetInt("SHORT_CODE_LENGTH"),
			MaxGenerateRetries: viper.GetInt("SHORT_CODE_MAX_RETRIES"),
		},
		Auth: AuthConfig{
			BasicUser:     viper.GetString("AUTH_BASIC_USER"),
			BasicPassword: viper.GetString("AUTH_BASIC_PASSWORD"),
		},
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("TRUSTED_PROXIES", []string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	viper.SetDefault("STORE_BACKEND", "memory")

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 10)

	viper.SetDefault("SINK_BASE_URL", "")
	viper.SetDefault("SINK_TIMEOUT", "2s")
	viper.SetDefault("SINK_TOKEN", "")
	viper.SetDefault("SINK_BUFFER_SIZE", 256)

	viper.SetDefault("SHORT_CODE_LENGTH", 6)
	viper.SetDefault("SHORT_CODE_MAX_RETRIES", 10)

	viper.SetDefault("AUTH_BASIC_USER", "")
	viper.SetDefault("AUTH_BASIC_PASSWORD", "")
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}
