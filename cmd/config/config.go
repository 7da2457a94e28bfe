package config

import (
	"errors"
	"fmt"
	"formflow/internal/forms/httpclient"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "formflow"
	ConfigName = "formctl"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

var loadConfigOnce sync.Once
var configInstance AppConfig
var configErr error

// LoadConfig reads .env, the optional formctl.yaml and FORMFLOW_* variables
// once per process.
func LoadConfig() (AppConfig, error) {
	loadConfigOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			configErr = fmt.Errorf("loading .env: %w", err)
			return
		}

		v := viper.New()
		v.SetConfigName(ConfigName)
		v.AddConfigPath("config")
		v.AddConfigPath("/config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".formflow"))
		}

		configInstance, configErr = Load(v)
	})

	return configInstance, configErr
}

// Load builds an AppConfig from v. A missing config file is not an error;
// defaults and environment variables still apply.
func Load(v *viper.Viper) (AppConfig, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	config := AppConfig{
		General: GeneralConfig{
			LogLevel: v.GetString("general.log_level"),
		},
		API: APIConfig{
			BaseURL:    v.GetString("api.base_url"),
			PageOrigin: v.GetString("api.page_origin"),
			Timeout:    v.GetDuration("api.timeout"),
		},
		Forms: FormsConfig{
			ListLimit: v.GetInt("forms.list_limit"),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(v.GetString("cache.backend")),
			TTL:     v.GetDuration("cache.ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Stream: StreamConfig{
			ReadTimeout: v.GetDuration("stream.read_timeout"),
		},
		Telemetry: TelemetryConfig{
			Enabled:         v.GetBool("telemetry.enabled"),
			OtelcolEndpoint: v.GetString("telemetry.otelcol_endpoint"),
		},
	}

	switch config.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return AppConfig{}, fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.page_origin", "")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("forms.list_limit", 100)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("stream.read_timeout", time.Duration(0))
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otelcol_endpoint", "localhost:4317")
}

type AppConfig struct {
	General   GeneralConfig
	API       APIConfig
	Forms     FormsConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Stream    StreamConfig
	Telemetry TelemetryConfig
}

// APIBaseURL is the backend origin the client talks to.
func (c AppConfig) APIBaseURL() string {
	return httpclient.ResolveBaseURL(c.API.BaseURL, c.API.PageOrigin)
}

type GeneralConfig struct {
	LogLevel string
}

type APIConfig struct {
	BaseURL    string
	PageOrigin string
	Timeout    time.Duration
}

type FormsConfig struct {
	ListLimit int
}

type CacheConfig struct {
	Backend string
	TTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StreamConfig struct {
	ReadTimeout time.Duration
}

type TelemetryConfig struct {
	Enabled         bool
	OtelcolEndpoint string
}
