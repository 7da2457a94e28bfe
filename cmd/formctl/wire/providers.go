package wire

import (
	"context"
	"fmt"
	"formflow/cmd/config"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/httpclient"
	"formflow/internal/forms/stream"
	"formflow/internal/forms/usecases"
	"formflow/internal/infra/cache"
	"formflow/internal/logger"
	"sync"

	"github.com/google/wire"
)

// Services bundles everything a formctl command needs.
type Services struct {
	Config    config.AppConfig
	Log       logger.Logger
	API       usecases.FormsAPI
	Dialer    usecases.SnapshotStreamDialer
	IDs       domain.IDGenerator
	Catalog   *usecases.FormCatalog
	Directory *usecases.Directory
}

var ClientSet = wire.NewSet(
	provideHTTPClient,
	wire.Bind(new(usecases.FormsAPI), new(*httpclient.Client)),
	provideStreamDialer,
	wire.Bind(new(usecases.SnapshotStreamDialer), new(*stream.Dialer)),
)

var _loggerOnce sync.Once
var _logger logger.Logger
var _loggerErr error

func provideAppConfig() (config.AppConfig, error) {
	return config.LoadConfig()
}

func provideLogger(config config.AppConfig) (logger.Logger, error) {
	_loggerOnce.Do(func() {
		_logger, _loggerErr = logger.New(config.General.LogLevel)
	})
	return _logger, _loggerErr
}

func provideHTTPClient(config config.AppConfig) *httpclient.Client {
	return httpclient.NewClient(httpclient.Config{
		BaseURL: config.APIBaseURL(),
		Timeout: config.API.Timeout,
	})
}

func provideStreamDialer(config config.AppConfig, log logger.Logger) *stream.Dialer {
	return stream.NewDialer(stream.Config{
		BaseURL:     config.APIBaseURL(),
		ReadTimeout: config.Stream.ReadTimeout,
	}, log)
}

func provideIDGenerator() domain.IDGenerator {
	return domain.NewSessionIDGenerator()
}

func provideFormCache(config config.AppConfig, log logger.Logger) (usecases.FormCache, error) {
	switch config.Cache.Backend {
	case "redis":
		redisConfig := cache.DefaultRedisConfig()
		redisConfig.Addr = config.Redis.Addr
		redisConfig.Password = config.Redis.Password
		redisConfig.DB = config.Redis.DB
		redisConfig.TTL = config.Cache.TTL
		store, err := cache.NewRedis[domain.FormModel](context.Background(), redisConfig, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "", "memory":
		cacheConfig := cache.DefaultConfig()
		cacheConfig.TTL = config.Cache.TTL
		store, err := cache.NewMemory[domain.FormModel](cacheConfig)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
	}
}
