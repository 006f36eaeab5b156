package commands

import (
	"fmt"

	"github.com/santosa/bandarlab/internal/analysis"
	"github.com/santosa/bandarlab/internal/marketdata"
	"github.com/santosa/bandarlab/pkg/config"
	"github.com/santosa/bandarlab/pkg/httputil"
	"github.com/santosa/bandarlab/pkg/logger"
	"github.com/santosa/bandarlab/pkg/redis"
)

// appContext holds the wired-up application components shared by commands
type appContext struct {
	cfg     *config.Config
	logger  *logger.Logger
	redis   *redis.Client
	service *analysis.Service
}

// bootstrap loads config and wires the market-data client, cache and
// analysis service. Every command goes through here so the stack is
// assembled in exactly one place.
func bootstrap() (*appContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var cache *redis.Cache
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "bandarlab")
		log.Info("Redis cache enabled")
	}

	httpClient := httputil.New(cfg, log)
	client := marketdata.NewClient(cfg, httpClient, log)
	service := analysis.NewService(client, cache, cfg.CacheTTL, log)

	return &appContext{
		cfg:     cfg,
		logger:  log,
		redis:   redisClient,
		service: service,
	}, nil
}

// close releases shared resources
func (a *appContext) close() {
	if a.redis != nil {
		a.redis.Close()
	}
}
