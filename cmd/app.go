package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lead-console/internal/ai"
	"lead-console/internal/config"
	"lead-console/internal/leadapi"
	"lead-console/internal/querycache"
	"lead-console/internal/redisclient"
	"lead-console/internal/storage"
)

// app bundles the clients a command needs.
type app struct {
	api   *leadapi.Client
	cache *querycache.Client
	rdb   *redis.Client // nil with the memory backend
}

func newApp(cfg config.Config, logger zerolog.Logger) *app {
	a := &app{api: leadapi.New(cfg.API.BaseURL, cfg.API.Timeout, logger)}

	var store storage.Store
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		a.rdb = redisclient.New(cfg.Redis)
		store = storage.NewRedisStore(a.rdb)
	default:
		store = storage.NewMemoryStore()
	}

	a.cache = querycache.New(a.api, store, querycache.Options{
		StaleTime:  cfg.Cache.StaleTime,
		Retry:      cfg.Cache.Retry,
		RetryDelay: cfg.Cache.RetryDelay,
		KeyPrefix:  cfg.Cache.KeyPrefix,
	}, logger)
	return a
}

func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}

// newComposer returns nil when no OpenAI key is configured.
func newComposer(cfg config.Config, logger zerolog.Logger) (ai.Composer, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, nil
	}
	return ai.NewOpenAI(ai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	}, logger)
}

func commandContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

// userError prefers the API's own message over the wrapped error chain.
func userError(err error, fallback string) error {
	var se *leadapi.ServerError
	if errors.As(err, &se) && se.Message != "" {
		return errors.New(se.Message)
	}
	return fmt.Errorf("%s: %w", fallback, err)
}
