// Package querycache sits between the UI and the lead API. It serves reads
// from a store for a stale time, coalesces identical in-flight reads, retries
// failed reads and drops cached results after a successful mutation.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"lead-console/internal/leadapi"
	"lead-console/internal/model"
	"lead-console/internal/storage"
)

const maxRetryDelay = 30 * time.Second

// API is the subset of the lead API client used by the cache.
type API interface {
	ListAds(ctx context.Context, filter model.AdFilter) ([]model.Ad, error)
	GetAd(ctx context.Context, id int64) (model.Ad, error)
	SyncAds(ctx context.Context) (model.SyncResult, error)
	DeleteAd(ctx context.Context, id int64) error
	ListTemplates(ctx context.Context) ([]model.MessageTemplate, error)
	GetTemplate(ctx context.Context, id int64) (model.MessageTemplate, error)
	CreateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error)
	UpdateTemplate(ctx context.Context, id int64, t model.MessageTemplate) (model.MessageTemplate, error)
	DeleteTemplate(ctx context.Context, id int64) error
	PreviewTemplate(ctx context.Context, id int64, leadData map[string]string) (model.TemplatePreview, error)
	ListLeads(ctx context.Context, page, perPage int) (model.LeadPage, error)
	GetLead(ctx context.Context, id int64) (model.Lead, error)
	LeadStats(ctx context.Context) (model.LeadStats, error)
}

// Options configures caching and retry policy.
type Options struct {
	StaleTime  time.Duration // zero disables caching
	Retry      int           // extra attempts after a failed read
	RetryDelay time.Duration // doubled after each attempt, capped at 30s
	KeyPrefix  string
}

// Client wraps an API with caching. It is safe for concurrent use.
type Client struct {
	api    API
	store  storage.Store
	opts   Options
	group  singleflight.Group
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error

	// gens counts invalidations per resource. A fetch started under an older
	// generation must not write its result back.
	genMu sync.RWMutex
	gens  map[string]uint64
}

func New(api API, store storage.Store, opts Options, logger zerolog.Logger) *Client {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "leadconsole"
	}
	return &Client{
		api:    api,
		store:  store,
		opts:   opts,
		logger: logger.With().Str("component", "querycache").Logger(),
		sleep:  sleepCtx,
		gens:   map[string]uint64{},
	}
}

func (c *Client) key(parts string) string {
	return c.opts.KeyPrefix + ":q:" + parts
}

// Invalidate drops every cached read of the given resources, e.g. "ads".
func (c *Client) Invalidate(ctx context.Context, resources ...string) {
	c.genMu.Lock()
	for _, r := range resources {
		c.gens[r]++
	}
	c.genMu.Unlock()

	for _, r := range resources {
		n, err := c.store.DeletePrefix(ctx, c.key(r+":"))
		if err != nil {
			c.logger.Warn().Err(err).Str("resource", r).Msg("cache invalidation failed")
			continue
		}
		c.logger.Debug().Str("resource", r).Int("keys", n).Msg("cache invalidated")
	}
}

// Flush drops all cached reads.
func (c *Client) Flush(ctx context.Context) (int, error) {
	return c.store.DeletePrefix(ctx, c.key(""))
}

func (c *Client) generation(resource string) uint64 {
	c.genMu.RLock()
	defer c.genMu.RUnlock()
	return c.gens[resource]
}

// save caches v unless resource was invalidated after gen was read.
func (c *Client) save(ctx context.Context, resource string, gen uint64, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.genMu.RLock()
	defer c.genMu.RUnlock()
	if c.gens[resource] != gen {
		c.logger.Debug().Str("key", key).Msg("skipping cache write for invalidated read")
		return
	}
	if err := c.store.Set(ctx, key, b, c.opts.StaleTime); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func query[T any](ctx context.Context, c *Client, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	full := c.key(key)
	resource, _, _ := strings.Cut(key, ":")

	if c.opts.StaleTime > 0 {
		b, err := c.store.Get(ctx, full)
		switch {
		case err == nil:
			var v T
			if err := json.Unmarshal(b, &v); err == nil {
				return v, nil
			}
			c.logger.Warn().Str("key", full).Msg("discarding undecodable cache entry")
		case !errors.Is(err, storage.ErrNotFound):
			c.logger.Warn().Err(err).Str("key", full).Msg("cache read failed")
		}
	}

	// Reads issued after an invalidation never join a flight started before it.
	gen := c.generation(resource)
	ch := c.group.DoChan(fmt.Sprintf("%s#%d", full, gen), func() (any, error) {
		// The fetch is shared, so it must outlive the caller that started it.
		// The API client's timeout still bounds it.
		fetchCtx := context.WithoutCancel(ctx)
		v, err := withRetry(fetchCtx, c, fn)
		if err != nil {
			return v, err
		}
		if c.opts.StaleTime > 0 {
			c.save(fetchCtx, resource, gen, full, v)
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug().Str("key", full).Msg("coalesced request")
		}
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func withRetry[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil || attempt >= c.opts.Retry || !retryable(err) {
			return v, err
		}
		c.logger.Debug().Err(err).Int("attempt", attempt+1).Msg("retrying request")
		if serr := c.sleep(ctx, backoff(c.opts.RetryDelay, attempt)); serr != nil {
			return v, err
		}
	}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *leadapi.ServerError
	if errors.As(err, &se) && se.IsClientError() {
		return false
	}
	return true
}

func backoff(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt && d < maxRetryDelay; i++ {
		d *= 2
	}
	if d > maxRetryDelay {
		d = maxRetryDelay
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
