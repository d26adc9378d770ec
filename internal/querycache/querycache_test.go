package querycache

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-console/internal/leadapi"
	"lead-console/internal/model"
	"lead-console/internal/storage"
)

type fakeAPI struct {
	API // unimplemented methods panic

	adCalls    atomic.Int32
	statsCalls atomic.Int32
	adErrs     []error
	statsGate  chan struct{}
	mu         sync.Mutex
	templates  []model.MessageTemplate

	templateCalls atomic.Int32
	templateGate  chan struct{}
}

func (f *fakeAPI) ListAds(ctx context.Context, filter model.AdFilter) ([]model.Ad, error) {
	n := int(f.adCalls.Add(1))
	if n <= len(f.adErrs) && f.adErrs[n-1] != nil {
		return nil, f.adErrs[n-1]
	}
	return []model.Ad{{ID: int64(n), AdName: string(filter)}}, nil
}

func (f *fakeAPI) SyncAds(ctx context.Context) (model.SyncResult, error) {
	return model.SyncResult{Message: "ok"}, nil
}

func (f *fakeAPI) LeadStats(ctx context.Context) (model.LeadStats, error) {
	f.statsCalls.Add(1)
	if f.statsGate != nil {
		select {
		case <-f.statsGate:
		case <-ctx.Done():
			return model.LeadStats{}, ctx.Err()
		}
	}
	return model.LeadStats{TotalLeads: 3}, nil
}

func (f *fakeAPI) ListTemplates(ctx context.Context) ([]model.MessageTemplate, error) {
	f.templateCalls.Add(1)
	f.mu.Lock()
	out := append([]model.MessageTemplate(nil), f.templates...)
	f.mu.Unlock()
	// The snapshot is taken before waiting, like a response already on the wire.
	if f.templateGate != nil {
		<-f.templateGate
	}
	return out, nil
}

func (f *fakeAPI) CreateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := int64(len(f.templates) + 1)
	t.ID = &id
	f.templates = append(f.templates, t)
	return t, nil
}

func newTestCache(api API, opts Options) *Client {
	c := New(api, storage.NewMemoryStore(), opts, zerolog.Nop())
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return c
}

func TestReadsAreCachedPerKey(t *testing.T) {
	api := &fakeAPI{}
	c := newTestCache(api, Options{StaleTime: time.Minute})
	ctx := context.Background()

	first, err := c.ListAds(ctx, model.AdFilterActive)
	require.NoError(t, err)
	second, err := c.ListAds(ctx, model.AdFilterActive)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), api.adCalls.Load())

	_, err = c.ListAds(ctx, model.AdFilterInactive)
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.adCalls.Load())
}

func TestZeroStaleTimeAlwaysFetches(t *testing.T) {
	api := &fakeAPI{}
	c := newTestCache(api, Options{})
	ctx := context.Background()

	_, _ = c.ListAds(ctx, "")
	_, _ = c.ListAds(ctx, "")
	assert.Equal(t, int32(2), api.adCalls.Load())
}

func TestSyncInvalidatesAds(t *testing.T) {
	api := &fakeAPI{}
	c := newTestCache(api, Options{StaleTime: time.Minute})
	ctx := context.Background()

	_, _ = c.ListAds(ctx, model.AdFilterAll)
	res, err := c.SyncAds(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)

	ads, err := c.ListAds(ctx, model.AdFilterAll)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ads[0].ID)
}

func TestCreateTemplateInvalidatesMessages(t *testing.T) {
	api := &fakeAPI{}
	c := newTestCache(api, Options{StaleTime: time.Minute})
	ctx := context.Background()

	tpl, err := c.TemplateForAd(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, tpl)

	_, err = c.CreateTemplate(ctx, model.MessageTemplate{AdID: 7, TemplateName: "n", MessageText: "m"})
	require.NoError(t, err)

	tpl, err = c.TemplateForAd(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, tpl)
	assert.Equal(t, "n", tpl.TemplateName)
}

func TestRetryOnNetworkError(t *testing.T) {
	api := &fakeAPI{adErrs: []error{&leadapi.NetworkError{Op: "list ads", Err: errors.New("reset")}}}
	c := newTestCache(api, Options{Retry: 1})

	ads, err := c.ListAds(context.Background(), model.AdFilterAll)
	require.NoError(t, err)
	assert.Len(t, ads, 1)
	assert.Equal(t, int32(2), api.adCalls.Load())
}

func TestRetryGivesUpAfterLimit(t *testing.T) {
	netErr := &leadapi.NetworkError{Op: "list ads", Err: errors.New("reset")}
	api := &fakeAPI{adErrs: []error{netErr, netErr, netErr}}
	c := newTestCache(api, Options{Retry: 1, StaleTime: time.Minute})

	_, err := c.ListAds(context.Background(), model.AdFilterAll)
	var ne *leadapi.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, int32(2), api.adCalls.Load())
}

func TestNoRetryOnClientError(t *testing.T) {
	api := &fakeAPI{adErrs: []error{&leadapi.ServerError{Op: "list ads", Status: http.StatusNotFound}}}
	c := newTestCache(api, Options{Retry: 3})

	_, err := c.ListAds(context.Background(), model.AdFilterAll)
	require.Error(t, err)
	assert.Equal(t, int32(1), api.adCalls.Load())
}

func TestConcurrentReadsAreCoalesced(t *testing.T) {
	api := &fakeAPI{statsGate: make(chan struct{})}
	c := newTestCache(api, Options{})

	var wg sync.WaitGroup
	results := make([]model.LeadStats, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := c.LeadStats(context.Background())
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	// Let the goroutines pile up on the in-flight call before releasing it.
	require.Eventually(t, func() bool { return api.statsCalls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(api.statsGate)
	wg.Wait()

	assert.LessOrEqual(t, api.statsCalls.Load(), int32(5))
	for _, s := range results {
		assert.Equal(t, 3, s.TotalLeads)
	}
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Second, backoff(time.Second, 0))
	assert.Equal(t, 4*time.Second, backoff(time.Second, 2))
	assert.Equal(t, maxRetryDelay, backoff(time.Second, 10))
}

func TestFlush(t *testing.T) {
	api := &fakeAPI{}
	c := newTestCache(api, Options{StaleTime: time.Minute, KeyPrefix: "t"})
	ctx := context.Background()
	_, _ = c.ListAds(ctx, model.AdFilterAll)
	_, _ = c.LeadStats(ctx)

	n, err := c.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCancelledCallerDoesNotFailCoalescedCallers(t *testing.T) {
	api := &fakeAPI{statsGate: make(chan struct{})}
	c := newTestCache(api, Options{})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.LeadStats(first)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return api.statsCalls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		stats model.LeadStats
		err   error
	}
	second := make(chan result, 1)
	go func() {
		s, err := c.LeadStats(context.Background())
		second <- result{s, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(api.statsGate)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 3, res.stats.TotalLeads)
	assert.Equal(t, int32(1), api.statsCalls.Load())
}

func TestReadInFlightDuringMutationIsNotCached(t *testing.T) {
	api := &fakeAPI{templateGate: make(chan struct{})}
	c := newTestCache(api, Options{StaleTime: time.Minute})
	ctx := context.Background()

	stale := make(chan *model.MessageTemplate, 1)
	go func() {
		tpl, err := c.TemplateForAd(ctx, 7)
		assert.NoError(t, err)
		stale <- tpl
	}()
	require.Eventually(t, func() bool { return api.templateCalls.Load() == 1 }, time.Second, time.Millisecond)

	_, err := c.CreateTemplate(ctx, model.MessageTemplate{AdID: 7, TemplateName: "n", MessageText: "m"})
	require.NoError(t, err)

	close(api.templateGate)
	assert.Nil(t, <-stale)

	tpl, err := c.TemplateForAd(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, tpl)
	assert.Equal(t, "n", tpl.TemplateName)
	assert.Equal(t, int32(2), api.templateCalls.Load())
}

func TestReadAfterInvalidationStartsNewFetch(t *testing.T) {
	api := &fakeAPI{templateGate: make(chan struct{})}
	c := newTestCache(api, Options{StaleTime: time.Minute})
	ctx := context.Background()

	go func() { _, _ = c.ListTemplates(ctx) }()
	require.Eventually(t, func() bool { return api.templateCalls.Load() == 1 }, time.Second, time.Millisecond)

	c.Invalidate(ctx, "messages")
	done := make(chan error, 1)
	go func() {
		_, err := c.ListTemplates(ctx)
		done <- err
	}()
	// The second read must not wait on the pre-invalidation fetch.
	require.Eventually(t, func() bool { return api.templateCalls.Load() == 2 }, time.Second, time.Millisecond)
	close(api.templateGate)
	require.NoError(t, <-done)
}
