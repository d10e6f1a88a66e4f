package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type counter struct {
	calls int64
	fail  atomic.Bool
	empty atomic.Bool
}

func (c *counter) refresh(context.Context) ([]string, error) {
	n := atomic.AddInt64(&c.calls, 1)
	if c.fail.Load() {
		return nil, errors.New("upstream down")
	}
	if c.empty.Load() {
		return []string{}, nil
	}
	return []string{"run", string(rune('0' + n))}, nil
}

func newCounterCache(c *counter, store Store) *RefreshCache[[]string] {
	return New(Config[[]string]{
		TTL:     5 * time.Minute,
		Refresh: c.refresh,
		Empty:   func(v []string) bool { return len(v) == 0 },
		Store:   store,
	})
}

func TestGetOrRefresh_TTL(t *testing.T) {
	c := &counter{}
	rc := newCounterCache(c, nil)
	ctx := context.Background()

	v, err := rc.GetOrRefresh(ctx, t0)
	assert.NoError(t, err)
	assert.Equal(t, v, []string{"run", "1"})

	v, _ = rc.GetOrRefresh(ctx, t0.Add(5*time.Minute))
	assert.Equal(t, v, []string{"run", "1"})
	assert.Equal(t, atomic.LoadInt64(&c.calls), int64(1))

	v, _ = rc.GetOrRefresh(ctx, t0.Add(5*time.Minute+time.Second))
	assert.Equal(t, v, []string{"run", "2"})
	assert.Equal(t, atomic.LoadInt64(&c.calls), int64(2))
}

func TestGetOrRefresh_EmptyValueIsNotCached(t *testing.T) {
	c := &counter{}
	c.empty.Store(true)
	rc := newCounterCache(c, nil)
	ctx := context.Background()

	_, _ = rc.GetOrRefresh(ctx, t0)
	_, _ = rc.GetOrRefresh(ctx, t0.Add(time.Second))
	assert.Equal(t, atomic.LoadInt64(&c.calls), int64(2))
}

func TestGetOrRefresh_ErrorServesPrevious(t *testing.T) {
	c := &counter{}
	rc := newCounterCache(c, nil)
	ctx := context.Background()

	_, err := rc.GetOrRefresh(ctx, t0)
	assert.NoError(t, err)

	c.fail.Store(true)
	v, err := rc.GetOrRefresh(ctx, t0.Add(time.Hour))
	assert.Error(t, err)
	assert.Equal(t, v, []string{"run", "1"})

	// A failed refresh does not count as a refresh.
	c.fail.Store(false)
	v, err = rc.GetOrRefresh(ctx, t0.Add(time.Hour+time.Second))
	assert.NoError(t, err)
	assert.Equal(t, v, []string{"run", "3"})
}

func TestGetOrRefresh_ConcurrentCallersShareRefresh(t *testing.T) {
	c := &counter{}
	rc := newCounterCache(c, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = rc.GetOrRefresh(context.Background(), t0)
		}()
	}
	wg.Wait()
	assert.Equal(t, atomic.LoadInt64(&c.calls), int64(1))
}

func TestInvalidateAndRefresh(t *testing.T) {
	c := &counter{}
	rc := newCounterCache(c, nil)
	ctx := context.Background()

	_, _ = rc.GetOrRefresh(ctx, t0)
	rc.Invalidate()
	v, _ := rc.GetOrRefresh(ctx, t0.Add(time.Second))
	assert.Equal(t, v, []string{"run", "2"})

	v, _ = rc.Refresh(ctx, t0.Add(2*time.Second))
	assert.Equal(t, v, []string{"run", "3"})

	peeked, at, ok := rc.Peek()
	assert.True(t, ok)
	assert.Equal(t, peeked, []string{"run", "3"})
	assert.Equal(t, at, t0.Add(2*time.Second))
}

func TestPeek_DoesNotWaitForRefreshInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int64
	rc := New(Config[[]string]{
		TTL: time.Minute,
		Refresh: func(context.Context) ([]string, error) {
			if calls.Add(1) == 2 {
				close(started)
				<-release
				return []string{"second"}, nil
			}
			return []string{"first"}, nil
		},
	})
	ctx := context.Background()
	_, err := rc.GetOrRefresh(ctx, t0)
	assert.NoError(t, err)

	done := make(chan []string)
	go func() {
		v, _ := rc.GetOrRefresh(ctx, t0.Add(2*time.Minute))
		done <- v
	}()
	<-started

	peeked := make(chan []string)
	go func() {
		v, _, _ := rc.Peek()
		peeked <- v
	}()
	select {
	case v := <-peeked:
		assert.Equal(t, v, []string{"first"})
	case <-time.After(2 * time.Second):
		t.Fatal("Peek blocked behind an in-flight refresh")
	}

	close(release)
	assert.Equal(t, <-done, []string{"second"})
	v, at, ok := rc.Peek()
	assert.True(t, ok)
	assert.Equal(t, v, []string{"second"})
	assert.Equal(t, at, t0.Add(2*time.Minute))
}

type memoryStore struct {
	mu      sync.Mutex
	data    []byte
	savedAt time.Time
	saves   int
}

func (m *memoryStore) Load(context.Context) ([]byte, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, time.Time{}, ErrMiss
	}
	return m.data, m.savedAt, nil
}

func (m *memoryStore) Save(_ context.Context, data []byte, savedAt time.Time, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data, m.savedAt = data, savedAt
	m.saves++
	return nil
}

func TestStore_WarmStart(t *testing.T) {
	store := &memoryStore{}
	ctx := context.Background()

	first := &counter{}
	_, err := newCounterCache(first, store).GetOrRefresh(ctx, t0)
	assert.NoError(t, err)
	assert.Equal(t, store.saves, 1)

	// A second process within the TTL serves the stored snapshot.
	second := &counter{}
	v, err := newCounterCache(second, store).GetOrRefresh(ctx, t0.Add(time.Minute))
	assert.NoError(t, err)
	assert.Equal(t, v, []string{"run", "1"})
	assert.Equal(t, atomic.LoadInt64(&second.calls), int64(0))

	// An expired snapshot is ignored.
	third := &counter{}
	_, _ = newCounterCache(third, store).GetOrRefresh(ctx, t0.Add(time.Hour))
	assert.Equal(t, atomic.LoadInt64(&third.calls), int64(1))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisOptions{Addr: addr, Key: "rsiboard:test:snapshot"})
	assert.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Save(ctx, []byte(`{"a":1}`), t0, time.Minute))
	data, savedAt, err := store.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, string(data), `{"a":1}`)
	assert.True(t, savedAt.Equal(t0))
}
