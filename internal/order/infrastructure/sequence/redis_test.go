package sequence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounter struct {
	mu      sync.Mutex
	counts  map[string]int64
	expires map[string]time.Duration
}

func newMemCounter() *memCounter {
	return &memCounter{counts: make(map[string]int64), expires: make(map[string]time.Duration)}
}

func (m *memCounter) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memCounter) Expire(_ context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires[key] = expiration
	return nil
}

func TestNextFormatsSequence(t *testing.T) {
	gen := NewGenerator(newMemCounter())
	day := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	first, err := gen.Next(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, "#20260901-0001", first)

	second, err := gen.Next(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, "#20260901-0002", second)
}

func TestNextResetsPerDay(t *testing.T) {
	gen := NewGenerator(newMemCounter())

	d1 := time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)
	d2 := time.Date(2026, 9, 2, 0, 1, 0, 0, time.UTC)

	n1, err := gen.Next(context.Background(), d1)
	require.NoError(t, err)
	n2, err := gen.Next(context.Background(), d2)
	require.NoError(t, err)

	assert.Equal(t, "#20260901-0001", n1)
	assert.Equal(t, "#20260902-0001", n2)
}

func TestNextWidensPastFourDigits(t *testing.T) {
	counter := newMemCounter()
	counter.counts["orderno:20260901"] = 9999
	gen := NewGenerator(counter)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	n, err := gen.Next(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, "#20260901-10000", n)
}

func TestNextSetsTTLOnFirstOfDay(t *testing.T) {
	counter := newMemCounter()
	gen := NewGenerator(counter)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := gen.Next(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, counter.expires["orderno:20260901"])

	// 第二次生成不再重设 TTL
	counter.expires["orderno:20260901"] = 0
	_, err = gen.Next(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), counter.expires["orderno:20260901"])
}

func TestNextConcurrentNumbersAreDistinct(t *testing.T) {
	gen := NewGenerator(newMemCounter())
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	const n = 100
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			no, err := gen.Next(context.Background(), day)
			assert.NoError(t, err)
			results <- no
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, n)
	for no := range results {
		assert.False(t, seen[no], "duplicate order number %s", no)
		seen[no] = true
	}
	assert.Len(t, seen, n)
}
