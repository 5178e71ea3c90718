package adventureworks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) TopProductsByListPrice(ctx context.Context) ([]Product, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]Product)
	return rows, args.Error(1)
}

func (m *mockQuerier) TopProductsByName(ctx context.Context) ([]Product, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]Product)
	return rows, args.Error(1)
}

func (m *mockQuerier) TopPersonsByLastName(ctx context.Context) ([]Person, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]Person)
	return rows, args.Error(1)
}

type memCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	ttls   map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return b, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

var sample = []Product{{ProductID: 771, Name: "Mountain-100 Silver, 38", ProductNumber: "BK-M82S-38"}}

func TestServiceReadThrough(t *testing.T) {
	repo := &mockQuerier{}
	repo.On("TopProductsByListPrice", mock.Anything).Return(sample, nil).Once()

	cache := newMemCache()
	svc := NewService(repo, cache, time.Minute, zerolog.Nop())

	first, err := svc.TopProductsByListPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sample, first)
	assert.Equal(t, time.Minute, cache.ttls[keyPrefix+QueryProductsByListPrice])

	second, err := svc.TopProductsByListPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sample[0].ProductID, second[0].ProductID)

	repo.AssertNumberOfCalls(t, "TopProductsByListPrice", 1)
}

func TestServiceFallsBackOnCacheErrors(t *testing.T) {
	repo := &mockQuerier{}
	repo.On("TopPersonsByLastName", mock.Anything).Return([]Person{{BusinessEntityID: 1}}, nil)

	cache := newMemCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")

	svc := NewService(repo, cache, time.Minute, zerolog.Nop())

	got, err := svc.TopPersonsByLastName(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.TopPersonsByLastName(context.Background())
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "TopPersonsByLastName", 2)
}

func TestServiceDiscardsCorruptEntries(t *testing.T) {
	repo := &mockQuerier{}
	repo.On("TopProductsByName", mock.Anything).Return(sample, nil)

	cache := newMemCache()
	cache.data[keyPrefix+QueryProductsByName] = []byte("{not json")

	svc := NewService(repo, cache, time.Minute, zerolog.Nop())

	got, err := svc.TopProductsByName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	var stored []Product
	require.NoError(t, json.Unmarshal(cache.data[keyPrefix+QueryProductsByName], &stored))
	assert.Equal(t, 771, stored[0].ProductID)
}

func TestServiceWithoutCache(t *testing.T) {
	repo := &mockQuerier{}
	repo.On("TopProductsByName", mock.Anything).Return(sample, nil)

	svc := NewService(repo, nil, time.Minute, zerolog.Nop())
	_, err := svc.TopProductsByName(context.Background())
	require.NoError(t, err)
	_, err = svc.TopProductsByName(context.Background())
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "TopProductsByName", 2)
}

func TestServiceDoesNotCacheErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := &mockQuerier{}
	repo.On("TopProductsByName", mock.Anything).Return(nil, boom)

	cache := newMemCache()
	svc := NewService(repo, cache, time.Minute, zerolog.Nop())

	_, err := svc.TopProductsByName(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Empty(t, cache.data)
}
