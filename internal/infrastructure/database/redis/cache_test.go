package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
)

type CacheTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *Client
	cache  Cache
}

func (s *CacheTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	client, err := NewClient(&RedisConfig{Addr: s.mr.Addr()}, logging.NewNopLogger())
	require.NoError(s.T(), err)
	s.client = client
	s.cache = NewRedisCache(client, logging.NewNopLogger(), WithPrefix("test:"), WithoutJitter())
}

func (s *CacheTestSuite) TearDownTest() {
	_ = s.client.Close()
}

type svgDoc struct {
	Selected string `json:"selected"`
	Body     string `json:"body"`
}

func (s *CacheTestSuite) TestSetThenGet() {
	ctx := context.Background()
	want := svgDoc{Selected: "RU-MOW", Body: "<svg/>"}

	require.NoError(s.T(), s.cache.Set(ctx, "svg:1", want, time.Minute))
	s.True(s.mr.Exists("test:svg:1"))
	s.Equal(time.Minute, s.mr.TTL("test:svg:1"))

	var got svgDoc
	require.NoError(s.T(), s.cache.Get(ctx, "svg:1", &got))
	s.Equal(want, got)
}

func (s *CacheTestSuite) TestGet_Miss() {
	var got svgDoc
	err := s.cache.Get(context.Background(), "absent", &got)
	s.ErrorIs(err, ErrCacheMiss)
}

func (s *CacheTestSuite) TestGet_CorruptValue() {
	require.NoError(s.T(), s.mr.Set("test:bad", "{not json"))
	var got svgDoc
	err := s.cache.Get(context.Background(), "bad", &got)
	s.ErrorIs(err, ErrSerializationFailed)
}

func (s *CacheTestSuite) TestDefaultTTL() {
	c := NewRedisCache(s.client, logging.NewNopLogger(), WithPrefix("d:"), WithDefaultTTL(time.Hour), WithoutJitter())
	require.NoError(s.T(), c.Set(context.Background(), "k", 1, 0))
	s.Equal(time.Hour, s.mr.TTL("d:k"))
}

func (s *CacheTestSuite) TestDelete() {
	ctx := context.Background()
	require.NoError(s.T(), s.cache.Set(ctx, "a", 1, time.Minute))
	require.NoError(s.T(), s.cache.Set(ctx, "b", 2, time.Minute))

	require.NoError(s.T(), s.cache.Delete(ctx, "a", "b"))
	s.False(s.mr.Exists("test:a"))
	s.False(s.mr.Exists("test:b"))
	s.NoError(s.cache.Delete(ctx))
}

func (s *CacheTestSuite) TestDeleteByPrefix() {
	ctx := context.Background()
	for _, k := range []string{"svg:1", "svg:2", "shapes:1"} {
		require.NoError(s.T(), s.cache.Set(ctx, k, k, time.Minute))
	}

	n, err := s.cache.DeleteByPrefix(ctx, "svg:")
	require.NoError(s.T(), err)
	s.Equal(int64(2), n)
	s.True(s.mr.Exists("test:shapes:1"))
}

func (s *CacheTestSuite) TestGetOrSet_LoadsOnceAndCaches() {
	ctx := context.Background()
	var calls int32
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return svgDoc{Selected: "RU-SPE", Body: "<svg/>"}, nil
	}

	var first svgDoc
	require.NoError(s.T(), s.cache.GetOrSet(ctx, "svg:spe", &first, time.Minute, loader))
	var second svgDoc
	require.NoError(s.T(), s.cache.GetOrSet(ctx, "svg:spe", &second, time.Minute, loader))

	s.Equal("RU-SPE", first.Selected)
	s.Equal(first, second)
	s.Equal(int32(1), atomic.LoadInt32(&calls))
}

func (s *CacheTestSuite) TestGetOrSet_Concurrent() {
	ctx := context.Background()
	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "body", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out string
			assert.NoError(s.T(), s.cache.GetOrSet(ctx, "hot", &out, time.Minute, loader))
			assert.Equal(s.T(), "body", out)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	s.LessOrEqual(atomic.LoadInt32(&calls), int32(8))
	s.GreaterOrEqual(atomic.LoadInt32(&calls), int32(1))
}

func (s *CacheTestSuite) TestGetOrSet_LoaderError() {
	boom := errors.New("boom")
	var out string
	err := s.cache.GetOrSet(context.Background(), "k", &out, time.Minute,
		func(context.Context) (interface{}, error) { return nil, boom })
	s.ErrorIs(err, boom)
	s.False(s.mr.Exists("test:k"))
}

func (s *CacheTestSuite) TestPing() {
	s.NoError(s.cache.Ping(context.Background()))
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

//Personal.AI order the ending
