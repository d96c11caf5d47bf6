package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nutriplan/backend/internal/ports/outbound"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type CacheRepositorySuite struct {
	suite.Suite
	server *miniredis.Miniredis
	client *goredis.Client
	cache  outbound.CacheRepository
	ctx    context.Context
}

func TestCacheRepositorySuite(t *testing.T) {
	suite.Run(t, new(CacheRepositorySuite))
}

func (s *CacheRepositorySuite) SetupTest() {
	s.server = miniredis.RunT(s.T())
	s.client = goredis.NewClient(&goredis.Options{Addr: s.server.Addr()})
	s.cache = NewCacheRepository(s.client, "test:", zaptest.NewLogger(s.T()))
	s.ctx = context.Background()
}

func (s *CacheRepositorySuite) TearDownTest() {
	s.client.Close()
}

func (s *CacheRepositorySuite) TestMissIsErrCacheMiss() {
	_, err := s.cache.Get(s.ctx, "absent")
	s.Equal(outbound.ErrCacheMiss, err)
}

func (s *CacheRepositorySuite) TestSetGetWithPrefix() {
	s.Require().NoError(s.cache.Set(s.ctx, "weekly", []byte(`{"days":7}`), time.Hour))

	got, err := s.cache.Get(s.ctx, "weekly")
	s.Require().NoError(err)
	s.Equal(`{"days":7}`, string(got))

	raw, err := s.server.Get("test:weekly")
	s.Require().NoError(err)
	s.Equal(`{"days":7}`, raw)
	s.Equal(time.Hour, s.server.TTL("test:weekly"))
}

func (s *CacheRepositorySuite) TestExpiry() {
	s.Require().NoError(s.cache.Set(s.ctx, "short", []byte("x"), time.Minute))
	s.server.FastForward(2 * time.Minute)

	ok, err := s.cache.Exists(s.ctx, "short")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *CacheRepositorySuite) TestDeleteMany() {
	s.Require().NoError(s.cache.Set(s.ctx, "a", []byte("1"), time.Minute))
	s.Require().NoError(s.cache.Set(s.ctx, "b", []byte("2"), time.Minute))

	s.Require().NoError(s.cache.Delete(s.ctx, "a", "b", "c"))
	s.Require().NoError(s.cache.Delete(s.ctx))

	ok, err := s.cache.Exists(s.ctx, "a")
	s.Require().NoError(err)
	s.False(ok)
	s.False(s.server.Exists("test:b"))
}

func (s *CacheRepositorySuite) TestServerError() {
	s.server.SetError("LOADING server is loading")

	_, err := s.cache.Get(s.ctx, "any")
	s.Error(err)
	s.NotEqual(outbound.ErrCacheMiss, err)
}
