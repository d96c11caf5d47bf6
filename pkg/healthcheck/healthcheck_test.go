package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type pinger struct {
	err   error
	calls atomic.Int32
}

func (p *pinger) PingContext(context.Context) error {
	p.calls.Add(1)
	return p.err
}

func TestCheckAggregatesStatus(t *testing.T) {
	hc := New("1.0.0", zaptest.NewLogger(t))
	hc.SetCacheTTL(0)

	hc.Register("database", NewDatabaseChecker(&pinger{}))
	assert.Equal(t, StatusHealthy, hc.Check(context.Background()).Status)

	hc.Register("cache", NewCustomChecker(func(context.Context) (Status, string, interface{}) {
		return StatusDegraded, "slow", nil
	}))
	assert.Equal(t, StatusDegraded, hc.Check(context.Background()).Status)

	hc.Register("database", NewDatabaseChecker(&pinger{err: errors.New("connection refused")}))
	response := hc.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, response.Status)
	require.Len(t, response.Checks, 2)
	for _, check := range response.Checks {
		if check.Name == "database" {
			assert.Equal(t, "connection refused", check.Message)
		}
	}
}

func TestCheckIsCached(t *testing.T) {
	hc := New("1.0.0", zaptest.NewLogger(t))
	hc.SetCacheTTL(time.Minute)
	db := &pinger{}
	hc.Register("database", NewDatabaseChecker(db))

	hc.Check(context.Background())
	hc.Check(context.Background())

	assert.Equal(t, int32(1), db.calls.Load())
}

func TestReadinessHandler(t *testing.T) {
	hc := New("1.0.0", zaptest.NewLogger(t))
	hc.SetCacheTTL(0)
	db := &pinger{}
	hc.Register("database", NewDatabaseChecker(db))

	rec := httptest.NewRecorder()
	hc.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "total_duration_ms")

	db.err = errors.New("down")
	rec = httptest.NewRecorder()
	hc.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLivenessHandler(t *testing.T) {
	hc := New("2.1.0", zaptest.NewLogger(t))
	hc.Register("database", NewDatabaseChecker(&pinger{err: errors.New("down")}))

	rec := httptest.NewRecorder()
	hc.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"2.1.0"`)
}

func TestRedisChecker(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	check := NewRedisChecker(client).Check(context.Background())
	assert.Equal(t, StatusHealthy, check.Status)
	assert.NotNil(t, check.Metadata)

	server.SetError("LOADING")
	check = NewRedisChecker(client).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, check.Status)
}
