package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-admin/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDatabase struct {
	db     *sql.DB
	health map[string]string
}

func (f *fakeDatabase) DB() *sql.DB                { return f.db }
func (f *fakeDatabase) Health() map[string]string { return f.health }
func (f *fakeDatabase) Close() error              { return f.db.Close() }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "development", MaxUploadMB: 1},
		JWT:    config.JWTConfig{Secret: "test-secret", AccessExpiry: 60},
		RateLimit: config.RateLimitConfig{
			Enabled:           true,
			RequestsPerWindow: 1,
			Window:            time.Minute,
		},
	}
}

func newTestServer(t *testing.T, health map[string]string, redisClient *redis.Client) *Server {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewServer(testConfig(), zap.NewNop(), &fakeDatabase{db: db, health: health}, redisClient, nil)
}

func TestServer_Health(t *testing.T) {
	tests := []struct {
		health map[string]string
		status int
	}{
		{map[string]string{"status": "up"}, http.StatusOK},
		{map[string]string{"status": "down", "error": "connection refused"}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		srv := newTestServer(t, tt.health, nil)
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, tt.status, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tt.health["status"], body["status"])
	}
}

func TestServer_RejectsForgedToken(t *testing.T) {
	srv := newTestServer(t, map[string]string{"status": "up"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/brands", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_AdminRoutesNeedToken(t *testing.T) {
	srv := newTestServer(t, map[string]string{"status": "up"}, nil)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/statistics", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RateLimitsMutations(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	srv := newTestServer(t, map[string]string{"status": "up"}, client)

	statuses := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, http.StatusBadRequest, statuses[0])
	assert.Equal(t, http.StatusTooManyRequests, statuses[1])

	// reads are not counted
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
