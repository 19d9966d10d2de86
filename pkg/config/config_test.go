package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")
	for _, key := range []string{"PORT", "DB_DRIVER", "FOLLOWING_CACHE_TTL", "MODERATION_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, _, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.FollowingCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.ModerationTimeout)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadParsesTypedValues(t *testing.T) {
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("MODERATION_TIMEOUT", "250ms")

	cfg, _, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, 250*time.Millisecond, cfg.ModerationTimeout)
}

func TestLoadReportsMalformedValues(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	t.Setenv("SEED_DEMO_DATA", "maybe")

	_, _, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_TTL")
	assert.Contains(t, err.Error(), "SEED_DEMO_DATA")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Env:               "production",
		DBDriver:          DriverPostgres,
		FollowingCacheTTL: time.Minute,
		JWTTTL:            time.Hour,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_CONN_STR")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "MONGO_URI")

	cfg.PostgresConnStr = "postgres://localhost/clashart"
	cfg.JWTSecret = "s3cret"
	cfg.MongoURI = "mongodb://localhost:27017"
	assert.NoError(t, cfg.Validate())

	cfg.DBDriver = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestInitDBWithSQLiteAndRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &Config{
		Env:        "test",
		DBDriver:   DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "clashart.db"),
		RedisURL:   "redis://" + mr.Addr(),
	}

	db, err := InitDB(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer db.CloseDB()

	assert.NotNil(t, db.SQL)
	assert.NotNil(t, db.Redis)
	assert.Nil(t, db.Mongo)
	assert.NoError(t, db.Redis.Ping(context.Background()).Err())
}

func TestSetupMiddlewareAssignsRequestID(t *testing.T) {
	e := echo.New()
	SetupMiddleware(e, zap.NewNop())
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(echo.HeaderXRequestID))
	assert.NoError(t, err)
}
