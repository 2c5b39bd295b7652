package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/tenantportal/pkg/config"
	"github.com/suteetoe/tenantportal/pkg/payment/paymenttest"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DB:     config.DBConfig{Driver: "sqlite", SQLitePath: "file::memory:", LogLevel: logger.Silent},
		Server: config.ServerConfig{Env: "test"},
		JWT:    config.JWTConfig{SigningKey: "app-test", ExpirationHours: 1},
		Stripe: config.StripeConfig{Currency: "usd"},
		Redis:  config.RedisConfig{DirectoryTTL: time.Minute},
		Portal: config.PortalConfig{
			MapPDFURL:       "/static/OfficeDirectory_and_Map.pdf",
			OverdueGrace:    5 * 24 * time.Hour,
			ManagerEmail:    "info@example.com",
			ManagerPassword: "manager-pw",
			ManagerName:     "Property Manager",
		},
	}
}

func TestAppMigrateSeedAndServe(t *testing.T) {
	a, err := New(testConfig(t), zap.NewNop(), &paymenttest.Gateway{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.Migrate())
	res, err := a.Seed(context.Background())
	require.NoError(t, err)
	assert.True(t, res.ManagerCreated)
	assert.NotZero(t, res.DirectoryAdded)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	a.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAppUsesRedisWhenEnabled(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()

	a, err := New(cfg, zap.NewNop(), &paymenttest.Gateway{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, a.Migrate())
	_, err = a.Seed(context.Background())
	require.NoError(t, err)

	_, err = a.Directory.ListDirectory(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists("portal:directory:all"))
}
