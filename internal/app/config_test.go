package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, cfg.DBDriver)
	require.Equal(t, 48*time.Hour, cfg.JWTTTL)
	require.Equal(t, 6, cfg.RetentionPurchaseMonths)
	require.Equal(t, 3, cfg.RetentionSaleMonths)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "mysql")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "DB_DRIVER")

	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("RETENTION_SALE_MONTHS", "-2")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "retention")
}

func TestInTestModeFollowsEnv(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	require.True(t, InTestMode())

	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	require.False(t, InTestMode())
}
