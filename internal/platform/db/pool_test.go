package db

import (
	"context"
	"testing"
	"time"

	"aumkeeper/internal/config"

	"github.com/stretchr/testify/require"
)

func testDbServer() config.DbServer {
	return config.DbServer{
		Host:     "127.0.0.1",
		Port:     "5432",
		User:     "keeper",
		Pass:     "secret",
		Name:     "prices",
		MaxConns: 3,
		SSLMode:  "disable",
	}
}

func TestNewPoolConfig_AppliesKeeperSettings(t *testing.T) {
	poolCfg, err := NewPoolConfig(testDbServer())
	require.NoError(t, err)

	require.Equal(t, int32(3), poolCfg.MaxConns)
	require.Equal(t, int32(1), poolCfg.MinConns)
	require.Equal(t, 30*time.Second, poolCfg.HealthCheckPeriod)
	require.Equal(t, "aum-keeper", poolCfg.ConnConfig.RuntimeParams["application_name"])
	require.Equal(t, "127.0.0.1", poolCfg.ConnConfig.Host)
	require.Equal(t, uint16(5432), poolCfg.ConnConfig.Port)
	require.Equal(t, "prices", poolCfg.ConnConfig.Database)
	require.Nil(t, poolCfg.ConnConfig.TLSConfig)
}

func TestNewPoolConfig_KeepsDriverDefaultMaxConns(t *testing.T) {
	cfg := testDbServer()
	cfg.MaxConns = 0

	poolCfg, err := NewPoolConfig(cfg)
	require.NoError(t, err)
	require.Positive(t, poolCfg.MaxConns)
}

func TestNewPoolConfig_InvalidPort(t *testing.T) {
	cfg := testDbServer()
	cfg.Port = "not-a-port"

	_, err := NewPoolConfig(cfg)
	require.ErrorContains(t, err, "failed to parse db config")
}

func TestCreatePoolAndPing_Unreachable(t *testing.T) {
	cfg := testDbServer()
	cfg.Port = "1"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pool, err := CreatePoolAndPing(ctx, cfg)
	require.Error(t, err)
	require.Nil(t, pool)
}
