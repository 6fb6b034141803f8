package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"aumkeeper/internal/adapters/postgres"
	"aumkeeper/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const migrationsDir = "../../platform/db/migrations"

var (
	pgSetupOnce sync.Once

	pgContainer *tcpg.PostgresContainer
	pgConnStr   string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	pgSetupOnce.Do(func() {
		startPostgres(t)
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, resetDatabase(ctx, pool))

	return pool
}

func startPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("postgres"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("postgres"),
	)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.Eventually(t, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return db.PingContext(pingCtx) == nil
	}, 15*time.Second, 500*time.Millisecond)

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.UpContext(ctx, db, migrationsDir))

	pgContainer = pg
	pgConnStr = dsn
}

func resetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `truncate table assets_price restart identity`); err != nil {
		return err
	}
	return nil
}

const insertRow = `
	insert into assets_price(
		solusd_price, jitosolusd_price, btcusd_price, wbtcusd_price, bonkusd_price, usdcusd_price,
		solusd_price_ts, jitosolusd_price_ts, btcusd_price_ts, wbtcusd_price_ts, bonkusd_price_ts, usdcusd_price_ts,
		signature, recovery_id, latest_timestamp
	) values ($1::text::numeric, $2::text::numeric, $3::text::numeric, $4::text::numeric, $5::text::numeric, $6::text::numeric, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

func insertSnapshot(t *testing.T, pool *pgxpool.Pool, base time.Time, solPrice string, latest time.Time) {
	t.Helper()
	_, err := pool.Exec(context.Background(), insertRow,
		solPrice, "2150000000000", "980000000000000", "979000000000000", "230000", "10000000000",
		base, base.Add(1*time.Second), base.Add(2*time.Second), base.Add(3*time.Second), base.Add(4*time.Second), base.Add(5*time.Second),
		"ab", 1, latest,
	)
	require.NoError(t, err)
}

// ---------- AssetsPriceRepository tests ----------

func TestAssetsPriceRepository_GetLatest_Empty(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewAssetsPriceRepository(pool)

	snapshot, err := repo.GetLatest(context.Background())
	require.NoError(t, err)
	require.Nil(t, snapshot)
}

func TestAssetsPriceRepository_GetLatest_ReturnsNewestRow(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewAssetsPriceRepository(pool)

	base := time.Date(2024, 11, 15, 10, 0, 0, 0, time.UTC)
	insertSnapshot(t, pool, base, "1800000000000", base.Add(10*time.Second))
	insertSnapshot(t, pool, base, "1850000000000.75", base.Add(20*time.Second))
	insertSnapshot(t, pool, base, "1700000000000", base.Add(5*time.Second))

	snapshot, err := repo.GetLatest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	require.True(t, snapshot.SOLUSD.Equal(decimal.RequireFromString("1850000000000.75")))
	require.True(t, snapshot.BONKUSD.Equal(decimal.NewFromInt(230000)))
	require.True(t, snapshot.LatestTimestamp.Equal(base.Add(20*time.Second)))
	require.True(t, snapshot.WBTCUSDAt.Equal(base.Add(3*time.Second)))
	require.Equal(t, "ab", snapshot.Signature)
	require.Equal(t, int32(1), snapshot.RecoveryID)

	at, ok := snapshot.ObservedAt(domain.FeedUSDCUSD)
	require.True(t, ok)
	require.True(t, at.Equal(base.Add(5*time.Second)))
}

func TestAssetsPriceRepository_GetLatest_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewAssetsPriceRepository(pool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.GetLatest(ctx)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrConnectivity)
}

func TestAssetsPriceRepository_GetLatest_NonFinitePriceNamesFeed(t *testing.T) {
	for _, raw := range []string{"NaN", "Infinity", "-Infinity"} {
		t.Run(raw, func(t *testing.T) {
			pool := setupPostgres(t)
			repo := postgres.NewAssetsPriceRepository(pool)

			base := time.Date(2024, 11, 15, 10, 0, 0, 0, time.UTC)
			insertSnapshot(t, pool, base, raw, base.Add(10*time.Second))

			snapshot, err := repo.GetLatest(context.Background())
			require.Nil(t, snapshot)
			require.ErrorIs(t, err, domain.ErrPriceConversion)
			require.NotErrorIs(t, err, domain.ErrConnectivity)

			var convErr *domain.PriceConversionError
			require.ErrorAs(t, err, &convErr)
			require.Equal(t, domain.FeedSOLUSD, convErr.Feed)
			require.Equal(t, raw, convErr.Raw)
		})
	}
}
