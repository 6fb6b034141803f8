package postgres

import (
	"context"
	"errors"
	"fmt"

	"aumkeeper/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type AssetsPriceRepository struct {
	pool *pgxpool.Pool
}

func (r *AssetsPriceRepository) GetLatest(ctx context.Context) (*domain.PriceSnapshot, error) {
	// numerics are read as text so no precision is lost before decimal parsing
	const q = `
		select
			solusd_price::text,
			jitosolusd_price::text,
			btcusd_price::text,
			wbtcusd_price::text,
			bonkusd_price::text,
			usdcusd_price::text,
			solusd_price_ts,
			jitosolusd_price_ts,
			btcusd_price_ts,
			wbtcusd_price_ts,
			bonkusd_price_ts,
			usdcusd_price_ts,
			signature,
			recovery_id,
			latest_timestamp
		from assets_price
		order by latest_timestamp desc
		limit 1;
	`

	var (
		s      domain.PriceSnapshot
		prices [6]string
	)
	if err := r.pool.QueryRow(ctx, q).Scan(
		&prices[0],
		&prices[1],
		&prices[2],
		&prices[3],
		&prices[4],
		&prices[5],
		&s.SOLUSDAt,
		&s.JITOSOLUSDAt,
		&s.BTCUSDAt,
		&s.WBTCUSDAt,
		&s.BONKUSDAt,
		&s.USDCUSDAt,
		// -----
		&s.Signature,
		&s.RecoveryID,
		&s.LatestTimestamp,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get oracle price entry from DB: %w: %w", domain.ErrConnectivity, err)
	}

	// scan order matches feed ids 0..5
	targets := [6]*decimal.Decimal{&s.SOLUSD, &s.JITOSOLUSD, &s.BTCUSD, &s.WBTCUSD, &s.BONKUSD, &s.USDCUSD}
	for i, raw := range prices {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &domain.PriceConversionError{Feed: domain.FeedID(i), Raw: raw}
		}
		*targets[i] = d
	}
	return &s, nil
}

func NewAssetsPriceRepository(pool *pgxpool.Pool) *AssetsPriceRepository {
	return &AssetsPriceRepository{pool: pool}
}
