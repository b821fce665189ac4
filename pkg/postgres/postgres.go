package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/crisis_mesh/internal/config"
)

// NewPostgresDB открывает пул соединений и дожидается ответа базы не дольше DBConnectTimeout
func NewPostgresDB(ctx context.Context, appCfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(appCfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if appCfg.DBMaxConns > 0 {
		poolCfg.MaxConns = int32(appCfg.DBMaxConns)
	}
	if appCfg.DBMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = appCfg.DBMaxIdleTime
	}

	connectCtx := ctx
	if appCfg.DBConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, appCfg.DBConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres is not reachable: %w", err)
	}
	return pool, nil
}
