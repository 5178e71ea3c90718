// Package database contains the logic for establishing
// connections to the PostgreSQL database.
//
// One pgx pool is shared by two consumers:
//   - raw pgx queries (verification runs in the `databasehub` schema)
//   - the gorm context over the AdventureWorks sample tables
//
// It handles:
//   - building a DSN from config
//   - creating a pgx connection pool (pgxpool) with the sample search_path
//   - wiring query tracing/logging (pgx tracelog)
//   - optional New Relic instrumentation (nrpgx5)
//   - opening gorm over the same pool
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/config"
	loggerConfig "github.com/hadywafa/DatabaseHub/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database wraps the pgx pool, the gorm context built on it, and a logger.
type Database struct {
	Pool *pgxpool.Pool

	// ORM is the AdventureWorks context. It borrows connections from Pool.
	ORM *gorm.DB

	log *zerolog.Logger
}

// multiTracer chains tracers: pgx only has one Tracer slot in ConnConfig.
//
// Used when both New Relic (nrpgx5) and the local SQL tracelog are active.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.QueryTracer); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.QueryTracer); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout is how long startup waits for the first ping.
const DatabasePingTimeout = 10 * time.Second

// PoolConfig parses the DSN and applies pool sizing and the search_path.
func PoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	if cfg.Database.MaxOpenConns > 0 {
		pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 && cfg.Database.MaxIdleConns <= cfg.Database.MaxOpenConns {
		pgxPoolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	}
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	// Unqualified `product` / `person` resolve through the sample schemas.
	if len(cfg.AdventureWorks.SearchPath) > 0 {
		pgxPoolConfig.ConnConfig.RuntimeParams["search_path"] = strings.Join(cfg.AdventureWorks.SearchPath, ",")
	}

	return pgxPoolConfig, nil
}

// New creates the PostgreSQL pool with instrumentation and opens gorm on it.
//
// Behavior:
//   - Attach New Relic tracer if available
//   - In local env: attach SQL tracelogger (chained if New Relic is on too)
//   - Create pool, ping it, open gorm, return Database
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	if loggerService.GetApplication() != nil {
		pgxPoolConfig.ConnConfig.Tracer = nrpgx5.NewTracer()
	}

	// Noisy, so local only.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		localTracer := &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		}

		if pgxPoolConfig.ConnConfig.Tracer != nil {
			pgxPoolConfig.ConnConfig.Tracer = &multiTracer{
				tracers: []any{pgxPoolConfig.ConnConfig.Tracer, localTracer},
			}
		} else {
			pgxPoolConfig.ConnConfig.Tracer = localTracer
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	orm, err := OpenORM(pool, *logger, cfg.Observability.Logging.SlowQueryThreshold)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info().
		Strs("search_path", cfg.AdventureWorks.SearchPath).
		Msg("connected to the database")

	return &Database{
		Pool: pool,
		ORM:  orm,
		log:  logger,
	}, nil
}

// OpenORM opens gorm over an existing pgx pool.
func OpenORM(pool *pgxpool.Pool, logger zerolog.Logger, slowThreshold time.Duration) (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)

	orm, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 NewGormLogger(logger, slowThreshold),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open orm context: %w", err)
	}
	return orm, nil
}

// Close closes the gorm handle and then the pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")

	if db.ORM != nil {
		if sqlDB, err := db.ORM.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	db.Pool.Close()
	return nil
}
