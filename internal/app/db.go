package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/court-spotter/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	dbPingTimeout  = 5 * time.Second
	dbMaxOpenConns = 25
)

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
