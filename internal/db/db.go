package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/omtii/marketplace/internal/config"
)

var Conn *pgxpool.Pool

// Init connects to Postgres and ensures the schema is in place.
func Init(cfg config.PostgresConfig, logger *zap.Logger) {
	var err error
	Conn, err = pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		logger.Fatal("unable to connect to database", zap.Error(err))
	}

	if err = Conn.Ping(context.Background()); err != nil {
		logger.Fatal("unable to ping database", zap.Error(err))
	}

	logger.Info("connected to postgres")

	ensureSchema(logger)
}
