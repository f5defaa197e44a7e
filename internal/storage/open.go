package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"quivato_reviews/internal/domain"
	"quivato_reviews/internal/shared"
	mongorepo "quivato_reviews/internal/storage/mongo"
	mysqlrepo "quivato_reviews/internal/storage/mysql"
)

// Closer releases the store connection.
type Closer func(context.Context) error

// Open connects the repository selected by cfg.StoreDriver and wraps it in Timed.
func Open(ctx context.Context, cfg shared.Config) (domain.ReviewRepository, Closer, error) {
	switch cfg.StoreDriver {
	case "mongo", "mongodb":
		client, err := mongorepo.Connect(ctx, cfg.MongoURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("db", cfg.MongoDB).Str("collection", cfg.MongoCollection).Msg("mongo connection ok")
		repo := mongorepo.New(client.Database(cfg.MongoDB).Collection(cfg.MongoCollection))
		return NewTimed(repo, cfg.StoreTimeout), client.Disconnect, nil

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		log.Info().Msg("database connection ok")
		return NewTimed(mysqlrepo.New(db), cfg.StoreTimeout), func(context.Context) error { return db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
