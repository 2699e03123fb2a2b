package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cohorttools/cohort-tools-api/internal/config"
)

// Open connects the backend selected by cfg.StoreDriver. For MySQL it runs
// the embedded migrations first when cfg.MigrateOnStart is set.
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		db, err := NewDB(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
			slog.Info("migrations applied")
		}
		return NewMySQLStore(db), nil

	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		store, err := NewMongoStore(ctx, client.Database(cfg.MongoDatabase))
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
