package records

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/pulsecheck/internal/filex"
	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"github.com/dmitrijs2005/pulsecheck/internal/server/config"
	"github.com/dmitrijs2005/pulsecheck/internal/server/records/badgerstore"
	"github.com/dmitrijs2005/pulsecheck/internal/server/records/s3store"
	"github.com/dmitrijs2005/pulsecheck/internal/server/records/sqlstore"
)

// SQLiteFile is the database file created under DataDir by the sqlite backend.
const SQLiteFile = "records.db"

// Open returns the backend selected by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendBadger, "":
		dir, err := filex.EnsureDir(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		bc := badgerstore.DefaultConfig(dir)
		bc.Logger = logger.With("component", "badger")
		return badgerstore.Open(bc)
	case config.BackendPostgres:
		return sqlstore.Open(ctx, sqlstore.Postgres, cfg.DatabaseDSN)
	case config.BackendSQLite:
		dir, err := filex.EnsureDir(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return sqlstore.Open(ctx, sqlstore.SQLite, filepath.Join(dir, SQLiteFile))
	case config.BackendS3:
		return s3store.Open(ctx, s3store.Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
