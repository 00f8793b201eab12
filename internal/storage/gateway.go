package storage

import (
	"context"

	"github.com/nukrstore/nukr-backend/internal/store"
	"github.com/nukrstore/nukr-backend/pkg/config"
	pkgerrors "github.com/nukrstore/nukr-backend/pkg/errors"
	"github.com/nukrstore/nukr-backend/pkg/logger"
	"github.com/nukrstore/nukr-backend/pkg/metrics"
)

// Gateway is the whole-document persistence contract. Every domain operation
// runs load, mutates its private copy, then save.
//
// Load never fails from the caller's perspective: corruption triggers backup
// restoration and, failing that, the default schema. The degraded paths are
// observable through logs and metrics only.
//
// Save serializes all writers and surfaces STORAGE_ERROR on failure. A failed
// save means the in-memory mutation was not committed; nothing rolls back.
type Gateway interface {
	Load(ctx context.Context) *store.Document
	Save(ctx context.Context, doc *store.Document) error
}

// New selects a gateway implementation from configuration.
func New(storeCfg config.StoreConfig, backupCfg config.BackupConfig, logg *logger.Logger, m *metrics.StorageMetrics) (Gateway, error) {
	switch storeCfg.Driver {
	case config.StoreDriverSQLite:
		return NewSQLiteGateway(storeCfg, backupCfg, logg, m)
	case config.StoreDriverFile, "":
		rotator := NewRotator(backupCfg, logg, m)
		return NewFileGateway(storeCfg, rotator, logg, m)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unknown store driver "+storeCfg.Driver)
	}
}
