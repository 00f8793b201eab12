package storage

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nukrstore/nukr-backend/internal/store"
	"github.com/nukrstore/nukr-backend/pkg/config"
	pkgerrors "github.com/nukrstore/nukr-backend/pkg/errors"
	"github.com/nukrstore/nukr-backend/pkg/logger"
	"github.com/nukrstore/nukr-backend/pkg/metrics"
)

// documentRow holds the single serialized store document. The embedded
// database substitutes for the JSON file while keeping the same whole-document
// read-modify-write contract.
type documentRow struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Body      []byte    `gorm:"column:body;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (documentRow) TableName() string { return "store_documents" }

// backupRow is one retained snapshot of the document body. Insertion order is
// chronological, so the id doubles as the sort key for rotation.
type backupRow struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Body      []byte    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (backupRow) TableName() string { return "store_backups" }

const documentRowID = 1

// SQLiteGateway persists the document in an embedded database: one document
// row plus a backup table pruned to the same retention limit as the file
// backend.
type SQLiteGateway struct {
	db         *gorm.DB
	maxBackups int
	logg       *logger.Logger
	metrics    *metrics.StorageMetrics

	mu sync.Mutex
}

// NewSQLiteGateway opens the database, migrates the two tables and runs the
// startup integrity check against the stored document body.
func NewSQLiteGateway(storeCfg config.StoreConfig, backupCfg config.BackupConfig, logg *logger.Logger, m *metrics.StorageMetrics) (*SQLiteGateway, error) {
	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)
	db, err := gorm.Open(sqlite.Open(storeCfg.SQLiteDSN), &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "open sqlite store")
	}
	if err := db.AutoMigrate(&documentRow{}, &backupRow{}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "migrate sqlite store tables")
	}

	maxBackups := backupCfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 15
	}
	g := &SQLiteGateway{
		db:         db,
		maxBackups: maxBackups,
		logg:       logg,
		metrics:    m,
	}
	if err := g.ensureIntegrity(context.Background()); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *SQLiteGateway) ensureIntegrity(ctx context.Context) error {
	var row documentRow
	err := g.db.First(&row, documentRowID).Error
	if err == gorm.ErrRecordNotFound {
		g.logg.Warn(ctx, "store document missing, seeding default schema")
		return g.writeDocument(store.DefaultDocument(time.Now()))
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "read store document row")
	}

	res := store.Check(row.Body, time.Now())
	switch res.Outcome {
	case store.OutcomeMigrated:
		g.metrics.IncSchemaMigrations()
		g.logg.Info(ctx, "schema migration applied")
		return g.Save(ctx, res.Doc)
	case store.OutcomeCorrupted:
		g.recover(ctx)
		return nil
	default:
		return nil
	}
}

// Load reads the document row. Like the file backend it never fails; database
// errors and corruption degrade to the latest backup row or the default
// schema.
func (g *SQLiteGateway) Load(ctx context.Context) *store.Document {
	var row documentRow
	if err := g.db.First(&row, documentRowID).Error; err != nil {
		g.logg.Error(ctx, "read store document row", err)
		return store.DefaultDocument(time.Now())
	}

	res := store.Check(row.Body, time.Now())
	if res.Outcome == store.OutcomeCorrupted {
		return g.recover(ctx)
	}
	return res.Doc
}

func (g *SQLiteGateway) recover(ctx context.Context) *store.Document {
	g.metrics.IncCorruptionRecoveries()
	g.logg.Critical(ctx, "store document corrupted, attempting restore", nil)

	var backup backupRow
	if err := g.db.Order("id desc").First(&backup).Error; err != nil {
		g.logg.Critical(ctx, "no usable backup, resetting to default schema", err)
		doc := store.DefaultDocument(time.Now())
		if writeErr := g.writeDocument(doc); writeErr != nil {
			g.logg.Error(ctx, "persist default schema", writeErr)
		}
		return doc
	}

	var doc store.Document
	if err := json.Unmarshal(backup.Body, &doc); err != nil {
		g.logg.Critical(ctx, "latest backup is also unreadable, resetting to default schema", err)
		fallback := store.DefaultDocument(time.Now())
		if writeErr := g.writeDocument(fallback); writeErr != nil {
			g.logg.Error(ctx, "persist default schema", writeErr)
		}
		return fallback
	}

	if err := g.writeRaw(backup.Body); err != nil {
		g.logg.Error(ctx, "write restored document", err)
	}
	g.logg.Warn(ctx, "store restored from backup row")
	return &doc
}

// Save copies the current body into the backup table, prunes beyond the
// retention limit, then replaces the document row. Backups are best-effort.
func (g *SQLiteGateway) Save(ctx context.Context, doc *store.Document) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.snapshot(ctx); err != nil {
		g.logg.Warn(ctx, "backup snapshot failed: "+err.Error())
	}

	if err := g.writeDocument(doc); err != nil {
		g.metrics.IncSaveFailures()
		return err
	}
	g.metrics.IncSaves()
	g.logg.Debug(ctx, "store document saved")
	return nil
}

func (g *SQLiteGateway) snapshot(ctx context.Context) error {
	var row documentRow
	err := g.db.First(&row, documentRowID).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "read document for backup")
	}
	if err := g.db.Create(&backupRow{Body: row.Body}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "insert backup row")
	}
	g.metrics.IncBackupsCreated()
	return g.prune(ctx)
}

func (g *SQLiteGateway) prune(ctx context.Context) error {
	var count int64
	if err := g.db.Model(&backupRow{}).Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "count backups")
	}
	excess := int(count) - g.maxBackups
	if excess <= 0 {
		return nil
	}
	var stale []backupRow
	if err := g.db.Order("id asc").Limit(excess).Find(&stale).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "find stale backups")
	}
	for _, row := range stale {
		if err := g.db.Delete(&backupRow{}, row.ID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "delete stale backup")
		}
		g.metrics.IncBackupsPruned()
	}
	g.logg.Debug(ctx, "pruned stale backup rows")
	return nil
}

func (g *SQLiteGateway) writeDocument(doc *store.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "serialize store document")
	}
	return g.writeRaw(raw)
}

func (g *SQLiteGateway) writeRaw(raw []byte) error {
	row := documentRow{ID: documentRowID, Body: raw}
	err := g.db.Save(&row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write store document row")
	}
	return nil
}
