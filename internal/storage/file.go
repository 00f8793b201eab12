package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nukrstore/nukr-backend/internal/store"
	"github.com/nukrstore/nukr-backend/pkg/config"
	pkgerrors "github.com/nukrstore/nukr-backend/pkg/errors"
	"github.com/nukrstore/nukr-backend/pkg/logger"
	"github.com/nukrstore/nukr-backend/pkg/metrics"
)

// FileGateway persists the document as one JSON file with a sibling backup
// directory. A process-wide mutex serializes writers; reads are lock-free,
// which is safe because writes go through a temp file and an atomic rename.
type FileGateway struct {
	path    string
	rotator *Rotator
	logg    *logger.Logger
	metrics *metrics.StorageMetrics

	mu sync.Mutex
}

// NewFileGateway opens (or seeds) the document at cfg.DataFile and runs the
// startup integrity check: missing file seeds the default schema, missing
// keys migrate additively, unreadable content triggers backup restoration.
func NewFileGateway(cfg config.StoreConfig, rotator *Rotator, logg *logger.Logger, m *metrics.StorageMetrics) (*FileGateway, error) {
	if rotator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "backup rotator required")
	}
	g := &FileGateway{
		path:    cfg.DataFile,
		rotator: rotator,
		logg:    logg,
		metrics: m,
	}
	if err := g.ensureIntegrity(context.Background()); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *FileGateway) ensureIntegrity(ctx context.Context) error {
	raw, err := os.ReadFile(g.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "read store document")
		}
		g.logg.Warn(ctx, "store document missing, seeding default schema")
		return g.writeDocument(store.DefaultDocument(time.Now()))
	}

	res := store.Check(raw, time.Now())
	switch res.Outcome {
	case store.OutcomeMigrated:
		g.metrics.IncSchemaMigrations()
		g.logg.Info(ctx, "schema migration applied, added keys: "+strings.Join(res.AddedKeys, ","))
		return g.Save(ctx, res.Doc)
	case store.OutcomeCorrupted:
		g.recover(ctx)
		return nil
	default:
		return nil
	}
}

// Load reads the persisted document. It never fails: unreadable files degrade
// to the latest backup and then to the default schema, with the fallback
// recorded as a critical log and a metric.
func (g *FileGateway) Load(ctx context.Context) *store.Document {
	raw, err := os.ReadFile(g.path)
	if err != nil {
		g.logg.Error(ctx, "read store document", err)
		return store.DefaultDocument(time.Now())
	}

	res := store.Check(raw, time.Now())
	if res.Outcome == store.OutcomeCorrupted {
		return g.recover(ctx)
	}
	return res.Doc
}

// recover restores the latest backup over the corrupted document, falling
// back to the default schema when no usable backup exists. The restored bytes
// are trusted as-is; re-validating them could recurse forever.
func (g *FileGateway) recover(ctx context.Context) *store.Document {
	g.metrics.IncCorruptionRecoveries()
	g.logg.Critical(ctx, "store document corrupted, attempting restore", nil)

	raw, name, err := g.rotator.RestoreLatest()
	if err != nil {
		g.logg.Critical(ctx, "no usable backup, resetting to default schema", err)
		doc := store.DefaultDocument(time.Now())
		if writeErr := g.writeDocument(doc); writeErr != nil {
			g.logg.Error(ctx, "persist default schema", writeErr)
		}
		return doc
	}

	var doc store.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		g.logg.Critical(ctx, "latest backup is also unreadable, resetting to default schema", err)
		fallback := store.DefaultDocument(time.Now())
		if writeErr := g.writeDocument(fallback); writeErr != nil {
			g.logg.Error(ctx, "persist default schema", writeErr)
		}
		return fallback
	}

	if err := g.writeRaw(raw); err != nil {
		g.logg.Error(ctx, "write restored document", err)
	}
	g.logg.Warn(ctx, "store restored from backup "+name)
	return &doc
}

// Save snapshots the current file, then atomically replaces it with the full
// serialized document. Backups are best-effort and never block the write.
func (g *FileGateway) Save(ctx context.Context, doc *store.Document) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	name, err := g.rotator.Snapshot(ctx, g.path)
	if err != nil {
		g.logg.Warn(ctx, "backup snapshot failed: "+err.Error())
	} else if name != "" {
		doc.Meta.LastBackup = name
	}

	if err := g.writeDocument(doc); err != nil {
		g.metrics.IncSaveFailures()
		return err
	}
	g.metrics.IncSaves()
	g.logg.Debug(ctx, "store document saved")
	return nil
}

func (g *FileGateway) writeDocument(doc *store.Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "serialize store document")
	}
	return g.writeRaw(raw)
}

// writeRaw writes via temp-file-then-rename so a concurrent lock-free reader
// never observes a half-written document.
func (g *FileGateway) writeRaw(raw []byte) error {
	dir := filepath.Dir(g.path)
	tmp, err := os.CreateTemp(dir, ".nukr_data-*.tmp")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create temp document")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write temp document")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "close temp document")
	}
	if err := os.Rename(tmpName, g.path); err != nil {
		os.Remove(tmpName)
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "replace store document")
	}
	return nil
}
