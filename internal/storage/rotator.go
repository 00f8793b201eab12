package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nukrstore/nukr-backend/pkg/config"
	pkgerrors "github.com/nukrstore/nukr-backend/pkg/errors"
	"github.com/nukrstore/nukr-backend/pkg/logger"
	"github.com/nukrstore/nukr-backend/pkg/metrics"
)

const (
	backupPrefix = "nukr_backup_"
	backupSuffix = ".json"
	// Nanosecond resolution keeps names unique and lexical order equal to
	// chronological order.
	backupTimeLayout = "20060102_150405.000000000"
)

// ErrNoBackup is returned by RestoreLatest when the backup directory holds no
// snapshots; the caller must fall back to the default schema.
var ErrNoBackup = pkgerrors.New(pkgerrors.CodeStorage, "no backup available")

// Rotator snapshots the persisted document before each write and prunes the
// backup directory to a retention limit.
type Rotator struct {
	dir        string
	maxBackups int
	logg       *logger.Logger
	metrics    *metrics.StorageMetrics
	now        func() time.Time
}

// NewRotator builds a rotator for the configured backup directory.
func NewRotator(cfg config.BackupConfig, logg *logger.Logger, m *metrics.StorageMetrics) *Rotator {
	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 15
	}
	return &Rotator{
		dir:        cfg.Dir,
		maxBackups: maxBackups,
		logg:       logg,
		metrics:    m,
		now:        time.Now,
	}
}

// Snapshot copies the current persisted file into the backup directory under
// a sortable timestamped name, then prunes beyond the retention limit. A
// missing source file is not an error; there is nothing to protect yet.
// Returns the backup file name, empty when nothing was copied.
func (r *Rotator) Snapshot(ctx context.Context, sourcePath string) (string, error) {
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "read document for backup")
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create backup directory")
	}

	name := backupPrefix + r.now().UTC().Format(backupTimeLayout) + backupSuffix
	if err := os.WriteFile(filepath.Join(r.dir, name), raw, 0o644); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write backup file")
	}
	r.metrics.IncBackupsCreated()

	if err := r.prune(ctx); err != nil {
		// Rotation failure keeps extra files around; the snapshot itself
		// succeeded so the write path continues.
		r.logg.Warn(ctx, "backup rotation failed: "+err.Error())
	}
	return name, nil
}

// prune removes the oldest backups until the count is within the limit.
func (r *Rotator) prune(ctx context.Context) error {
	names, err := r.list()
	if err != nil {
		return err
	}
	for len(names) > r.maxBackups {
		oldest := names[0]
		names = names[1:]
		if err := os.Remove(filepath.Join(r.dir, oldest)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "remove old backup")
		}
		r.metrics.IncBackupsPruned()
		r.logg.Debug(ctx, "deleted old backup "+oldest)
	}
	return nil
}

// RestoreLatest returns the contents and name of the most recent backup.
func (r *Rotator) RestoreLatest() ([]byte, string, error) {
	names, err := r.list()
	if err != nil {
		return nil, "", err
	}
	if len(names) == 0 {
		return nil, "", ErrNoBackup
	}
	latest := names[len(names)-1]
	raw, err := os.ReadFile(filepath.Join(r.dir, latest))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "read latest backup")
	}
	return raw, latest, nil
}

// list returns backup file names in chronological (== lexical) order.
func (r *Rotator) list() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list backup directory")
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
