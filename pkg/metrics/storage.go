package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorageMetrics records the observable events of the persistence layer. The
// corruption recovery counter exists because load() never surfaces corruption
// to callers; this is the only place the fallback becomes visible.
type StorageMetrics struct {
	saves                prometheus.Counter
	saveFailures         prometheus.Counter
	backupsCreated       prometheus.Counter
	backupsPruned        prometheus.Counter
	corruptionRecoveries prometheus.Counter
	schemaMigrations     prometheus.Counter
}

// NewStorageMetrics registers the storage metrics on the provided registerer.
// A nil registerer yields a no-op instance, which keeps tests quiet.
func NewStorageMetrics(reg prometheus.Registerer) *StorageMetrics {
	if reg == nil {
		return &StorageMetrics{}
	}
	saves := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_saves_total",
		Help: "Successful document writes.",
	})
	saveFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_save_failures_total",
		Help: "Document writes that failed and surfaced a storage error.",
	})
	backupsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_backups_created_total",
		Help: "Backup snapshots taken before writes.",
	})
	backupsPruned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_backups_pruned_total",
		Help: "Backup files removed by rotation.",
	})
	corruptionRecoveries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_corruption_recoveries_total",
		Help: "Times the document was unreadable and a backup or default schema was used.",
	})
	schemaMigrations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_schema_migrations_total",
		Help: "Additive schema migrations applied to the document.",
	})
	reg.MustRegister(saves, saveFailures, backupsCreated, backupsPruned, corruptionRecoveries, schemaMigrations)
	return &StorageMetrics{
		saves:                saves,
		saveFailures:         saveFailures,
		backupsCreated:       backupsCreated,
		backupsPruned:        backupsPruned,
		corruptionRecoveries: corruptionRecoveries,
		schemaMigrations:     schemaMigrations,
	}
}

// IncSaves increments the successful write counter.
func (m *StorageMetrics) IncSaves() {
	if m == nil || m.saves == nil {
		return
	}
	m.saves.Inc()
}

// IncSaveFailures increments the failed write counter.
func (m *StorageMetrics) IncSaveFailures() {
	if m == nil || m.saveFailures == nil {
		return
	}
	m.saveFailures.Inc()
}

// IncBackupsCreated increments the snapshot counter.
func (m *StorageMetrics) IncBackupsCreated() {
	if m == nil || m.backupsCreated == nil {
		return
	}
	m.backupsCreated.Inc()
}

// IncBackupsPruned increments the rotation removal counter.
func (m *StorageMetrics) IncBackupsPruned() {
	if m == nil || m.backupsPruned == nil {
		return
	}
	m.backupsPruned.Inc()
}

// IncCorruptionRecoveries increments the recovery counter.
func (m *StorageMetrics) IncCorruptionRecoveries() {
	if m == nil || m.corruptionRecoveries == nil {
		return
	}
	m.corruptionRecoveries.Inc()
}

// IncSchemaMigrations increments the migration counter.
func (m *StorageMetrics) IncSchemaMigrations() {
	if m == nil || m.schemaMigrations == nil {
		return
	}
	m.schemaMigrations.Inc()
}
