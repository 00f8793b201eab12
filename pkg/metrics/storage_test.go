package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStorageMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorageMetrics(reg)

	m.IncSaves()
	m.IncSaves()
	m.IncCorruptionRecoveries()

	if got := testutil.ToFloat64(m.saves); got != 2 {
		t.Fatalf("expected 2 saves, got %v", got)
	}
	if got := testutil.ToFloat64(m.corruptionRecoveries); got != 1 {
		t.Fatalf("expected 1 recovery, got %v", got)
	}
	if got := testutil.ToFloat64(m.saveFailures); got != 0 {
		t.Fatalf("expected 0 failures, got %v", got)
	}
}

func TestStorageMetricsNilSafe(t *testing.T) {
	var m *StorageMetrics
	m.IncSaves()
	m.IncBackupsPruned()

	empty := NewStorageMetrics(nil)
	empty.IncSaveFailures()
	empty.IncSchemaMigrations()
}
