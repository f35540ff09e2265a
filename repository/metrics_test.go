package repository

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSync(t *testing.T) {
	// metrics not enabled, recording must be a no-op
	recordSync("org/repo", OutcomeCloned)
	updateSyncLatency("org/repo", time.Now())

	EnableMetrics("test", prometheus.NewRegistry())

	recordSync("org/repo", OutcomeCloned)
	recordSync("org/repo", OutcomeFailed)
	recordSync("org/other", OutcomeUnreachable)
	updateSyncLatency("org/repo", time.Now())

	if got := testutil.ToFloat64(syncCount.WithLabelValues("org/repo", string(OutcomeCloned))); got != 1 {
		t.Errorf("sync count for cloned = %v, want 1", got)
	}
	if got := testutil.ToFloat64(syncCount.WithLabelValues("org/repo", string(OutcomeFailed))); got != 1 {
		t.Errorf("sync count for failed = %v, want 1", got)
	}

	// only successful outcomes update the last sync timestamp
	if got := testutil.ToFloat64(lastSyncTimestamp.WithLabelValues("org/other")); got != 0 {
		t.Errorf("last sync timestamp for unreachable repo = %v, want 0", got)
	}
	if got := testutil.ToFloat64(lastSyncTimestamp.WithLabelValues("org/repo")); got == 0 {
		t.Error("last sync timestamp not set for cloned repo")
	}
}
