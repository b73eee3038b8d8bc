package metrics

import (
	"testing"
	"time"
)

func queueLagSampleCount(t *testing.T, m *WorkerMetrics) uint64 {
	t.Helper()
	families, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, family := range families {
		if family.GetName() != "triage_worker_queue_lag_seconds" {
			continue
		}
		var count uint64
		for _, metric := range family.GetMetric() {
			count += metric.GetHistogram().GetSampleCount()
		}
		return count
	}
	return 0
}

func TestObserveQueueLagRecordsSample(t *testing.T) {
	m := NewWorkerMetrics("worker")

	m.ObserveQueueLag("worker", 250*time.Millisecond)
	if got := queueLagSampleCount(t, m); got != 1 {
		t.Fatalf("queue lag sample count = %d, want 1", got)
	}
}

func TestObserveQueueLagIgnoresClockSkew(t *testing.T) {
	m := NewWorkerMetrics("worker")

	// A publisher clock ahead of the worker clock yields a negative lag.
	m.ObserveQueueLag("worker", -1*time.Second)
	if got := queueLagSampleCount(t, m); got != 0 {
		t.Fatalf("queue lag sample count = %d, want 0", got)
	}
}
