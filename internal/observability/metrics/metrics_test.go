package metrics

import (
	"testing"
	"time"
)

func TestDefaultIsSingleton(t *testing.T) {
	ResetForTest()
	first := Default()
	second := WithConfig(Config{ServiceName: "ignored-after-first-call"})
	if first != second {
		t.Fatalf("expected the same metrics instance on repeated calls")
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.EventApplied("sync_job", "sync_job_created")
	m.HandleFailed("sync_job", "sync_job_completed")
	m.EventRejected("sync_job", "sync_job_started")
	m.ObserveSyncDuration(time.Second)
	m.CacheHit()
	m.CacheMiss()
}

func TestCountersIncrementWithoutPanic(t *testing.T) {
	ResetForTest()
	m := WithConfig(Config{ServiceName: "telesim-test", Environment: "test"})
	m.EventApplied("esim_profile", "esim_usage_updated")
	m.EventRejected("sync_job", "sync_job_started")
	m.ObserveSyncDuration(90 * time.Second)
	m.CacheHit()
	m.CacheMiss()
}
