package metrics

import (
	"testing"
	"time"
)

func TestTimingMetricRecordsStats(t *testing.T) {
	m := newTimingMetric("test_op")
	m.Record(10 * time.Millisecond)
	m.Record(30 * time.Millisecond)

	if m.Count() != 2 {
		t.Errorf("count = %d, want 2", m.Count())
	}
	if m.MinNs() != (10 * time.Millisecond).Nanoseconds() {
		t.Errorf("min = %d, want 10ms", m.MinNs())
	}
	if m.MaxNs() != (30 * time.Millisecond).Nanoseconds() {
		t.Errorf("max = %d, want 30ms", m.MaxNs())
	}
	if m.AvgNs() != (20 * time.Millisecond).Nanoseconds() {
		t.Errorf("avg = %d, want 20ms", m.AvgNs())
	}

	m.Reset()
	if m.Count() != 0 || m.TotalNs() != 0 {
		t.Error("reset should clear all counters")
	}
}

func TestTimerRecordsElapsed(t *testing.T) {
	m := newTimingMetric("timer_op")
	done := Timer(m)
	time.Sleep(5 * time.Millisecond)
	done()

	if m.Count() != 1 {
		t.Fatalf("count = %d, want 1", m.Count())
	}
	if m.TotalNs() < (5 * time.Millisecond).Nanoseconds() {
		t.Errorf("recorded %dns, want at least 5ms", m.TotalNs())
	}
}

func TestDisabledCollectionIsNoop(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("disabled_op")
	m.Record(time.Millisecond)
	Timer(m)()

	if m.Count() != 0 {
		t.Errorf("count = %d, want 0 while disabled", m.Count())
	}
}

func TestAllTimingStatsSkipsEmptyMetrics(t *testing.T) {
	ResetAll()
	OutlineLoad.Record(time.Millisecond)

	stats := AllTimingStats()
	if len(stats) != 1 || stats[0].Name != "outline_load" {
		t.Errorf("stats = %+v, want only outline_load", stats)
	}
	ResetAll()
}
