package perf

import (
	"sync"
	"testing"
	"time"
)

func TestCollectorRecordAndSnapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Sample{Kind: Request, Op: "GET /api/sr", Status: 200, DurationMs: 10, At: now})
	c.Record(Sample{Kind: Request, Op: "GET /api/sr", Status: 200, DurationMs: 30, At: now})
	c.Record(Sample{Kind: Query, Op: "store.ExecContext", DurationMs: 5, At: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalSamples != 3 {
		t.Errorf("TotalSamples = %d, want 3", snap.TotalSamples)
	}
	if len(snap.SlowestRequests) != 1 {
		t.Fatalf("SlowestRequests len = %d, want 1", len(snap.SlowestRequests))
	}
	if snap.SlowestRequests[0].AvgMs != 20 {
		t.Errorf("AvgMs = %v, want 20", snap.SlowestRequests[0].AvgMs)
	}
	if snap.SlowestRequests[0].MaxMs != 30 {
		t.Errorf("MaxMs = %v, want 30", snap.SlowestRequests[0].MaxMs)
	}
	if len(snap.SlowestQueries) != 1 {
		t.Fatalf("SlowestQueries len = %d, want 1", len(snap.SlowestQueries))
	}
}

func TestCollectorRingOverwritesOldest(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		c.Record(Sample{Kind: Request, Op: "GET /api/kills", DurationMs: float64(i), At: now})
	}

	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestRequests) != 1 {
		t.Fatalf("SlowestRequests len = %d, want 1", len(snap.SlowestRequests))
	}
	if snap.SlowestRequests[0].Count != 3 {
		t.Errorf("Count = %d, want the 3 samples the ring kept", snap.SlowestRequests[0].Count)
	}
}

func TestCollectorPercentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()

	for i := 1; i <= 100; i++ {
		c.Record(Sample{Kind: Request, Op: "GET /api/audit", DurationMs: float64(i), At: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 5)
	if snap.RequestP50Ms < 50 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v, want ~50.5", snap.RequestP50Ms)
	}
	if snap.RequestP95Ms < 95 || snap.RequestP95Ms > 96 {
		t.Errorf("P95 = %v, want ~95", snap.RequestP95Ms)
	}
	if snap.RequestP99Ms < 99 || snap.RequestP99Ms > 100 {
		t.Errorf("P99 = %v, want ~99", snap.RequestP99Ms)
	}
}

func TestCollectorIgnoresSamplesBeforeSince(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()

	c.Record(Sample{Kind: Request, Op: "GET /api/sr", DurationMs: 5, At: now.Add(-2 * time.Hour)})
	c.Record(Sample{Kind: Request, Op: "GET /api/sr", DurationMs: 7, At: now})

	snap := c.Snapshot(now.Add(-time.Minute), 5)
	if len(snap.SlowestRequests) != 1 || snap.SlowestRequests[0].Count != 1 {
		t.Fatalf("stale sample leaked into the window: %+v", snap.SlowestRequests)
	}
}

func TestCollectorConcurrentRecord(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record(Sample{Kind: Query, Op: "store.QueryContext", DurationMs: 1, At: now})
			}
		}()
	}
	wg.Wait()

	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}
