// Package perf keeps a fixed-size ring of timing samples for HTTP requests
// and store queries. Recording is cheap and lock-brief; aggregation is
// deferred to Snapshot, which only the officer perf endpoint calls.
package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the sample ring.
const DefaultRingSize = 10000

// Kind distinguishes request samples from query samples.
type Kind uint8

const (
	Request Kind = iota
	Query
)

// Sample is one timing record.
type Sample struct {
	Kind       Kind
	Op         string // "GET /api/sr" or "store.ExecContext"
	Status     int    // HTTP status, 0 for queries
	DurationMs float64
	At         time.Time
}

// Collector is a fixed-size ring of samples. When full, the oldest sample
// is overwritten.
type Collector struct {
	mu    sync.Mutex
	ring  []Sample
	pos   int
	total int64 // atomic
}

// NewCollector creates a collector with the given ring capacity.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Sample, size)}
}

// Record stores a sample, overwriting the oldest when the ring is full.
func (c *Collector) Record(s Sample) {
	c.mu.Lock()
	c.ring[c.pos] = s
	c.pos = (c.pos + 1) % len(c.ring)
	c.mu.Unlock()
	atomic.AddInt64(&c.total, 1)
}

// TotalRecorded returns the number of samples ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.total)
}

// OpStat aggregates the samples of one operation.
type OpStat struct {
	Op      string  `json:"op"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	TotalMs float64 `json:"totalMs"`
}

// Snapshot is the aggregated view served by the perf endpoint.
type Snapshot struct {
	TotalSamples    int64    `json:"totalSamples"`
	RequestP50Ms    float64  `json:"requestP50Ms"`
	RequestP95Ms    float64  `json:"requestP95Ms"`
	RequestP99Ms    float64  `json:"requestP99Ms"`
	SlowestRequests []OpStat `json:"slowestRequests"`
	SlowestQueries  []OpStat `json:"slowestQueries"`
}

// Snapshot aggregates the samples recorded since the given instant.
// Sorting happens here, never on the record path.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Sample, len(c.ring))
	copy(buf, c.ring)
	c.mu.Unlock()

	var requestDurations []float64
	requests := make(map[string]*OpStat)
	queries := make(map[string]*OpStat)

	for _, s := range buf {
		if s.At.IsZero() || s.At.Before(since) {
			continue
		}
		stats := queries
		if s.Kind == Request {
			stats = requests
			requestDurations = append(requestDurations, s.DurationMs)
		}
		st, ok := stats[s.Op]
		if !ok {
			st = &OpStat{Op: s.Op}
			stats[s.Op] = st
		}
		st.Count++
		st.TotalMs += s.DurationMs
		if s.DurationMs > st.MaxMs {
			st.MaxMs = s.DurationMs
		}
	}
	for _, st := range requests {
		st.AvgMs = st.TotalMs / float64(st.Count)
	}
	for _, st := range queries {
		st.AvgMs = st.TotalMs / float64(st.Count)
	}

	snap := Snapshot{
		TotalSamples:    c.TotalRecorded(),
		SlowestRequests: topByAvg(requests, topN),
		SlowestQueries:  topByAvg(queries, topN),
	}
	if len(requestDurations) > 0 {
		sort.Float64s(requestDurations)
		snap.RequestP50Ms = percentile(requestDurations, 50)
		snap.RequestP95Ms = percentile(requestDurations, 95)
		snap.RequestP99Ms = percentile(requestDurations, 99)
	}
	return snap
}

// percentile returns the p-th percentile of a sorted slice, interpolating
// between neighbors.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*OpStat, n int) []OpStat {
	list := make([]OpStat, 0, len(stats))
	for _, st := range stats {
		list = append(list, *st)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AvgMs > list[j].AvgMs })
	if len(list) > n {
		list = list[:n]
	}
	return list
}
