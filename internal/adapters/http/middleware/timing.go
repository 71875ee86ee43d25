package middleware

import (
	"net/http"
	"time"

	"softres/internal/adapters/http/perf"
)

// Timing records one request sample per request. A nil collector disables
// recording without changing the handler chain.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if collector == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			collector.Record(perf.Sample{
				Kind:       perf.Request,
				Op:         r.Method + " " + r.URL.Path,
				Status:     rec.status,
				DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
				At:         time.Now(),
			})
		})
	}
}
