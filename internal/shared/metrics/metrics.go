package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	jobsEnqueuedTotal     atomic.Uint64
	jobsSucceededTotal    atomic.Uint64
	jobsRetriedTotal      atomic.Uint64
	jobsFailedTotal       atomic.Uint64
	generationCallsTotal  atomic.Uint64
	generationRetryTotal  atomic.Uint64
	generationCacheHits   atomic.Uint64
	analysisFallbackTotal atomic.Uint64

	analysisDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncJobEnqueued increments the enqueued jobs counter.
func IncJobEnqueued() {
	jobsEnqueuedTotal.Add(1)
}

// IncJobSucceeded increments the succeeded jobs counter.
func IncJobSucceeded() {
	jobsSucceededTotal.Add(1)
}

// IncJobRetried increments the retried jobs counter.
func IncJobRetried() {
	jobsRetriedTotal.Add(1)
}

// IncJobFailed increments the failed jobs counter.
func IncJobFailed() {
	jobsFailedTotal.Add(1)
}

// IncGenerationCall increments the model call counter.
func IncGenerationCall() {
	generationCallsTotal.Add(1)
}

// IncGenerationRetry increments the model retry counter.
func IncGenerationRetry() {
	generationRetryTotal.Add(1)
}

// IncGenerationCacheHit increments the response cache hit counter.
func IncGenerationCacheHit() {
	generationCacheHits.Add(1)
}

// IncAnalysisFallback increments the fallback result counter.
func IncAnalysisFallback() {
	analysisFallbackTotal.Add(1)
}

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "analysis_jobs_enqueued_total", "Total analysis jobs enqueued", jobsEnqueuedTotal.Load())
	writeCounter(&buf, "analysis_jobs_succeeded_total", "Total analysis jobs succeeded", jobsSucceededTotal.Load())
	writeCounter(&buf, "analysis_jobs_retried_total", "Total analysis job retries", jobsRetriedTotal.Load())
	writeCounter(&buf, "analysis_jobs_failed_total", "Total analysis jobs failed permanently", jobsFailedTotal.Load())
	writeCounter(&buf, "generation_calls_total", "Total model generation calls", generationCallsTotal.Load())
	writeCounter(&buf, "generation_retries_total", "Total model generation retries", generationRetryTotal.Load())
	writeCounter(&buf, "generation_cache_hits_total", "Total response cache hits", generationCacheHits.Load())
	writeCounter(&buf, "analysis_fallback_total", "Total analyses resolved with the fallback result", analysisFallbackTotal.Load())
	writeHistogram(&buf, "analysis_duration_ms", "Analysis duration in milliseconds", analysisDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	// Per-bucket counts; the text writer accumulates them into le buckets.
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
