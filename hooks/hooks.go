// Package hooks provides the Logger/MetricsCollector contracts and their
// production-ready implementations, invoked around every Builder stage.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Skryldev/imgfit/raster"
)

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
}

// MetricsCollector receives performance observations from the engine.
type MetricsCollector interface {
	RecordProcessingTime(stage string, d time.Duration)
	RecordThroughput(bytes int64)
	RecordMemory(bytes int64)
	RecordError(stage string, code string)
}

// Hook is an optional observer invoked around each processing stage
// (materialize, plan, resize, filter chain, encode).
type Hook interface {
	BeforeStage(ctx context.Context, stage string, img *raster.Raster)
	AfterStage(ctx context.Context, stage string, img *raster.Raster, d time.Duration, err error)
}

// ── Structured logger adapter ─────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...any) { s.log.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...any)  { s.log.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...any)  { s.log.Warn(msg, fields...) }
func (s *SlogLogger) Error(msg string, fields ...any) { s.log.Error(msg, fields...) }

// ── Logging hook ──────────────────────────────────────────────────────────

// LoggingHook logs before/after each processing stage.
type LoggingHook struct {
	logger Logger
}

func NewLoggingHook(l Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) BeforeStage(_ context.Context, stage string, img *raster.Raster) {
	if img == nil {
		h.logger.Debug("stage.start", "stage", stage)
		return
	}
	h.logger.Debug("stage.start", "stage", stage, "width", img.Width(), "height", img.Height())
}

func (h *LoggingHook) AfterStage(_ context.Context, stage string, img *raster.Raster, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("stage.error", "stage", stage, "duration_ms", d.Milliseconds(), "error", err.Error())
		return
	}
	out := "nil"
	if img != nil {
		out = fmt.Sprintf("%dx%d", img.Width(), img.Height())
	}
	h.logger.Debug("stage.done", "stage", stage, "duration_ms", d.Milliseconds(), "output", out)
}

// ── In-memory metrics collector ───────────────────────────────────────────

// InMemoryMetrics accumulates metrics atomically; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	stageDurationsMs map[string]int64
	stageCalls       map[string]int64
	stageErrors      map[string]int64

	totalThroughputB int64
	totalMemoryB     int64
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		stageDurationsMs: make(map[string]int64),
		stageCalls:       make(map[string]int64),
		stageErrors:      make(map[string]int64),
	}
}

func (m *InMemoryMetrics) RecordProcessingTime(stage string, d time.Duration) {
	m.mu.Lock()
	m.stageDurationsMs[stage] += d.Milliseconds()
	m.stageCalls[stage]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordThroughput(bytes int64) { atomic.AddInt64(&m.totalThroughputB, bytes) }
func (m *InMemoryMetrics) RecordMemory(bytes int64)     { atomic.AddInt64(&m.totalMemoryB, bytes) }

func (m *InMemoryMetrics) RecordError(stage string, _ string) {
	m.mu.Lock()
	m.stageErrors[stage]++
	m.mu.Unlock()
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		StageDurationsMs: make(map[string]int64, len(m.stageDurationsMs)),
		StageCalls:       make(map[string]int64, len(m.stageCalls)),
		StageErrors:      make(map[string]int64, len(m.stageErrors)),
		TotalThroughputB: atomic.LoadInt64(&m.totalThroughputB),
		TotalMemoryB:     atomic.LoadInt64(&m.totalMemoryB),
	}
	for k, v := range m.stageDurationsMs {
		snap.StageDurationsMs[k] = v
	}
	for k, v := range m.stageCalls {
		snap.StageCalls[k] = v
	}
	for k, v := range m.stageErrors {
		snap.StageErrors[k] = v
	}
	return snap
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	StageDurationsMs map[string]int64
	StageCalls       map[string]int64
	StageErrors      map[string]int64
	TotalThroughputB int64
	TotalMemoryB     int64
}

// ── Metrics hook ──────────────────────────────────────────────────────────

// MetricsHook feeds engine events into a MetricsCollector.
type MetricsHook struct {
	collector MetricsCollector
}

func NewMetricsHook(c MetricsCollector) *MetricsHook { return &MetricsHook{collector: c} }

func (h *MetricsHook) BeforeStage(_ context.Context, _ string, _ *raster.Raster) {}

func (h *MetricsHook) AfterStage(_ context.Context, stage string, img *raster.Raster, d time.Duration, err error) {
	h.collector.RecordProcessingTime(stage, d)
	if err != nil {
		h.collector.RecordError(stage, "stage_error")
		return
	}
	if img != nil {
		h.collector.RecordThroughput(img.SizeBytes())
	}
}
