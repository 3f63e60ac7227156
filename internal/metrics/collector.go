// Package metrics provides in-memory runtime statistics collection
// for the frame loop.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated timings for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64
	TotalTimeUs int64
	AvgTimeUs   float64
	MinTimeUs   int64
	MaxTimeUs   int64
}

// Snapshot represents the full engine statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	Tick          *OperationSnapshot
	Hulls         *OperationSnapshot
	Adapt         *OperationSnapshot
	Frame         *OperationSnapshot
	Broadcast     *OperationSnapshot
}

// Operation names for the collector. Tick covers one full force pass,
// Frame the assembly of a render frame including hulls and zoom.
const (
	OpTick      = "tick"
	OpHulls     = "hulls"
	OpAdapt     = "adapt"
	OpFrame     = "frame"
	OpBroadcast = "broadcast"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}
	return &OperationSnapshot{
		Count:       m.Count,
		TotalTimeUs: m.TotalTime.Microseconds(),
		AvgTimeUs:   float64(m.TotalTime.Microseconds()) / float64(m.Count),
		MinTimeUs:   m.MinTime.Microseconds(),
		MaxTimeUs:   m.MaxTime.Microseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Tick:          snapshotOp(c.ops[OpTick]),
		Hulls:         snapshotOp(c.ops[OpHulls]),
		Adapt:         snapshotOp(c.ops[OpAdapt]),
		Frame:         snapshotOp(c.ops[OpFrame]),
		Broadcast:     snapshotOp(c.ops[OpBroadcast]),
	}
}
