package vizsync

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/vizsync/bus"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordCommand is called after each coordinator command.
	// name is the command name (e.g. "SetAxisFilter").
	RecordCommand(name string, duration time.Duration)

	// RecordStaleResponse is called when a load result is discarded.
	RecordStaleResponse()

	// RecordDroppedKeys is called when a rebase drops n selected keys.
	RecordDroppedKeys(n int)

	// RecordPublish is called for every notification the bus dispatches.
	RecordPublish(topic bus.Topic)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCommand(string, time.Duration) {}
func (NoopMetricsCollector) RecordStaleResponse()                {}
func (NoopMetricsCollector) RecordDroppedKeys(int)               {}
func (NoopMetricsCollector) RecordPublish(bus.Topic)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CommandCount      atomic.Int64
	CommandTotalNanos atomic.Int64
	StaleResponses    atomic.Int64
	DroppedKeys       atomic.Int64
	PublishCount      atomic.Int64

	mu      sync.Mutex
	byTopic map[bus.Topic]int64
}

// RecordCommand implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCommand(_ string, duration time.Duration) {
	b.CommandCount.Add(1)
	b.CommandTotalNanos.Add(duration.Nanoseconds())
}

// RecordStaleResponse implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStaleResponse() {
	b.StaleResponses.Add(1)
}

// RecordDroppedKeys implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDroppedKeys(n int) {
	b.DroppedKeys.Add(int64(n))
}

// RecordPublish implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPublish(topic bus.Topic) {
	b.PublishCount.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.byTopic == nil {
		b.byTopic = make(map[bus.Topic]int64)
	}
	b.byTopic[topic]++
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	b.mu.Lock()
	byTopic := make(map[bus.Topic]int64, len(b.byTopic))
	for t, n := range b.byTopic {
		byTopic[t] = n
	}
	b.mu.Unlock()

	return BasicMetricsStats{
		CommandCount:    b.CommandCount.Load(),
		CommandAvgNanos: b.getAvgCommandNanos(),
		StaleResponses:  b.StaleResponses.Load(),
		DroppedKeys:     b.DroppedKeys.Load(),
		PublishCount:    b.PublishCount.Load(),
		PublishByTopic:  byTopic,
	}
}

func (b *BasicMetricsCollector) getAvgCommandNanos() int64 {
	count := b.CommandCount.Load()
	if count == 0 {
		return 0
	}
	return b.CommandTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CommandCount    int64
	CommandAvgNanos int64
	StaleResponses  int64
	DroppedKeys     int64
	PublishCount    int64
	PublishByTopic  map[bus.Topic]int64
}
