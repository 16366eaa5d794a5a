package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/cheerioo/api/infrastructure/logger"
)

// Manager registers and drives the application's otel instruments by name.
type Manager interface {
	NewGauge(name, desc string)
	NewCounter(name, desc string)
	NewHistogram(name, desc string, buckets ...float64)
	NewUpDownCounter(name, desc string)

	SetGauge(name string, value float64)
	IncrementCounter(ctx context.Context, name string, labels ...string)
	RecordHistogram(ctx context.Context, name string, value float64, labels ...string)
	DeltaUpDownCounter(ctx context.Context, name string, value float64, labels ...string)
}

type gaugeEntry struct {
	gauge metric.Float64ObservableGauge
	value float64
}

type manager struct {
	meter  metric.Meter
	logger *logger.Logger

	mu             sync.RWMutex
	gauges         map[string]*gaugeEntry
	counters       map[string]metric.Int64Counter
	histograms     map[string]metric.Float64Histogram
	upDownCounters map[string]metric.Float64UpDownCounter
}

func NewMetricsManager(meter metric.Meter, logger *logger.Logger) Manager {
	return &manager{
		meter:          meter,
		logger:         logger,
		gauges:         make(map[string]*gaugeEntry),
		counters:       make(map[string]metric.Int64Counter),
		histograms:     make(map[string]metric.Float64Histogram),
		upDownCounters: make(map[string]metric.Float64UpDownCounter),
	}
}

func (m *manager) NewGauge(name, desc string) {
	if m.meter == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.gauges[name]; ok {
		return
	}

	entry := &gaugeEntry{}
	gauge, err := m.meter.Float64ObservableGauge(name, metric.WithDescription(desc),
		metric.WithFloat64Callback(func(_ context.Context, obs metric.Float64Observer) error {
			m.mu.RLock()
			defer m.mu.RUnlock()
			obs.Observe(entry.value)
			return nil
		}))
	if err != nil {
		m.logger.Error("failed to register gauge", zap.String("name", name), zap.Error(err))
		return
	}
	entry.gauge = gauge
	m.gauges[name] = entry
}

func (m *manager) NewCounter(name, desc string) {
	if m.meter == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.counters[name]; ok {
		return
	}
	counter, err := m.meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		m.logger.Error("failed to register counter", zap.String("name", name), zap.Error(err))
		return
	}
	m.counters[name] = counter
}

func (m *manager) NewHistogram(name, desc string, buckets ...float64) {
	if m.meter == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.histograms[name]; ok {
		return
	}
	histogram, err := m.meter.Float64Histogram(name, metric.WithDescription(desc),
		metric.WithExplicitBucketBoundaries(buckets...))
	if err != nil {
		m.logger.Error("failed to register histogram", zap.String("name", name), zap.Error(err))
		return
	}
	m.histograms[name] = histogram
}

func (m *manager) NewUpDownCounter(name, desc string) {
	if m.meter == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.upDownCounters[name]; ok {
		return
	}
	counter, err := m.meter.Float64UpDownCounter(name, metric.WithDescription(desc))
	if err != nil {
		m.logger.Error("failed to register up-down counter", zap.String("name", name), zap.Error(err))
		return
	}
	m.upDownCounters[name] = counter
}

func (m *manager) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.gauges[name]; ok {
		entry.value = value
	}
}

func (m *manager) IncrementCounter(ctx context.Context, name string, labels ...string) {
	m.mu.RLock()
	counter, ok := m.counters[name]
	m.mu.RUnlock()

	if ok {
		counter.Add(ctx, 1, metric.WithAttributes(labelAttributes(labels)...))
	}
}

func (m *manager) RecordHistogram(ctx context.Context, name string, value float64, labels ...string) {
	m.mu.RLock()
	histogram, ok := m.histograms[name]
	m.mu.RUnlock()

	if ok {
		histogram.Record(ctx, value, metric.WithAttributes(labelAttributes(labels)...))
	}
}

func (m *manager) DeltaUpDownCounter(ctx context.Context, name string, value float64, labels ...string) {
	m.mu.RLock()
	counter, ok := m.upDownCounters[name]
	m.mu.RUnlock()

	if ok {
		counter.Add(ctx, value, metric.WithAttributes(labelAttributes(labels)...))
	}
}

// labelAttributes converts key/value pairs to otel attributes; a trailing
// odd key is ignored.
func labelAttributes(labels []string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels)/2)
	for i := 0; i+1 < len(labels); i += 2 {
		attrs = append(attrs, attribute.String(labels[i], labels[i+1]))
	}
	return attrs
}
