// Package metrics wraps an embedded time-series store used for lightweight
// operational counters and gauges. No external metrics service is required.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// InitMetrics opens the embedded time-series store under workdir/data/metrics.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "data", "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(24*time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

// SetGauge records the current value of a gauge metric.
func SetGauge(name string, value int64) {
	insert(name, float64(value))
}

// IncrCounter records a counter increment. Counter totals are computed by
// summing data points over a time range.
func IncrCounter(name string, delta int64) {
	insert(name, float64(delta))
}

func insert(name string, value float64) {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return
	}
	_ = s.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
}

// SumRange returns the sum of all data points for a metric between start and end.
func SumRange(name string, start, end time.Time) int64 {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return 0
	}
	points, err := s.Select(name, nil, start.Unix(), end.Unix())
	if err != nil {
		return 0
	}
	var total float64
	for _, p := range points {
		total += p.Value
	}
	return int64(total)
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
