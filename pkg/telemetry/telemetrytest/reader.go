// Package telemetrytest installs an in-memory meter provider for tests.
package telemetrytest

import (
	"context"
	"testing"

	"github.com/DrSkyle/lineblame/pkg/telemetry"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Metrics reads counters recorded after Install.
type Metrics struct {
	t      *testing.T
	reader *sdkmetric.ManualReader
}

// Install initializes telemetry with a manual reader and shuts it down when
// the test ends. Instruments must be created after Install to report here.
func Install(t *testing.T) *Metrics {
	t.Helper()
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	reader := sdkmetric.NewManualReader()
	shutdown, err := telemetry.Init(context.Background(), "lineblame-test", "dev", "", telemetry.WithMetricReader(reader))
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	return &Metrics{t: t, reader: reader}
}

// Sum returns the total of the int64 counter name across data points whose
// attributes include every given attribute.
func (m *Metrics) Sum(name string, attrs ...attribute.KeyValue) int64 {
	m.t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(m.t, m.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != name {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				if matches(dp.Attributes, attrs) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func matches(set attribute.Set, attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		v, ok := set.Value(kv.Key)
		if !ok || v != kv.Value {
			return false
		}
	}
	return true
}
