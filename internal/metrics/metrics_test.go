package metrics

import (
	"testing"
)

func TestScanMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"ScanRunsTotal", ScanRunsTotal},
		{"ScanDuration", ScanDuration},
		{"ScanLastRunTimestamp", ScanLastRunTimestamp},
		{"ScanWarningsTotal", ScanWarningsTotal},
		{"MediaFilesTotal", MediaFilesTotal},
		{"FoldersTotal", FoldersTotal},
		{"OutputBytes", OutputBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestHTTPMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"AppInfo", AppInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestHTTPMetricTypes(t *testing.T) {
	t.Run("HTTPRequestsTotal is CounterVec", func(_ *testing.T) {
		HTTPRequestsTotal.WithLabelValues("GET", "/test", "200").Add(0)
	})
	t.Run("HTTPRequestDuration is HistogramVec", func(_ *testing.T) {
		HTTPRequestDuration.WithLabelValues("GET", "/test").Observe(0)
	})
}

func TestRecordScan(t *testing.T) {
	// Must not panic; values are cumulative so exact asserts would be
	// order-dependent across tests.
	RecordScan(0.1, 3, 10, 2, 1)
	RecordScan(0, 0, 0, 0, 0)
}
