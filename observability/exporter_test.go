package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// collector counts OTLP metric export requests.
func collector(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var exports atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/v1/metrics" {
			exports.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, &exports
}

func TestInitMeterExportsOnShutdown(t *testing.T) {
	tests := []struct {
		name     string
		endpoint func(url string) string
		insecure bool
	}{
		{"host and port", func(url string) string { return strings.TrimPrefix(url, "http://") }, true},
		{"url", func(url string) string { return url + "/v1/metrics" }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, exports := collector(t)
			ctx := context.Background()

			mp, err := InitMeter(ctx, MeterConfig{
				ServiceName: "loghub-test",
				Endpoint:    tc.endpoint(srv.URL),
				Insecure:    tc.insecure,
				Interval:    time.Hour,
			})
			if err != nil {
				t.Fatalf("InitMeter failed: %v", err)
			}

			m, err := NewMetrics(Meter(mp))
			if err != nil {
				t.Fatalf("NewMetrics failed: %v", err)
			}
			m.RecordEmitted(ctx, "INFO")

			if err := mp.Shutdown(ctx); err != nil {
				t.Fatalf("Shutdown failed: %v", err)
			}
			if exports.Load() == 0 {
				t.Error("expected metrics to be exported on shutdown")
			}
		})
	}
}

func TestInitMeterRequiresEndpoint(t *testing.T) {
	if _, err := InitMeter(context.Background(), MeterConfig{ServiceName: "x"}); err == nil {
		t.Error("expected an error for an empty endpoint")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("svc")
	if cfg.ServiceName != "svc" || cfg.Endpoint == "" || cfg.Interval <= 0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
