package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"cukedash/internal/reportserver"
	"cukedash/internal/sample"
	"cukedash/internal/telemetry"
	"cukedash/internal/testutil"
)

// BenchmarkHTTPSummary_Small measures POST /api/summary latency for a small report.
func BenchmarkHTTPSummary_Small(b *testing.B) {
	benchmarkHTTPSummary(b, sample.SyntheticConfig{
		Features: 5, ScenariosPerFeature: 5, StepsPerScenario: 4, FailEvery: 7,
	})
}

// BenchmarkHTTPSummary_Large measures POST /api/summary latency for a large report.
func BenchmarkHTTPSummary_Large(b *testing.B) {
	benchmarkHTTPSummary(b, sample.SyntheticConfig{
		Features: 50, ScenariosPerFeature: 40, StepsPerScenario: 6, FailEvery: 17, SkipEvery: 23,
	})
}

func benchmarkHTTPSummary(b *testing.B, cfg sample.SyntheticConfig) {
	server := startHTTPBenchServer(b)
	payload, err := json.Marshal(sample.Synthetic(cfg))
	if err != nil {
		b.Fatalf("marshal report: %v", err)
	}
	want := cfg.Features * cfg.ScenariosPerFeature
	if got := testutil.HTTPPostSummary(b, server.BaseURL, payload); got.TotalScenarios != want {
		b.Fatalf("expected %d scenarios, got %d", want, got.TotalScenarios)
	}

	b.SetBytes(int64(len(payload)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.BaseURL+"/api/summary", bytes.NewReader(payload))
		if err != nil {
			cancel()
			b.Fatalf("build request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		cancel()
		if err != nil {
			b.Fatalf("summary error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b.Fatalf("unexpected status %d", resp.StatusCode)
		}
	}
}

// startHTTPBenchServer starts an in-memory dashboard server for benchmarks.
func startHTTPBenchServer(b *testing.B) *testutil.ServerInstance {
	b.Helper()
	handler, err := reportserver.NewHandler(reportserver.Config{
		MaxUploadBytes: 64 << 20,
		Metrics:        telemetry.NewMetrics(),
	})
	if err != nil {
		b.Fatalf("new handler: %v", err)
	}
	return testutil.StartServer(b, handler)
}
