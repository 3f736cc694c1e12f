package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"cukedash/internal/summary"
)

// HTTPPostSummary sends a raw Cucumber report to POST /api/summary.
func HTTPPostSummary(t testing.TB, baseURL string, report []byte) summary.ReportSummary {
	t.Helper()
	body := doRequest(t, http.MethodPost, baseURL+"/api/summary", report)
	return decodeSummary(t, body)
}

// HTTPGetExample fetches GET /api/example.
func HTTPGetExample(t testing.TB, baseURL string) summary.ReportSummary {
	t.Helper()
	body := doRequest(t, http.MethodGet, baseURL+"/api/example", nil)
	return decodeSummary(t, body)
}

func decodeSummary(t testing.TB, body []byte) summary.ReportSummary {
	t.Helper()
	var s summary.ReportSummary
	if err := json.Unmarshal(body, &s); err != nil {
		t.Fatalf("decode summary response: %v", err)
	}
	return s
}

func doRequest(t testing.TB, method, url string, payload []byte) []byte {
	t.Helper()
	ctx := Context(t, 5*time.Second)
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http request: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.Fatalf("unexpected status %d for %s %s: %s", resp.StatusCode, method, url, string(body))
	}
	return body
}
