package cucumber

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type watchResult struct {
	report Report
	err    error
}

// startWatch runs WatchReport until the test ends and forwards its callbacks.
func startWatch(t *testing.T, path string) <-chan watchResult {
	t.Helper()
	original := watchSettle
	watchSettle = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan watchResult, 16)
	done := make(chan error, 1)
	go func() {
		done <- WatchReport(ctx, path, func(report Report, err error) {
			results <- watchResult{report: report, err: err}
		})
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watch returned error: %v", err)
		}
		watchSettle = original
	})
	return results
}

// rewriteUntilSeen rewrites the file until the watcher reports a change.
func rewriteUntilSeen(t *testing.T, path string, data []byte, results <-chan watchResult) watchResult {
	t.Helper()
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write report: %v", err)
		}
		select {
		case got := <-results:
			return got
		case <-deadline:
			t.Fatalf("watcher did not report a change")
		case <-tick.C:
		}
	}
}

// TestWatchReportReloadsOnWrite verifies a rewritten report is parsed and delivered.
func TestWatchReportReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	results := startWatch(t, path)

	got := rewriteUntilSeen(t, path, []byte(loginReport), results)
	if got.err != nil {
		t.Fatalf("unexpected reload error: %v", got.err)
	}
	if len(got.report) != 1 || got.report[0].Name != "Login" {
		t.Fatalf("unexpected reloaded report %+v", got.report)
	}
}

// TestWatchReportDeliversParseErrors verifies invalid content is reported, not fatal.
func TestWatchReportDeliversParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	results := startWatch(t, path)

	got := rewriteUntilSeen(t, path, []byte(`{"oops": true}`), results)
	if got.err == nil {
		t.Fatalf("expected a parse error")
	}
}

// TestWatchReportMissingDirectory verifies a bad path fails immediately.
func TestWatchReportMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.json")
	err := WatchReport(context.Background(), path, func(Report, error) {})
	if err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}
