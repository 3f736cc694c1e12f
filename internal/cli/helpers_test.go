package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cukedash/internal/sample"
)

// writeReportFile writes the bundled example report to a temp file.
func writeReportFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cucumber.json")
	if err := os.WriteFile(path, sample.ReportJSON(), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return path
}

// writeConfigFile writes a config file with the given contents.
func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".cukedash.yml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// stubTerminal forces the TTY decision for the test.
func stubTerminal(t *testing.T, tty bool) {
	t.Helper()
	original := isTerminal
	isTerminal = func(_ io.Writer) bool { return tty }
	t.Cleanup(func() { isTerminal = original })
}

// stubNow fixes export timestamps for the test.
func stubNow(t *testing.T) {
	t.Helper()
	original := now
	now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = original })
}

// clearSMTPEnv hides any SMTP credentials of the host environment.
func clearSMTPEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GMAIL_USER", "GMAIL_APP_PASSWORD", "CUKEDASH_SMTP_USER", "CUKEDASH_SMTP_PASSWORD"} {
		t.Setenv(key, "")
	}
}
