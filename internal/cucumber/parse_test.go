package cucumber

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const loginReport = `[
  {
    "id": "login",
    "name": "Login",
    "uri": "features/login.feature",
    "tags": [{"name": "@auth"}],
    "elements": [
      {"type": "background", "name": "", "steps": [{"keyword": "Given ", "name": "a user", "result": {"status": "passed", "duration": 1000000}}]},
      {
        "type": "scenario",
        "name": "Valid login",
        "tags": [{"name": "@smoke"}, {"name": "@fast"}],
        "steps": [
          {"keyword": "Given ", "name": "the login page", "result": {"status": "passed", "duration": 100000000}},
          {"keyword": "Then ", "name": "I am in", "result": {"status": "failed", "duration": 50000000, "error_message": "boom"}}
        ]
      }
    ]
  }
]`

// TestParseReportDecodesFeatures verifies the nested report structure is decoded in order.
func TestParseReportDecodesFeatures(t *testing.T) {
	report, err := ParseReport([]byte(loginReport))
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(report))
	}
	feature := report[0]
	if feature.Name != "Login" || feature.URI != "features/login.feature" {
		t.Fatalf("unexpected feature %q %q", feature.Name, feature.URI)
	}
	if len(feature.Tags) != 1 || feature.Tags[0].Name != "@auth" {
		t.Fatalf("unexpected feature tags %+v", feature.Tags)
	}
	if len(feature.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(feature.Elements))
	}
	if feature.Elements[0].IsScenario() {
		t.Fatalf("background must not be a scenario")
	}
	scenario := feature.Elements[1]
	if !scenario.IsScenario() {
		t.Fatalf("expected scenario element")
	}
	if got := scenario.Tags[1].Name; got != "@fast" {
		t.Fatalf("unexpected second tag %q", got)
	}
	step := scenario.Steps[1]
	if step.Result.Status != StatusFailed {
		t.Fatalf("unexpected status %q", step.Result.Status)
	}
	if step.Result.Duration == nil || *step.Result.Duration != 50000000 {
		t.Fatalf("unexpected duration %v", step.Result.Duration)
	}
	if step.Result.ErrorMessage == nil || *step.Result.ErrorMessage != "boom" {
		t.Fatalf("unexpected error message %v", step.Result.ErrorMessage)
	}
	if scenario.Steps[0].Result.ErrorMessage != nil {
		t.Fatalf("expected absent error message on passing step")
	}
}

// TestParseReportToleratesMissingCollections verifies absent and non-array collections decode as empty.
func TestParseReportToleratesMissingCollections(t *testing.T) {
	payload := `[
	  {"name": "No elements", "uri": "a.feature"},
	  {"name": "Null elements", "uri": "b.feature", "elements": null},
	  {"name": "Object elements", "uri": "c.feature", "elements": {"oops": true}, "tags": "smoke"},
	  {"name": "Bad steps", "uri": "d.feature", "elements": [
	    {"type": "scenario", "name": "no steps"},
	    {"type": "scenario", "name": "string steps", "steps": "nope"},
	    {"type": "scenario", "name": "no result", "steps": [{"keyword": "Given ", "name": "x"}]}
	  ]}
	]`
	report, err := ParseReport([]byte(payload))
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if len(report) != 4 {
		t.Fatalf("expected 4 features, got %d", len(report))
	}
	for i := 0; i < 3; i++ {
		if len(report[i].Elements) != 0 {
			t.Fatalf("feature %d: expected no elements, got %d", i, len(report[i].Elements))
		}
	}
	if len(report[2].Tags) != 0 {
		t.Fatalf("expected non-array tags to be empty")
	}
	elements := report[3].Elements
	if len(elements[0].Steps) != 0 || len(elements[1].Steps) != 0 {
		t.Fatalf("expected empty steps")
	}
	if got := elements[2].Steps[0].Result; got.Status != "" || got.Duration != nil {
		t.Fatalf("expected zero result, got %+v", got)
	}
}

// TestParseReportAcceptsFloatDurations verifies fractional and exponent durations decode.
func TestParseReportAcceptsFloatDurations(t *testing.T) {
	payload := `[{"uri": "a.feature", "elements": [{"type": "scenario", "steps": [
	  {"result": {"status": "passed", "duration": 2500000.0}},
	  {"result": {"status": "passed", "duration": 1.5e6}},
	  {"result": {"status": "passed", "duration": null}},
	  {"result": {"status": "passed", "duration": "slow"}}
	]}]}]`
	report, err := ParseReport([]byte(payload))
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}
	steps := report[0].Elements[0].Steps
	if steps[0].Result.Duration == nil || *steps[0].Result.Duration != 2_500_000 {
		t.Fatalf("expected 2500000ns, got %v", steps[0].Result.Duration)
	}
	if steps[1].Result.Duration == nil || *steps[1].Result.Duration != 1_500_000 {
		t.Fatalf("expected 1500000ns, got %v", steps[1].Result.Duration)
	}
	if steps[2].Result.Duration != nil || steps[3].Result.Duration != nil {
		t.Fatalf("expected null and non-numeric durations to be absent")
	}
	if steps[3].Result.Status != StatusPassed {
		t.Fatalf("expected status kept beside a bad duration, got %q", steps[3].Result.Status)
	}
}

// TestParseReportRejectsNonReports verifies invalid documents return ErrInvalidReport.
func TestParseReportRejectsNonReports(t *testing.T) {
	for _, payload := range []string{
		"",
		"not json",
		`{"name": "object"}`,
		`[{"name": 1}]`,
		`[1, 2]`,
	} {
		if _, err := ParseReport([]byte(payload)); !errors.Is(err, ErrInvalidReport) {
			t.Fatalf("payload %q: expected ErrInvalidReport, got %v", payload, err)
		}
	}
}

// TestParseReportStripsWarnings verifies warning prefixes are removed.
func TestParseReportStripsWarnings(t *testing.T) {
	payload := "\x1b[33mUse of godog CLI is deprecated\x1b[0m\n" +
		"\x1b[33mSee https://example.test\x1b[0m\n" +
		`[{"uri":"sample.feature","elements":[]}]`
	report, err := ParseReport([]byte(payload))
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(report))
	}
	if report[0].URI != "sample.feature" {
		t.Fatalf("unexpected uri %q", report[0].URI)
	}
}

// TestLoadReportWrapsPath verifies file errors mention the offending path.
func TestLoadReportWrapsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	_, err := LoadReport(path)
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}
	if _, err := LoadReport(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
