package summary

import (
	"encoding/json"
	"math"
	"testing"

	"cukedash/internal/cucumber"
)

// step builds a raw step with an optional duration.
func step(status string, nanos int64) cucumber.Step {
	s := cucumber.Step{Keyword: "Given ", Name: status + " step", Result: cucumber.Result{Status: status}}
	if nanos > 0 {
		s.Result.Duration = &nanos
	}
	return s
}

// failedStep builds a failed raw step carrying an error message.
func failedStep(message string) cucumber.Step {
	s := step(cucumber.StatusFailed, 0)
	s.Result.ErrorMessage = &message
	return s
}

// scenario builds a raw scenario element.
func scenario(name string, steps ...cucumber.Step) cucumber.Element {
	return cucumber.Element{Type: cucumber.ElementTypeScenario, Name: name, Steps: steps}
}

// TestScenarioStatusDerivation covers failed precedence, all-skipped, and mixed outcomes.
func TestScenarioStatusDerivation(t *testing.T) {
	cases := []struct {
		name     string
		statuses []string
		want     Status
	}{
		{name: "failure wins", statuses: []string{"passed", "failed", "skipped"}, want: StatusFailed},
		{name: "all skipped", statuses: []string{"skipped", "skipped"}, want: StatusSkipped},
		{name: "passed and skipped", statuses: []string{"passed", "skipped"}, want: StatusPassed},
		{name: "pending and undefined", statuses: []string{"pending", "undefined"}, want: StatusPassed},
		{name: "skipped and pending", statuses: []string{"skipped", "pending"}, want: StatusPassed},
		{name: "all passed", statuses: []string{"passed", "passed"}, want: StatusPassed},
		{name: "no steps", statuses: nil, want: StatusSkipped},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			steps := make([]cucumber.Step, 0, len(tc.statuses))
			for _, status := range tc.statuses {
				steps = append(steps, step(status, 0))
			}
			got := summarizeScenario(scenario(tc.name, steps...))
			if got.Status != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Status)
			}
		})
	}
}

// TestStepStatusIsVerbatim verifies step summaries keep all five raw statuses.
func TestStepStatusIsVerbatim(t *testing.T) {
	raw := []string{"passed", "failed", "skipped", "pending", "undefined"}
	steps := make([]cucumber.Step, 0, len(raw))
	for _, status := range raw {
		steps = append(steps, step(status, 0))
	}
	got := Summarize(cucumber.Report{{Name: "F", Elements: []cucumber.Element{scenario("S", steps...)}}})
	for i, status := range raw {
		if got.Features[0].Scenarios[0].Steps[i].Status != Status(status) {
			t.Fatalf("step %d: expected %s, got %s", i, status, got.Features[0].Scenarios[0].Steps[i].Status)
		}
	}
	if got.PassedSteps != 1 || got.FailedSteps != 1 || got.SkippedSteps != 3 || got.TotalSteps != 5 {
		t.Fatalf("unexpected step buckets %+v", got)
	}
}

// TestDurationConversion verifies nanoseconds become milliseconds and absent durations are zero.
func TestDurationConversion(t *testing.T) {
	got := summarizeScenario(scenario("S", step("passed", 2_500_000), step("passed", 0)))
	if got.Steps[0].Duration != 2.5 {
		t.Fatalf("expected 2.5ms, got %v", got.Steps[0].Duration)
	}
	if got.Steps[1].Duration != 0 {
		t.Fatalf("expected 0ms, got %v", got.Steps[1].Duration)
	}
	if got.Duration != 2.5 {
		t.Fatalf("expected scenario duration 2.5ms, got %v", got.Duration)
	}
}

// TestFirstFailureErrorMessage verifies the first failed step's message is surfaced.
func TestFirstFailureErrorMessage(t *testing.T) {
	got := summarizeScenario(scenario("S", step("passed", 0), failedStep("errA"), failedStep("errB")))
	if got.ErrorMessage == nil || *got.ErrorMessage != "errA" {
		t.Fatalf("expected errA, got %v", got.ErrorMessage)
	}

	noFailure := summarizeScenario(scenario("S", step("passed", 0)))
	if noFailure.ErrorMessage != nil {
		t.Fatalf("expected no error message, got %q", *noFailure.ErrorMessage)
	}

	silent := summarizeScenario(scenario("S", step("failed", 0), failedStep("later")))
	if silent.ErrorMessage != nil {
		t.Fatalf("expected first failure without message to win, got %q", *silent.ErrorMessage)
	}
}

// TestFeatureStatusCollapse verifies all-skipped features report passed.
func TestFeatureStatusCollapse(t *testing.T) {
	feature := summarizeFeature(cucumber.Feature{
		Name: "Skipped",
		Elements: []cucumber.Element{
			scenario("a", step("skipped", 0)),
			scenario("b", step("skipped", 0)),
		},
	})
	if feature.Status != StatusPassed {
		t.Fatalf("expected passed, got %s", feature.Status)
	}
	if feature.Skipped != 2 || feature.Passed != 0 || feature.Failed != 0 {
		t.Fatalf("unexpected counts %+v", feature)
	}
}

// TestNonScenarioElementsIgnored verifies backgrounds are excluded from counts and durations.
func TestNonScenarioElementsIgnored(t *testing.T) {
	background := cucumber.Element{Type: "background", Steps: []cucumber.Step{step("failed", 9_000_000)}}
	got := Summarize(cucumber.Report{{
		Name:     "F",
		Elements: []cucumber.Element{background, scenario("S", step("passed", 1_000_000))},
	}})
	if got.TotalScenarios != 1 || got.Features[0].TotalScenarios != 1 {
		t.Fatalf("expected 1 scenario, got %d", got.TotalScenarios)
	}
	if got.TotalSteps != 1 || got.FailedSteps != 0 {
		t.Fatalf("background steps must not be counted: %+v", got)
	}
	if got.TotalDuration != 1 {
		t.Fatalf("expected 1ms total, got %v", got.TotalDuration)
	}
	if got.Features[0].Status != StatusPassed {
		t.Fatalf("expected passed feature, got %s", got.Features[0].Status)
	}
}

// TestPassRate covers the empty report and fractional rates.
func TestPassRate(t *testing.T) {
	empty := Summarize(nil)
	if empty.PassRate != 0 || empty.TotalFeatures != 0 {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
	if empty.Features == nil {
		t.Fatalf("expected non-nil features slice")
	}

	got := Summarize(cucumber.Report{{
		Name: "F",
		Elements: []cucumber.Element{
			scenario("a", step("passed", 0)),
			scenario("b", step("passed", 0)),
			scenario("c", step("failed", 0)),
		},
	}})
	if math.Abs(got.PassRate-200.0/3.0) > 1e-9 {
		t.Fatalf("expected 66.666..., got %v", got.PassRate)
	}
}

// TestLoginReport checks the end-to-end login example.
func TestLoginReport(t *testing.T) {
	report := cucumber.Report{{
		Name: "Login",
		URI:  "features/login.feature",
		Elements: []cucumber.Element{
			scenario("Valid login", step("passed", 100_000_000), step("passed", 50_000_000)),
			scenario("Invalid login", step("passed", 10_000_000), failedStep("assertion failed")),
		},
	}}
	got := Summarize(report)
	if got.TotalScenarios != 2 || got.PassedScenarios != 1 || got.FailedScenarios != 1 {
		t.Fatalf("unexpected scenario counts %+v", got)
	}
	if got.PassRate != 50 {
		t.Fatalf("expected pass rate 50, got %v", got.PassRate)
	}
	feature := got.Features[0]
	if feature.Status != StatusFailed {
		t.Fatalf("expected failed feature, got %s", feature.Status)
	}
	if feature.Scenarios[0].Duration != 150 {
		t.Fatalf("expected 150ms, got %v", feature.Scenarios[0].Duration)
	}
	if msg := feature.Scenarios[1].ErrorMessage; msg == nil || *msg != "assertion failed" {
		t.Fatalf("unexpected error message %v", msg)
	}
	if feature.Duration != 160 || got.TotalDuration != 160 {
		t.Fatalf("unexpected durations feature=%v total=%v", feature.Duration, got.TotalDuration)
	}
}

// TestCountConservation verifies report totals equal the sum of feature totals.
func TestCountConservation(t *testing.T) {
	report := cucumber.Report{
		{Name: "A", Elements: []cucumber.Element{
			scenario("a1", step("passed", 0)),
			scenario("a2", step("skipped", 0)),
			scenario("a3"),
		}},
		{Name: "B", Elements: []cucumber.Element{
			scenario("b1", step("failed", 0)),
			scenario("b2", step("undefined", 0)),
		}},
		{Name: "C"},
	}
	got := Summarize(report)
	total, passed, failed, skipped := 0, 0, 0, 0
	for _, feature := range got.Features {
		if feature.TotalScenarios != feature.Passed+feature.Failed+feature.Skipped {
			t.Fatalf("feature %s counts do not partition", feature.Name)
		}
		total += feature.TotalScenarios
		passed += feature.Passed
		failed += feature.Failed
		skipped += feature.Skipped
	}
	if got.TotalScenarios != total || got.PassedScenarios != passed || got.FailedScenarios != failed || got.SkippedScenarios != skipped {
		t.Fatalf("report totals diverge from features: %+v", got)
	}
	if got.PassedScenarios+got.FailedScenarios+got.SkippedScenarios != got.TotalScenarios {
		t.Fatalf("report counts do not partition")
	}
	if got.TotalFeatures != 3 || got.SkippedScenarios != 2 {
		t.Fatalf("unexpected totals %+v", got)
	}
}

// TestOrderPreserved verifies features, scenarios, steps and tags keep input order.
func TestOrderPreserved(t *testing.T) {
	element := scenario("z", step("passed", 0), step("failed", 0))
	element.Tags = []cucumber.Tag{{Name: "@b"}, {Name: "@a"}}
	got := Summarize(cucumber.Report{
		{Name: "second", Elements: []cucumber.Element{element, scenario("a")}},
		{Name: "first"},
	})
	if got.Features[0].Name != "second" || got.Features[1].Name != "first" {
		t.Fatalf("features reordered")
	}
	scenarios := got.Features[0].Scenarios
	if scenarios[0].Name != "z" || scenarios[1].Name != "a" {
		t.Fatalf("scenarios reordered")
	}
	if scenarios[0].Tags[0] != "@b" || scenarios[0].Tags[1] != "@a" {
		t.Fatalf("tags reordered: %v", scenarios[0].Tags)
	}
	if scenarios[0].Steps[0].Status != StatusPassed || scenarios[0].Steps[1].Status != StatusFailed {
		t.Fatalf("steps reordered")
	}
}

// TestSummarizeIndependentRuns verifies separate inputs produce independent outputs.
func TestSummarizeIndependentRuns(t *testing.T) {
	report := cucumber.Report{{Name: "F", Elements: []cucumber.Element{scenario("S", failedStep("x"))}}}
	first := Summarize(report)
	second := Summarize(report)
	*first.Features[0].Scenarios[0].Steps[0].ErrorMessage = "changed"
	first.Features[0].Scenarios[0].Tags = append(first.Features[0].Scenarios[0].Tags, "@x")
	if len(second.Features[0].Scenarios[0].Tags) != 0 {
		t.Fatalf("outputs share tag storage")
	}
	if msg := second.Features[0].Scenarios[0].ErrorMessage; msg == nil || *msg != "x" {
		t.Fatalf("outputs share error message storage")
	}
	if second.Features[0].Name != "F" || second.FailedScenarios != 1 {
		t.Fatalf("unexpected second summary %+v", second)
	}
}

// TestSummaryJSONShape verifies the JSON field names consumed by the dashboard.
func TestSummaryJSONShape(t *testing.T) {
	got := Summarize(cucumber.Report{{Name: "F", URI: "f.feature", Elements: []cucumber.Element{scenario("S", failedStep("bad"))}}})
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"totalFeatures", "totalScenarios", "passedScenarios", "failedScenarios", "skippedScenarios", "totalSteps", "passedSteps", "failedSteps", "skippedSteps", "totalDuration", "passRate", "features"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing key %s", key)
		}
	}
	scenarioJSON := decoded["features"].([]any)[0].(map[string]any)["scenarios"].([]any)[0].(map[string]any)
	if scenarioJSON["errorMessage"] != "bad" {
		t.Fatalf("unexpected scenario json %v", scenarioJSON)
	}
}
