//go:build cucumber

package summary

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/cucumber/godog"

	"cukedash/internal/cucumber"
)

// TestSummaryScenarios runs the report summary feature scenarios.
func TestSummaryScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "spec", "features", "report-summary.feature")
	suite := godog.TestSuite{
		Name:                "report-summary",
		ScenarioInitializer: InitializeSummaryScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeSummaryScenario wires steps for report summary scenarios.
func InitializeSummaryScenario(ctx *godog.ScenarioContext) {
	state := &summaryScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a feature "([^"]+)"$`, state.givenFeature)
	ctx.Step(`^a scenario "([^"]+)" with steps:$`, state.givenScenario)
	ctx.Step(`^I summarize the report$`, state.whenISummarize)
	ctx.Step(`^the report has (\d+) scenarios, (\d+) passed, (\d+) failed and (\d+) skipped$`, state.thenScenarioCounts)
	ctx.Step(`^the report has (\d+) steps, (\d+) passed, (\d+) failed and (\d+) skipped$`, state.thenStepCounts)
	ctx.Step(`^the pass rate is ([\d.]+)%$`, state.thenPassRate)
	ctx.Step(`^feature "([^"]+)" has status "([^"]+)"$`, state.thenFeatureStatus)
	ctx.Step(`^scenario "([^"]+)" has status "([^"]+)"$`, state.thenScenarioStatus)
	ctx.Step(`^scenario "([^"]+)" lasted ([\d.]+) ms$`, state.thenScenarioDuration)
	ctx.Step(`^scenario "([^"]+)" reports error "([^"]+)"$`, state.thenScenarioError)
	ctx.Step(`^the total duration is ([\d.]+) ms$`, state.thenTotalDuration)
}

// summaryScenarioState holds the report under construction and its summary.
type summaryScenarioState struct {
	report  cucumber.Report
	summary ReportSummary
}

// reset clears scenario state.
func (s *summaryScenarioState) reset() {
	s.report = nil
	s.summary = ReportSummary{}
}

func (s *summaryScenarioState) givenFeature(name string) error {
	s.report = append(s.report, cucumber.Feature{Name: name, URI: "features/" + name + ".feature"})
	return nil
}

func (s *summaryScenarioState) givenScenario(name string, table *godog.Table) error {
	if len(s.report) == 0 {
		return fmt.Errorf("no feature declared")
	}
	element := cucumber.Element{Type: cucumber.ElementTypeScenario, Name: name}
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		if len(row.Cells) != 3 {
			return fmt.Errorf("expected 3 cells, got %d", len(row.Cells))
		}
		step := cucumber.Step{Keyword: "Given ", Name: fmt.Sprintf("step %d", i)}
		step.Result.Status = row.Cells[0].Value
		nanos, err := strconv.ParseInt(row.Cells[1].Value, 10, 64)
		if err != nil {
			return fmt.Errorf("parse duration: %w", err)
		}
		if nanos > 0 {
			step.Result.Duration = &nanos
		}
		if msg := row.Cells[2].Value; msg != "" {
			step.Result.ErrorMessage = &msg
		}
		element.Steps = append(element.Steps, step)
	}
	last := &s.report[len(s.report)-1]
	last.Elements = append(last.Elements, element)
	return nil
}

func (s *summaryScenarioState) whenISummarize() error {
	s.summary = Summarize(s.report)
	return nil
}

func (s *summaryScenarioState) thenScenarioCounts(total, passed, failed, skipped int) error {
	got := s.summary
	if got.TotalScenarios != total || got.PassedScenarios != passed || got.FailedScenarios != failed || got.SkippedScenarios != skipped {
		return fmt.Errorf("unexpected scenario counts total=%d passed=%d failed=%d skipped=%d",
			got.TotalScenarios, got.PassedScenarios, got.FailedScenarios, got.SkippedScenarios)
	}
	return nil
}

func (s *summaryScenarioState) thenStepCounts(total, passed, failed, skipped int) error {
	got := s.summary
	if got.TotalSteps != total || got.PassedSteps != passed || got.FailedSteps != failed || got.SkippedSteps != skipped {
		return fmt.Errorf("unexpected step counts total=%d passed=%d failed=%d skipped=%d",
			got.TotalSteps, got.PassedSteps, got.FailedSteps, got.SkippedSteps)
	}
	return nil
}

func (s *summaryScenarioState) thenPassRate(expected string) error {
	if got := FormatPassRate(s.summary.PassRate); got != expected+"%" {
		return fmt.Errorf("expected pass rate %s%%, got %s", expected, got)
	}
	return nil
}

func (s *summaryScenarioState) thenFeatureStatus(name, status string) error {
	for _, feature := range s.summary.Features {
		if feature.Name == name {
			if string(feature.Status) != status {
				return fmt.Errorf("expected feature status %s, got %s", status, feature.Status)
			}
			return nil
		}
	}
	return fmt.Errorf("feature %q not found", name)
}

// findScenario looks up a scenario summary by name.
func (s *summaryScenarioState) findScenario(name string) (ScenarioSummary, error) {
	for _, feature := range s.summary.Features {
		for _, scenario := range feature.Scenarios {
			if scenario.Name == name {
				return scenario, nil
			}
		}
	}
	return ScenarioSummary{}, fmt.Errorf("scenario %q not found", name)
}

func (s *summaryScenarioState) thenScenarioStatus(name, status string) error {
	scenario, err := s.findScenario(name)
	if err != nil {
		return err
	}
	if string(scenario.Status) != status {
		return fmt.Errorf("expected scenario status %s, got %s", status, scenario.Status)
	}
	return nil
}

func (s *summaryScenarioState) thenScenarioDuration(name string, ms float64) error {
	scenario, err := s.findScenario(name)
	if err != nil {
		return err
	}
	if math.Abs(scenario.Duration-ms) > 1e-9 {
		return fmt.Errorf("expected %vms, got %vms", ms, scenario.Duration)
	}
	return nil
}

func (s *summaryScenarioState) thenScenarioError(name, message string) error {
	scenario, err := s.findScenario(name)
	if err != nil {
		return err
	}
	if scenario.ErrorMessage == nil || *scenario.ErrorMessage != message {
		return fmt.Errorf("expected error %q, got %v", message, scenario.ErrorMessage)
	}
	return nil
}

func (s *summaryScenarioState) thenTotalDuration(ms float64) error {
	if math.Abs(s.summary.TotalDuration-ms) > 1e-9 {
		return fmt.Errorf("expected %vms, got %vms", ms, s.summary.TotalDuration)
	}
	return nil
}
