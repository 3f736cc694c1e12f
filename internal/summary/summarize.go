package summary

import "cukedash/internal/cucumber"

const nanosPerMilli = 1_000_000

// Summarize builds a ReportSummary from a raw report. It never fails: absent
// collections count as empty and absent optional fields stay absent.
func Summarize(report cucumber.Report) ReportSummary {
	features := make([]FeatureSummary, 0, len(report))
	for _, feature := range report {
		features = append(features, summarizeFeature(feature))
	}
	return rollup(features)
}

// summarizeFeature builds a feature summary from its scenario elements.
func summarizeFeature(feature cucumber.Feature) FeatureSummary {
	out := FeatureSummary{
		Name:      feature.Name,
		URI:       feature.URI,
		Scenarios: make([]ScenarioSummary, 0, len(feature.Elements)),
	}
	for _, element := range feature.Elements {
		if !element.IsScenario() {
			continue
		}
		scenario := summarizeScenario(element)
		switch scenario.Status {
		case StatusFailed:
			out.Failed++
		case StatusSkipped:
			out.Skipped++
		default:
			out.Passed++
		}
		out.Duration += scenario.Duration
		out.Scenarios = append(out.Scenarios, scenario)
	}
	out.TotalScenarios = len(out.Scenarios)
	out.Status = StatusPassed
	if out.Failed > 0 {
		out.Status = StatusFailed
	}
	return out
}

// summarizeScenario converts steps and derives the scenario outcome.
func summarizeScenario(element cucumber.Element) ScenarioSummary {
	out := ScenarioSummary{
		Name:  element.Name,
		Tags:  make([]string, 0, len(element.Tags)),
		Steps: make([]StepSummary, 0, len(element.Steps)),
	}
	for _, tag := range element.Tags {
		out.Tags = append(out.Tags, tag.Name)
	}
	foundFailure := false
	for _, step := range element.Steps {
		converted := summarizeStep(step)
		out.Duration += converted.Duration
		// Only the first failed step reports, even when it carries no message.
		if !foundFailure && converted.Status == StatusFailed {
			foundFailure = true
			out.ErrorMessage = converted.ErrorMessage
		}
		out.Steps = append(out.Steps, converted)
	}
	out.Status = scenarioStatus(out.Steps)
	return out
}

// summarizeStep copies the raw status and converts the duration to milliseconds.
func summarizeStep(step cucumber.Step) StepSummary {
	return StepSummary{
		Keyword:      step.Keyword,
		Name:         step.Name,
		Status:       Status(step.Result.Status),
		Duration:     durationMillis(step.Result.Duration),
		ErrorMessage: cloneString(step.Result.ErrorMessage),
	}
}

// scenarioStatus is failed when any step failed, skipped when every step was
// skipped (including the zero-step case), and passed otherwise.
func scenarioStatus(steps []StepSummary) Status {
	allSkipped := true
	for _, step := range steps {
		if step.Status == StatusFailed {
			return StatusFailed
		}
		if step.Status != StatusSkipped {
			allSkipped = false
		}
	}
	if allSkipped {
		return StatusSkipped
	}
	return StatusPassed
}

// cloneString copies an optional string so summaries never alias the raw report.
func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}

// durationMillis converts an optional nanosecond duration; absent is zero.
func durationMillis(nanos *int64) float64 {
	if nanos == nil {
		return 0
	}
	return float64(*nanos) / nanosPerMilli
}

// rollup derives report totals from finished feature summaries.
func rollup(features []FeatureSummary) ReportSummary {
	out := ReportSummary{
		TotalFeatures: len(features),
		Features:      features,
	}
	for _, feature := range features {
		out.TotalScenarios += feature.TotalScenarios
		out.PassedScenarios += feature.Passed
		out.FailedScenarios += feature.Failed
		out.SkippedScenarios += feature.Skipped
		for _, scenario := range feature.Scenarios {
			for _, step := range scenario.Steps {
				out.TotalSteps++
				out.TotalDuration += step.Duration
				switch step.Status {
				case StatusPassed:
					out.PassedSteps++
				case StatusFailed:
					out.FailedSteps++
				default:
					out.SkippedSteps++
				}
			}
		}
	}
	out.PassRate = PassRate(out.PassedScenarios, out.TotalScenarios)
	return out
}

// PassRate returns passed as a percentage of total, or 0 when total is 0.
func PassRate(passed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(passed) / float64(total) * 100
}
