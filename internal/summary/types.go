package summary

// Status is a derived outcome. Steps carry the raw runner status; scenarios
// collapse to passed, failed, or skipped; features to passed or failed.
type Status string

const (
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusPending   Status = "pending"
	StatusUndefined Status = "undefined"
)

// ReportSummary is the rollup of a whole report. Durations are milliseconds.
type ReportSummary struct {
	TotalFeatures    int              `json:"totalFeatures"`
	TotalScenarios   int              `json:"totalScenarios"`
	PassedScenarios  int              `json:"passedScenarios"`
	FailedScenarios  int              `json:"failedScenarios"`
	SkippedScenarios int              `json:"skippedScenarios"`
	TotalSteps       int              `json:"totalSteps"`
	PassedSteps      int              `json:"passedSteps"`
	FailedSteps      int              `json:"failedSteps"`
	SkippedSteps     int              `json:"skippedSteps"`
	TotalDuration    float64          `json:"totalDuration"`
	PassRate         float64          `json:"passRate"`
	Features         []FeatureSummary `json:"features"`
}

// FeatureSummary aggregates the scenarios of one feature.
type FeatureSummary struct {
	Name           string            `json:"name"`
	URI            string            `json:"uri"`
	TotalScenarios int               `json:"totalScenarios"`
	Passed         int               `json:"passed"`
	Failed         int               `json:"failed"`
	Skipped        int               `json:"skipped"`
	Status         Status            `json:"status"`
	Duration       float64           `json:"duration"`
	Scenarios      []ScenarioSummary `json:"scenarios"`
}

// ScenarioSummary describes one scenario and its steps.
type ScenarioSummary struct {
	Name         string        `json:"name"`
	Status       Status        `json:"status"`
	Duration     float64       `json:"duration"`
	Tags         []string      `json:"tags"`
	Steps        []StepSummary `json:"steps"`
	ErrorMessage *string       `json:"errorMessage,omitempty"`
}

// StepSummary describes one step.
type StepSummary struct {
	Keyword      string  `json:"keyword"`
	Name         string  `json:"name"`
	Status       Status  `json:"status"`
	Duration     float64 `json:"duration"`
	ErrorMessage *string `json:"errorMessage,omitempty"`
}

// FailedFeatures returns the features with at least one failed scenario, in report order.
func (s ReportSummary) FailedFeatures() []FeatureSummary {
	out := make([]FeatureSummary, 0)
	for _, feature := range s.Features {
		if feature.Failed > 0 {
			out = append(out, feature)
		}
	}
	return out
}

// FailedScenarios returns the failed scenarios of a feature, in order.
func (f FeatureSummary) FailedScenarios() []ScenarioSummary {
	out := make([]ScenarioSummary, 0)
	for _, scenario := range f.Scenarios {
		if scenario.Status == StatusFailed {
			out = append(out, scenario)
		}
	}
	return out
}
