package sample

import (
	"fmt"

	"github.com/google/uuid"

	"cukedash/internal/cucumber"
)

// SyntheticConfig sizes a generated report.
type SyntheticConfig struct {
	Name                string `json:"name"`
	Features            int    `json:"features"`
	ScenariosPerFeature int    `json:"scenarios_per_feature"`
	StepsPerScenario    int    `json:"steps_per_scenario"`
	// FailEvery fails the last step of every n-th scenario. Zero disables failures.
	FailEvery int `json:"fail_every"`
	// SkipEvery skips every step of every n-th scenario. Zero disables skips.
	SkipEvery int `json:"skip_every"`
}

// syntheticNamespace keeps generated ids stable across runs.
var syntheticNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Synthetic builds a deterministic report of the configured size. The same
// config always yields the same report.
func Synthetic(cfg SyntheticConfig) cucumber.Report {
	name := cfg.Name
	if name == "" {
		name = "synthetic"
	}
	report := make(cucumber.Report, 0, max(cfg.Features, 0))
	scenarioSeq := 0
	for fi := 0; fi < cfg.Features; fi++ {
		feature := cucumber.Feature{
			ID:      deterministicID(name+"-feature", fi),
			Keyword: "Feature",
			Name:    fmt.Sprintf("%s feature %d", name, fi+1),
			URI:     fmt.Sprintf("features/%s_%03d.feature", name, fi+1),
			Line:    1,
		}
		for si := 0; si < cfg.ScenariosPerFeature; si++ {
			scenarioSeq++
			feature.Elements = append(feature.Elements, syntheticScenario(cfg, name, fi, si, scenarioSeq))
		}
		report = append(report, feature)
	}
	return report
}

func syntheticScenario(cfg SyntheticConfig, name string, fi, si, seq int) cucumber.Element {
	failing := cfg.FailEvery > 0 && seq%cfg.FailEvery == 0
	skipped := !failing && cfg.SkipEvery > 0 && seq%cfg.SkipEvery == 0
	element := cucumber.Element{
		ID:      deterministicID(fmt.Sprintf("%s-scenario-%d", name, fi), si),
		Keyword: "Scenario",
		Type:    cucumber.ElementTypeScenario,
		Name:    fmt.Sprintf("scenario %d.%d", fi+1, si+1),
		Line:    3 + si*(cfg.StepsPerScenario+2),
		Tags:    []cucumber.Tag{{Name: fmt.Sprintf("@group%d", seq%3)}},
	}
	keywords := []string{"Given ", "When ", "Then "}
	for i := 0; i < cfg.StepsPerScenario; i++ {
		duration := int64((seq%7+1)*(i+1)) * 1_000_000
		result := cucumber.Result{Status: cucumber.StatusPassed, Duration: &duration}
		switch {
		case skipped:
			result = cucumber.Result{Status: cucumber.StatusSkipped}
		case failing && i == cfg.StepsPerScenario-1:
			msg := fmt.Sprintf("expected step %d to pass", i+1)
			result.Status = cucumber.StatusFailed
			result.ErrorMessage = &msg
		}
		element.Steps = append(element.Steps, cucumber.Step{
			Keyword: keywords[min(i, len(keywords)-1)],
			Name:    fmt.Sprintf("step %d", i+1),
			Line:    element.Line + 1 + i,
			Result:  result,
		})
	}
	return element
}

// deterministicID generates a repeatable id for generated records.
func deterministicID(prefix string, index int) string {
	return uuid.NewSHA1(syntheticNamespace, []byte(fmt.Sprintf("%s-%d", prefix, index))).String()
}
