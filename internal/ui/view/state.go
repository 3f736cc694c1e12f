package view

import "cukedash/internal/summary"

// Level is the depth of the drill-down.
type Level int

const (
	LevelFeatures Level = iota
	LevelScenarios
	LevelSteps
)

// State tracks which part of the summary is on screen.
type State struct {
	Summary  summary.ReportSummary
	Level    Level
	Feature  int
	Scenario int
}

// Enter drills into the row at index. It is a no-op at the step level or
// for an index outside the current rows.
func (s State) Enter(index int) State {
	switch s.Level {
	case LevelFeatures:
		if index < 0 || index >= len(s.Summary.Features) {
			return s
		}
		s.Feature = index
		s.Level = LevelScenarios
	case LevelScenarios:
		if index < 0 || index >= len(s.currentFeature().Scenarios) {
			return s
		}
		s.Scenario = index
		s.Level = LevelSteps
	}
	return s
}

// Replace swaps in a new summary, keeping the position where it still
// exists and falling back to the nearest valid level otherwise.
func (s State) Replace(next summary.ReportSummary) State {
	s.Summary = next
	if s.Feature >= len(next.Features) {
		s.Level = LevelFeatures
		s.Feature = 0
		s.Scenario = 0
		return s
	}
	if s.Scenario >= len(next.Features[s.Feature].Scenarios) {
		if s.Level == LevelSteps {
			s.Level = LevelScenarios
		}
		s.Scenario = 0
	}
	return s
}

// Back returns to the parent level.
func (s State) Back() State {
	if s.Level > LevelFeatures {
		s.Level--
	}
	return s
}

// Cursor is the row to select after moving to the current level.
func (s State) Cursor() int {
	switch s.Level {
	case LevelScenarios:
		return s.Scenario
	case LevelSteps:
		return 0
	default:
		return s.Feature
	}
}

func (s State) currentFeature() summary.FeatureSummary {
	if s.Feature < 0 || s.Feature >= len(s.Summary.Features) {
		return summary.FeatureSummary{}
	}
	return s.Summary.Features[s.Feature]
}

func (s State) currentScenario() summary.ScenarioSummary {
	feature := s.currentFeature()
	if s.Scenario < 0 || s.Scenario >= len(feature.Scenarios) {
		return summary.ScenarioSummary{}
	}
	return feature.Scenarios[s.Scenario]
}

// Breadcrumb names the path to the current level.
func (s State) Breadcrumb() string {
	crumb := "Features"
	if s.Level >= LevelScenarios {
		crumb += " > " + s.currentFeature().Name
	}
	if s.Level >= LevelSteps {
		crumb += " > " + s.currentScenario().Name
	}
	return crumb
}
