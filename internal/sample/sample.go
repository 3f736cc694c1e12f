// Package sample bundles an example Cucumber report for demos and tests.
package sample

import (
	_ "embed"
	"fmt"

	"cukedash/internal/cucumber"
)

//go:embed report.json
var reportJSON []byte

// ReportJSON returns a copy of the raw example report.
func ReportJSON() []byte {
	out := make([]byte, len(reportJSON))
	copy(out, reportJSON)
	return out
}

// Report returns the parsed example report.
func Report() cucumber.Report {
	report, err := cucumber.ParseReport(reportJSON)
	if err != nil {
		panic(fmt.Sprintf("sample: embedded report is invalid: %v", err))
	}
	return report
}
