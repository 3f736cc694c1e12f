package cli

import (
	"fmt"
	"io"
	"strings"

	"cukedash/internal/cucumber"
	"cukedash/internal/sample"
)

// loadReportArg loads the report named by the single positional argument,
// or the bundled example. ok is false when the caller should return code.
func loadReportArg(cmd *Command, positional []string, example bool, stderr io.Writer) (report cucumber.Report, code int, ok bool) {
	switch {
	case example && len(positional) > 0:
		fmt.Fprintln(stderr, "--example does not take a report path")
		printCommandUsage(cmd, stderr)
		return nil, ExitUsage, false
	case example:
		return sample.Report(), ExitOK, true
	case len(positional) == 0:
		fmt.Fprintln(stderr, "Missing <report.json>")
		printCommandUsage(cmd, stderr)
		return nil, ExitUsage, false
	case len(positional) > 1:
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(positional[1:], " "))
		printCommandUsage(cmd, stderr)
		return nil, ExitUsage, false
	}
	report, err := cucumber.LoadReport(positional[0])
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load report: %v\n", err)
		return nil, ExitError, false
	}
	return report, ExitOK, true
}
