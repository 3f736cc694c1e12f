package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"cukedash/internal/summary"
	"cukedash/internal/ui/view"
)

// runSummarize builds the handler for the summarize command.
func runSummarize(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		asJSON := flags.Bool("json", false, "Print the summary as JSON")
		example := flags.Bool("example", false, "Use the bundled example report")
		noColor := flags.Bool("no-color", false, "Disable colored output")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}

		report, code, ok := loadReportArg(cmd, flags.Args(), *example, stderr)
		if !ok {
			return code
		}
		s := summary.Summarize(report)
		if *asJSON {
			return writeSummaryJSON(s, stdout, stderr)
		}
		fmt.Fprint(stdout, view.RenderReport(s, *noColor || !isTerminal(stdout)))
		return ExitOK
	}
}

func writeSummaryJSON(s summary.ReportSummary, stdout, stderr io.Writer) int {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s); err != nil {
		fmt.Fprintf(stderr, "Failed to encode summary: %v\n", err)
		return ExitError
	}
	return ExitOK
}
