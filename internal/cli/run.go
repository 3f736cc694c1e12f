package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"cukedash/internal/cucumber"
	"cukedash/internal/summary"
	"cukedash/internal/ui/view"
)

// runGodog is a test seam for executing feature files.
var runGodog = cucumber.RunGodog

// runRun builds the handler for the run command.
func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		tags := flags.String("tags", "", "Comma-separated tags to run (prefix with ~ to exclude)")
		dir := flags.String("dir", "", "Directory to run godog in (default: current directory)")
		outPath := flags.String("out", "", "Also write the raw Cucumber JSON report to this path")
		asJSON := flags.Bool("json", false, "Print the summary as JSON")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		report, err := runGodog(ctx, *dir, flags.Args(), splitTags(*tags))
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}
		if *outPath != "" {
			if err := writeReport(*outPath, report); err != nil {
				fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
				return ExitError
			}
		}

		s := summary.Summarize(report)
		if *asJSON {
			if code := writeSummaryJSON(s, stdout, stderr); code != ExitOK {
				return code
			}
		} else {
			fmt.Fprint(stdout, view.RenderReport(s, !isTerminal(stdout)))
		}
		if s.FailedScenarios > 0 {
			return ExitError
		}
		return ExitOK
	}
}

// splitTags parses a comma-separated tag list.
func splitTags(value string) []string {
	var tags []string
	for _, tag := range strings.Split(value, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func writeReport(path string, report cucumber.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
