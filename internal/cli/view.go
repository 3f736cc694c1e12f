package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"cukedash/internal/cucumber"
	"cukedash/internal/summary"
	"cukedash/internal/ui/view"
)

// viewerFeed pushes messages into a running viewer until ctx is done.
type viewerFeed func(ctx context.Context, send func(tea.Msg))

// runViewer is a test seam for running the interactive viewer.
var runViewer = func(model tea.Model, stdout io.Writer, feed viewerFeed) error {
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	if feed != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go feed(ctx, program.Send)
	}
	_, err := program.Run()
	return err
}

// watchFeed reloads path on change and sends the new summary to the viewer.
func watchFeed(path string) viewerFeed {
	return func(ctx context.Context, send func(tea.Msg)) {
		err := cucumber.WatchReport(ctx, path, func(report cucumber.Report, err error) {
			if err != nil {
				send(view.ReportMsg{Err: err})
				return
			}
			send(view.ReportMsg{Summary: summary.Summarize(report)})
		})
		if err != nil {
			send(view.ReportMsg{Err: err})
		}
	}
}

// runView builds the handler for the view command.
func runView(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		uiMode := flags.String("ui", "auto", "Viewer mode: auto|live|plain")
		example := flags.Bool("example", false, "Use the bundled example report")
		noColor := flags.Bool("no-color", false, "Disable colored output")
		watch := flags.Bool("watch", false, "Reload the report when the file changes")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if *watch && (*example || flags.NArg() != 1 || flags.Arg(0) == "-") {
			fmt.Fprintln(stderr, "--watch needs a report file path")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		decision, err := resolveUIMode(*uiMode, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}

		report, code, ok := loadReportArg(cmd, flags.Args(), *example, stderr)
		if !ok {
			return code
		}
		s := summary.Summarize(report)
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}
		if !decision.useLive {
			if *watch {
				fmt.Fprintln(stderr, "--watch is ignored without the interactive viewer")
			}
			fmt.Fprint(stdout, view.RenderReport(s, true))
			return ExitOK
		}
		var feed viewerFeed
		if *watch {
			feed = watchFeed(flags.Arg(0))
		}
		if err := runViewer(view.NewModel(s, view.Options{NoColor: *noColor}), stdout, feed); err != nil {
			fmt.Fprintf(stderr, "Viewer error: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
