package cli

import (
	"fmt"
	"io"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Command is one cukedash subcommand.
type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

// Run dispatches args to a command and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cukedash <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"cukedash <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("summarize", "Print the summary of a Cucumber JSON report", []string{
		"cukedash summarize [--json] [--example] <report.json|->",
	}, runSummarize),
	command("view", "Browse a report in the terminal", []string{
		"cukedash view [--ui auto|live|plain] [--watch] [--example] <report.json|->",
	}, runView),
	command("export", "Export a report summary as PDF, JPEG, DuckDB, or JSON", []string{
		"cukedash export --format pdf|image|duckdb|json --out <path> [--example] <report.json|->",
	}, runExport),
	command("send", "Email a PDF or JPEG report", []string{
		"cukedash send --to <address> [--format pdf|image] [--subject <text>] [--config <path>] [--example] <report.json|->",
	}, runSend),
	command("serve", "Serve the report dashboard", []string{
		"cukedash serve [--config <path>] [--addr <host:port>] [--duckdb <path>] [--assets-base-url <url>]",
	}, runServe),
	command("run", "Run godog features and summarize the results", []string{
		"cukedash run [--tags <tag,...>] [--dir <path>] [--out <report.json>] [--json] [feature paths...]",
	}, runRun),
	command("validate", "Validate .cukedash.yml", []string{
		"cukedash validate [--config <path>]",
	}, runValidate),
}
