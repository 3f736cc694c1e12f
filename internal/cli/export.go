package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cukedash/internal/duckdb"
	"cukedash/internal/export"
	"cukedash/internal/summary"
)

// now is a test seam for export timestamps.
var now = time.Now

// runExport builds the handler for the export command.
func runExport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		format := flags.String("format", "pdf", "Output format: pdf|image|duckdb|json")
		outPath := flags.String("out", "", "Output file path")
		example := flags.Bool("example", false, "Use the bundled example report")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		normalized := strings.ToLower(strings.TrimSpace(*format))
		switch normalized {
		case "pdf", "image", "duckdb", "json":
		default:
			fmt.Fprintf(stderr, "invalid format %q (expected pdf|image|duckdb|json)\n", *format)
			return ExitUsage
		}
		if strings.TrimSpace(*outPath) == "" {
			fmt.Fprintln(stderr, "Missing --out")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		report, code, ok := loadReportArg(cmd, flags.Args(), *example, stderr)
		if !ok {
			return code
		}
		s := summary.Summarize(report)
		if err := writeExport(context.Background(), normalized, *outPath, s); err != nil {
			fmt.Fprintf(stderr, "Export failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Wrote %s\n", *outPath)
		return ExitOK
	}
}

// writeExport writes s to path in the given format.
func writeExport(ctx context.Context, format, path string, s summary.ReportSummary) error {
	switch format {
	case "duckdb":
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove existing export: %w", err)
		}
		_, err := duckdb.ExportFile(ctx, path, s, now())
		return err
	case "json":
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s); err != nil {
			file.Close()
			return fmt.Errorf("encode summary: %w", err)
		}
		return file.Close()
	default:
		write := export.WritePDF
		if format == "image" {
			write = export.WriteJPEG
		}
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := write(file, s, now()); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	}
}
