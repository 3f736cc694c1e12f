package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"cukedash/internal/duckdb"
	"cukedash/internal/sample"
	"cukedash/internal/summary"
)

func main() {
	configPath := flag.String("config", "", "path to fixture config JSON")
	outPath := flag.String("out", "", "output Cucumber JSON path")
	duckdbPath := flag.String("duckdb", "", "optional DuckDB file to export the summary into")
	flag.Parse()
	if *configPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: generate_fixture --config <path> --out <report.json> [--duckdb <file>]")
		os.Exit(2)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	report := sample.Synthetic(cfg)
	if err := writeReport(*outPath, report); err != nil {
		fmt.Fprintf(os.Stderr, "write report: %v\n", err)
		os.Exit(1)
	}
	if *duckdbPath == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := exportFixture(ctx, *duckdbPath, summary.Summarize(report)); err != nil {
		fmt.Fprintf(os.Stderr, "export fixture: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (sample.SyntheticConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sample.SyntheticConfig{}, err
	}
	var cfg sample.SyntheticConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return sample.SyntheticConfig{}, err
	}
	return cfg, nil
}

func writeReport(path string, report any) error {
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func exportFixture(ctx context.Context, path string, s summary.ReportSummary) error {
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	if err := removeIfExists(path); err != nil {
		return err
	}
	_, err := duckdb.ExportFile(ctx, path, s, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return err
}
