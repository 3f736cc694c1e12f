package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"cukedash/internal/summary"
)

// DriverName is the database/sql driver registered by duckdb-go.
const DriverName = "duckdb"

// WriteSummary stores s under a new report id in a single transaction.
func WriteSummary(ctx context.Context, db *sql.DB, s summary.ReportSummary, generatedAt time.Time) (string, error) {
	if ctx == nil {
		return "", errors.New("duckdb: context is nil")
	}
	if db == nil {
		return "", errors.New("duckdb: db is nil")
	}
	reportID := uuid.NewString()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reports (report_id, generated_at, total_features, total_scenarios, passed_scenarios,
		   failed_scenarios, skipped_scenarios, total_steps, passed_steps, failed_steps, skipped_steps,
		   duration_ms, pass_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reportID, generatedAt.UTC(), s.TotalFeatures, s.TotalScenarios, s.PassedScenarios,
		s.FailedScenarios, s.SkippedScenarios, s.TotalSteps, s.PassedSteps, s.FailedSteps, s.SkippedSteps,
		s.TotalDuration, s.PassRate,
	); err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}

	for fi, feature := range s.Features {
		if err := insertFeature(ctx, tx, reportID, fi, feature); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit export: %w", err)
	}
	return reportID, nil
}

// insertFeature writes a feature with its scenarios, tags and steps.
func insertFeature(ctx context.Context, tx *sql.Tx, reportID string, fi int, feature summary.FeatureSummary) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO features (report_id, feature_index, name, uri, status, total_scenarios, passed, failed, skipped, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reportID, fi, feature.Name, feature.URI, string(feature.Status), feature.TotalScenarios,
		feature.Passed, feature.Failed, feature.Skipped, feature.Duration,
	); err != nil {
		return fmt.Errorf("insert feature %q: %w", feature.Name, err)
	}
	for si, scenario := range feature.Scenarios {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scenarios (report_id, feature_index, scenario_index, name, status, duration_ms, error_message)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			reportID, fi, si, scenario.Name, string(scenario.Status), scenario.Duration, nullString(scenario.ErrorMessage),
		); err != nil {
			return fmt.Errorf("insert scenario %q: %w", scenario.Name, err)
		}
		for ti, tag := range scenario.Tags {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO scenario_tags (report_id, feature_index, scenario_index, tag_index, tag) VALUES (?, ?, ?, ?, ?)`,
				reportID, fi, si, ti, tag,
			); err != nil {
				return fmt.Errorf("insert tag %q: %w", tag, err)
			}
		}
		for sti, step := range scenario.Steps {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO steps (report_id, feature_index, scenario_index, step_index, keyword, name, status, duration_ms, error_message)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				reportID, fi, si, sti, step.Keyword, step.Name, string(step.Status), step.Duration, nullString(step.ErrorMessage),
			); err != nil {
				return fmt.Errorf("insert step %q: %w", step.Name, err)
			}
		}
	}
	return nil
}

// ExportFile creates or opens a DuckDB file at path, applies the schema and writes s.
func ExportFile(ctx context.Context, path string, s summary.ReportSummary, generatedAt time.Time) (string, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return "", fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()
	if err := EnsureSchema(ctx, db); err != nil {
		return "", fmt.Errorf("apply schema: %w", err)
	}
	return WriteSummary(ctx, db, s, generatedAt)
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
