package cucumber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// godogCommand is the executable used by RunGodog.
var godogCommand = "godog"

// RunGodog executes godog with the cucumber formatter and parses its report.
// A failing suite still yields a report; only an empty stdout is an error.
func RunGodog(ctx context.Context, dir string, featurePaths []string, tags []string) (Report, error) {
	if len(featurePaths) == 0 {
		return nil, fmt.Errorf("no feature paths provided")
	}
	args := []string{"--format", "cucumber"}
	if tagExpr := tagExpression(tags); tagExpr != "" {
		args = append(args, "--tags", tagExpr)
	}
	args = append(args, featurePaths...)

	cmd := exec.CommandContext(ctx, godogCommand, args...)
	cmd.Dir = dir
	cmd.Env = withoutEnv(os.Environ(), "GOTOOLDIR")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := stdout.Bytes()
	if len(output) == 0 && err != nil {
		return nil, fmt.Errorf("godog failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	report, parseErr := ParseReport(output)
	if parseErr != nil {
		return nil, fmt.Errorf("parse godog output: %w (%s)", parseErr, strings.TrimSpace(stderr.String()))
	}
	return report, nil
}
