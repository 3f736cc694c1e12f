//go:build cucumber

package cucumber

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// theOutputListsCommands asserts the output contains expected command names.
func (s *featureState) theOutputListsCommands(table *godog.Table) error {
	output := s.stdout.String()
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			command := strings.TrimSpace(cell.Value)
			if command == "" {
				continue
			}
			if !strings.Contains(output, command) {
				return fmt.Errorf("expected command %q in output", command)
			}
		}
	}
	return nil
}

func (s *featureState) theExitCodeIs(code int) error {
	if s.exitCode != code {
		return fmt.Errorf("expected exit code %d, got %d (stderr: %s)", code, s.exitCode, s.stderr.String())
	}
	return nil
}

// theExitCodeIsNonZero asserts that the CLI returned an error code.
func (s *featureState) theExitCodeIsNonZero() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected non-zero exit code")
	}
	return nil
}

func (s *featureState) stdoutContains(quoted string) error {
	return contains("stdout", s.stdout.String(), quoted)
}

func (s *featureState) stderrContains(quoted string) error {
	return contains("stderr", s.stderr.String(), quoted)
}

func contains(stream, output, quoted string) error {
	want, err := strconv.Unquote(`"` + quoted + `"`)
	if err != nil {
		return fmt.Errorf("unquote expectation: %w", err)
	}
	if !strings.Contains(output, want) {
		return fmt.Errorf("expected %s to contain %q, got %q", stream, want, output)
	}
	return nil
}

func (s *featureState) theFileExists(name string) error {
	info, err := os.Stat(filepath.Join(s.workDir, name))
	if err != nil {
		return fmt.Errorf("expected %s to exist: %w", name, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("expected %s to be non-empty", name)
	}
	return nil
}
