//go:build cucumber

package cucumber

import (
	"fmt"
	"strconv"
	"strings"

	"cukedash/internal/cli"
)

// iRunCommand executes a CLI command for the scenario.
func (s *featureState) iRunCommand(command string) error {
	unquoted, err := strconv.Unquote(`"` + command + `"`)
	if err != nil {
		return fmt.Errorf("unquote command: %w", err)
	}
	args := strings.Fields(unquoted)
	if len(args) == 0 {
		return fmt.Errorf("command is empty")
	}
	if args[0] == "cukedash" {
		args = args[1:]
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}
