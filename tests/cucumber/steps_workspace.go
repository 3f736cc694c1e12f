//go:build cucumber

package cucumber

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cukedash/internal/sample"
)

// ensureWorkspace creates a temp dir and makes it the working directory.
func (s *featureState) ensureWorkspace() error {
	if s.workDir != "" {
		return nil
	}
	dir, err := os.MkdirTemp("", "cukedash-feature-*")
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	s.workDir = dir
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	// Keep SMTP settings from the host out of the scenario.
	for _, key := range []string{"CUKEDASH_SMTP_USER", "GMAIL_USER", "CUKEDASH_SMTP_PASSWORD", "GMAIL_APP_PASSWORD"} {
		if err := s.setEnv(key, ""); err != nil {
			return err
		}
	}
	return nil
}

// aWorkspaceWithTheExampleReport writes the bundled example report.
func (s *featureState) aWorkspaceWithTheExampleReport(name string) error {
	if err := s.ensureWorkspace(); err != nil {
		return err
	}
	return s.writeFile(name, sample.ReportJSON())
}

// aWorkspaceWithAFile writes arbitrary content; quoted escapes are honored.
func (s *featureState) aWorkspaceWithAFile(name, quoted string) error {
	if err := s.ensureWorkspace(); err != nil {
		return err
	}
	contents, err := strconv.Unquote(`"` + quoted + `"`)
	if err != nil {
		return fmt.Errorf("unquote contents: %w", err)
	}
	return s.writeFile(name, []byte(contents))
}

// theConfigSetsTheLogLevel writes a .cukedash.yml with the given log level.
func (s *featureState) theConfigSetsTheLogLevel(level string) error {
	if err := s.ensureWorkspace(); err != nil {
		return err
	}
	return s.writeFile(".cukedash.yml", []byte(fmt.Sprintf("log:\n  level: %s\n", level)))
}

func (s *featureState) writeFile(name string, data []byte) error {
	path := filepath.Join(s.workDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
