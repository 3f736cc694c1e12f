package cucumber

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidReport reports input that is not a Cucumber JSON report.
var ErrInvalidReport = errors.New("not a valid Cucumber JSON report")

// ParseReport decodes Cucumber JSON output into a Report.
func ParseReport(data []byte) (Report, error) {
	data = cleanRunnerOutput(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, ErrInvalidReport
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	return report, nil
}

// ReadReport reads and parses a report from r.
func ReadReport(r io.Reader) (Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return ParseReport(data)
}

// LoadReport reads a report file. A path of "-" reads from stdin.
func LoadReport(path string) (Report, error) {
	if path == "-" {
		return ReadReport(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	report, err := ParseReport(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

// cleanRunnerOutput strips non-JSON noise that runners print ahead of the report.
func cleanRunnerOutput(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	stripped := stripANSICodes(data)
	stripped = bytes.TrimSpace(stripped)
	if len(stripped) == 0 {
		return stripped
	}
	if stripped[0] == '[' || stripped[0] == '{' {
		return stripped
	}
	for i, b := range stripped {
		if b == '[' || b == '{' {
			return bytes.TrimSpace(stripped[i:])
		}
	}
	return stripped
}

// stripANSICodes removes ANSI escape sequences from output.
func stripANSICodes(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		if data[i] == 0x1b && i+1 < len(data) && data[i+1] == '[' {
			i += 2
			for i < len(data) {
				ch := data[i]
				i++
				if ch >= 0x40 && ch <= 0x7e {
					break
				}
			}
			continue
		}
		out = append(out, data[i])
		i++
	}
	return out
}
