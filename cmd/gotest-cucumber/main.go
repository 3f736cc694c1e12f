// Command gotest-cucumber converts `go test -json` output read from stdin
// into a Cucumber JSON report on stdout, so Go test runs can be loaded
// into the dashboard.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"cukedash/internal/cucumber"
)

func main() {
	report, err := cucumber.FromGoTestEvents(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read test events: %v\n", err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}
}
