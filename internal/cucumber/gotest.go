package cucumber

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// GoTestEvent is one line of `go test -json` output.
type GoTestEvent struct {
	Action  string  `json:"Action"`
	Package string  `json:"Package"`
	Test    string  `json:"Test"`
	Elapsed float64 `json:"Elapsed"`
	Output  string  `json:"Output"`
}

const goTestKeyword = "Test "

// goTestCase accumulates events for one test or subtest.
type goTestCase struct {
	name    string
	status  string
	elapsed float64
	output  strings.Builder
	subs    []*goTestCase
}

type goTestPackage struct {
	name  string
	tests []*goTestCase
	index map[string]*goTestCase
}

// FromGoTestEvents converts a `go test -json` stream into a Report. Each
// package becomes a feature and each top-level test a scenario. Subtests
// become the scenario's steps; a test without subtests is a single step.
// Lines that are not test events are ignored.
func FromGoTestEvents(r io.Reader) (Report, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var packages []*goTestPackage
	byName := map[string]*goTestPackage{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] != '{' {
			continue
		}
		var event GoTestEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}
		if event.Test == "" || event.Package == "" {
			continue
		}
		pkg := byName[event.Package]
		if pkg == nil {
			pkg = &goTestPackage{name: event.Package, index: map[string]*goTestCase{}}
			byName[event.Package] = pkg
			packages = append(packages, pkg)
		}
		tc := pkg.lookup(event.Test)
		switch event.Action {
		case "output":
			tc.output.WriteString(event.Output)
		case "pass", "fail", "skip":
			tc.status = event.Action
			tc.elapsed = event.Elapsed
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read test events: %w", err)
	}

	report := make(Report, 0, len(packages))
	for _, pkg := range packages {
		report = append(report, pkg.feature())
	}
	return report, nil
}

// lookup returns the case for a test name, creating parents for subtests.
func (p *goTestPackage) lookup(name string) *goTestCase {
	if tc, ok := p.index[name]; ok {
		return tc
	}
	tc := &goTestCase{name: name}
	p.index[name] = tc
	root, _, isSub := strings.Cut(name, "/")
	if !isSub {
		p.tests = append(p.tests, tc)
		return tc
	}
	parent := p.lookup(root)
	parent.subs = append(parent.subs, tc)
	return tc
}

func (p *goTestPackage) feature() Feature {
	elements := make([]Element, 0, len(p.tests))
	for i, tc := range p.tests {
		elements = append(elements, Element{
			ID:      p.name + ";" + strings.ToLower(tc.name),
			Keyword: "Scenario",
			Type:    ElementTypeScenario,
			Name:    tc.name,
			Line:    i + 1,
			Steps:   tc.steps(),
		})
	}
	return Feature{
		ID:       p.name,
		Keyword:  "Feature",
		Name:     p.name,
		URI:      p.name,
		Elements: elements,
	}
}

func (tc *goTestCase) steps() []Step {
	if len(tc.subs) == 0 {
		return []Step{tc.step(tc.name)}
	}
	steps := make([]Step, 0, len(tc.subs)+1)
	subFailed := false
	for _, sub := range tc.subs {
		step := sub.step(strings.TrimPrefix(sub.name, tc.name+"/"))
		subFailed = subFailed || step.Result.Status == StatusFailed
		steps = append(steps, step)
	}
	// A parent can fail on its own after every subtest passed.
	if !subFailed && goTestStatus(tc.status) == StatusFailed {
		steps = append(steps, tc.step(tc.name))
	}
	return steps
}

func (tc *goTestCase) step(name string) Step {
	duration := int64(tc.elapsed * 1e9)
	result := Result{Status: goTestStatus(tc.status), Duration: &duration}
	if result.Status == StatusFailed {
		if msg := strings.TrimSpace(tc.output.String()); msg != "" {
			result.ErrorMessage = &msg
		}
	}
	return Step{Keyword: goTestKeyword, Name: name, Result: result}
}

// goTestStatus maps a go test action to a step status. Tests that never
// finished (a timeout panic kills the binary first) count as failed.
func goTestStatus(action string) string {
	switch action {
	case "pass":
		return StatusPassed
	case "skip":
		return StatusSkipped
	default:
		return StatusFailed
	}
}
