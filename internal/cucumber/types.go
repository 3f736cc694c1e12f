package cucumber

import (
	"encoding/json"
	"math"
)

// Report is a Cucumber JSON report: the ordered list of executed features.
type Report []Feature

// Feature matches a feature record in Cucumber JSON output.
type Feature struct {
	ID          string    `json:"id,omitempty"`
	Keyword     string    `json:"keyword,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	URI         string    `json:"uri"`
	Line        int       `json:"line,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	Elements    []Element `json:"elements"`
}

// Element is a scenario or background entry of a feature.
type Element struct {
	ID          string `json:"id,omitempty"`
	Keyword     string `json:"keyword,omitempty"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Line        int    `json:"line,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
	Steps       []Step `json:"steps"`
}

// Tag is a tag attached to a feature or element.
type Tag struct {
	Name string `json:"name"`
	Line int    `json:"line,omitempty"`
}

// Step captures one executed step.
type Step struct {
	Keyword string `json:"keyword"`
	Name    string `json:"name"`
	Line    int    `json:"line,omitempty"`
	Result  Result `json:"result"`
}

// Result holds the execution outcome of a step. Duration is in nanoseconds.
type Result struct {
	Status       string  `json:"status"`
	Duration     *int64  `json:"duration,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

// Raw step statuses emitted by Cucumber runners.
const (
	StatusPassed    = "passed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
	StatusPending   = "pending"
	StatusUndefined = "undefined"
)

// ElementTypeScenario marks elements that are scenarios.
const ElementTypeScenario = "scenario"

// IsScenario reports whether the element is a scenario rather than a background.
func (e Element) IsScenario() bool {
	return e.Type == ElementTypeScenario
}

// UnmarshalJSON decodes a feature, treating a missing or non-array
// elements or tags field as empty.
func (f *Feature) UnmarshalJSON(data []byte) error {
	type plain Feature
	var raw struct {
		plain
		Tags     json.RawMessage `json:"tags"`
		Elements json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Feature(raw.plain)
	tags, err := decodeList[Tag](raw.Tags)
	if err != nil {
		return err
	}
	elements, err := decodeList[Element](raw.Elements)
	if err != nil {
		return err
	}
	f.Tags = tags
	f.Elements = elements
	return nil
}

// UnmarshalJSON decodes an element, treating a missing or non-array
// steps or tags field as empty.
func (e *Element) UnmarshalJSON(data []byte) error {
	type plain Element
	var raw struct {
		plain
		Tags  json.RawMessage `json:"tags"`
		Steps json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Element(raw.plain)
	tags, err := decodeList[Tag](raw.Tags)
	if err != nil {
		return err
	}
	steps, err := decodeList[Step](raw.Steps)
	if err != nil {
		return err
	}
	e.Tags = tags
	e.Steps = steps
	return nil
}

// UnmarshalJSON decodes a result, accepting integer, fractional or exponent
// durations. A duration that is not a number is treated as absent.
func (r *Result) UnmarshalJSON(data []byte) error {
	type plain Result
	var raw struct {
		plain
		Duration json.RawMessage `json:"duration"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Result(raw.plain)
	r.Duration = decodeNanos(raw.Duration)
	return nil
}

// decodeNanos reads a JSON number of nanoseconds, rounding fractions.
func decodeNanos(raw json.RawMessage) *int64 {
	var value *float64
	if len(raw) == 0 || json.Unmarshal(raw, &value) != nil || value == nil {
		return nil
	}
	nanos := int64(math.Round(*value))
	return &nanos
}

// decodeList decodes a JSON array, returning nil for absent, null, or non-array values.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	if !isJSONArray(raw) {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// isJSONArray reports whether the first non-space byte opens an array.
func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
