package base

import (
	"fmt"
	"strings"
)

// Outcome is the final outcome of one test, exactly one of the declared values once finalized
type Outcome string

// Recognized outcome values, capitalized as the AppVeyor build worker API expects them on the wire
const (
	OutcomePassed  Outcome = "Passed"
	OutcomeFailed  Outcome = "Failed"
	OutcomeIgnored Outcome = "Ignored"
)

// ParseOutcome maps a raw outcome string from a test runner to an Outcome
//
// Matching is case-insensitive; "pending" and "skipped" are treated as Ignored
func ParseOutcome(raw string) (Outcome, error) {
	switch strings.ToLower(raw) {
	case "passed", "pass":
		return OutcomePassed, nil
	case "failed", "fail":
		return OutcomeFailed, nil
	case "ignored", "pending", "skipped":
		return OutcomeIgnored, nil
	default:
		return "", fmt.Errorf("unrecognized test outcome: %q", raw)
	}
}

// TestResult represents the normalized outcome of one test, ready for transport as part of a batch
//
// A TestResult must never be mutated after it is appended to a ResultQueue
type TestResult struct {
	TestName             string  `json:"testName"`
	TestFramework        string  `json:"testFramework"`
	FileName             string  `json:"fileName"`
	Outcome              Outcome `json:"outcome"`
	DurationMilliseconds *int64  `json:"durationMilliseconds,omitempty"` // nil for results finalized without a measured duration
	StdOut               string  `json:"stdOut"`
	StdErr               string  `json:"stdErr"`
	ErrorMessage         string  `json:"errorMessage,omitempty"` // only set when Outcome is Failed
	ErrorStackTrace      string  `json:"errorStackTrace,omitempty"`
}

func (result TestResult) String() string {
	if result.DurationMilliseconds != nil {
		return fmt.Sprintf("name=%s outcome=%s duration=%dms", result.TestName, result.Outcome, *result.DurationMilliseconds)
	}
	return fmt.Sprintf("name=%s outcome=%s", result.TestName, result.Outcome)
}
