package report

// TestEvent is one test-completed event from the host test runner, before normalization
//
// The JSON shape matches one line of a test run's event stream; most fields are optional and
// sanitized by the Recorder.
type TestEvent struct {
	Name                 string `json:"testName"`
	Framework            string `json:"testFramework"` // falls back to the configured default when empty
	File                 string `json:"fileName"`
	Outcome              string `json:"outcome"` // parsed case-insensitively; "pending"/"skipped" count as Ignored
	DurationMilliseconds *int64 `json:"durationMilliseconds"`
	StdOut               string `json:"stdOut"`
	StdErr               string `json:"stdErr"`
	ErrorMessage         string `json:"errorMessage"`
	ErrorStackTrace      string `json:"errorStackTrace"`
}
