package defs

// Common labels for logging
const (
	LabelComponent = "component"
	LabelName      = "name"
	LabelPart      = "part"

	LabelFramework = "framework"
	LabelServer    = "server"
)

// Environment variables recognized for configuration overrides; each takes
// precedence over the corresponding config file value or explicit option
const (
	EnvVarAPIURL          = "APPVEYOR_API_URL"
	EnvVarBatchSize       = "APPVEYOR_BATCH_SIZE"
	EnvVarBatchIntervalMS = "APPVEYOR_BATCH_INTERVAL_MS"
)
