// Package receipt writes stable evidence artifacts for audit of CI runs.
package receipt

// SchemaVersion current
const SchemaVersion = "1.0"

// Receipt is the evidence record of one checker invocation.
type Receipt struct {
	SchemaVersion string           `json:"schema_version"`
	RunID         string           `json:"run_id"`
	TsStart       string           `json:"ts_start"`
	TsEnd         string           `json:"ts_end"`
	Command       string           `json:"command"`
	Args          []string         `json:"args"`
	ArgsRedacted  bool             `json:"args_redacted,omitempty"`
	Result        Result           `json:"result"`
	Input         *InputRef        `json:"input,omitempty"`
	Findings      *FindingsSummary `json:"findings,omitempty"`
}

// Result status
type Result struct {
	Status string `json:"status"` // "success" or "fail"
	Error  string `json:"error,omitempty"`
}

// InputRef pins the validated input. SHA256 is only set for single-file
// inputs; directories carry the path alone.
type InputRef struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256,omitempty"`
}

// FindingsSummary counts by severity
type FindingsSummary struct {
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Infos    int    `json:"infos"`
	Total    int    `json:"total"`
	Outcome  string `json:"outcome,omitempty"` // "PASS" or "FAIL"
}
