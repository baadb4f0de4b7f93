package models

// Sentinels used when a key exists on one side of a comparison only. The
// path of such a diff carries MissingPathSuffix so that "key absent" stays
// textually distinct from "value differs" in reports.
const (
	MissingPathSuffix = " (missing)"
	SentinelExists    = "(exists)"
	SentinelMissing   = "(missing)"
)

// DiffEntry records a single point of divergence between an expected and an
// actual JSON value. Expected/Actual hold the raw values, or the sentinel
// strings above when one side is absent.
type DiffEntry struct {
	Path     string `json:"path" yaml:"path"`
	Expected any    `json:"expected" yaml:"expected"`
	Actual   any    `json:"actual" yaml:"actual"`
}

// DiffResult is the outcome of one deep comparison.
// Invariant: Match == (len(Diffs) == 0).
type DiffResult struct {
	Match bool        `json:"match" yaml:"match"`
	Diffs []DiffEntry `json:"diffs" yaml:"diffs"`
}

// ValidationResult is the verdict for one (case, provider) pair. Exactly one
// of {clean success, warning success, diff failure, error failure} holds.
// Diff is set whenever diffs exist, including on warning-level successes,
// and never on error failures.
type ValidationResult struct {
	Format         WireFormat  `json:"format" yaml:"format"`
	CaseName       string      `json:"caseName" yaml:"case_name"`
	Model          string      `json:"model" yaml:"model"`
	Success        bool        `json:"success" yaml:"success"`
	Warning        bool        `json:"warning,omitempty" yaml:"warning,omitempty"`
	DurationMs     int64       `json:"durationMs" yaml:"duration_ms"`
	Diff           *DiffResult `json:"diff,omitempty" yaml:"diff,omitempty"`
	Error          string      `json:"error,omitempty" yaml:"error,omitempty"`
	Patch          string      `json:"patch,omitempty" yaml:"patch,omitempty"`
	ActualResponse any         `json:"actualResponse,omitempty" yaml:"actual_response,omitempty"`
}

// ValidateOptions is the input of the validation entry point.
type ValidateOptions struct {
	ProxyURL  string
	APIKey    string
	Formats   []WireFormat
	Cases     []string
	Providers []string
	All       bool
	Stream    bool
	Verbose   bool
	// OnResult, when set, receives every result as soon as its pair
	// settles, in completion order.
	OnResult func(ValidationResult)
}
