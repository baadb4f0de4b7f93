package models

// Expectation is a declarative alternative to a golden snapshot: instead of
// diffing the whole response, the orchestrator checks the HTTP status and a
// list of field assertions against the live body. Used mostly for error
// shapes, where providers word messages differently on every release.
type Expectation struct {
	Status int              `json:"status" yaml:"status"`
	Fields []FieldAssertion `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FieldAssertion addresses one field by a dotted/bracketed path
// (e.g. "error.message" or "choices[0].finish_reason"). Exactly one of
// Equals, Exists or Contains should be set.
type FieldAssertion struct {
	Path     string `json:"path" yaml:"path"`
	Equals   any    `json:"equals,omitempty" yaml:"equals,omitempty"`
	Exists   *bool  `json:"exists,omitempty" yaml:"exists,omitempty"`
	Contains string `json:"contains,omitempty" yaml:"contains,omitempty"`
}
