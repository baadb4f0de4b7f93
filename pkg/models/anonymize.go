package models

// AnonymizeResult is the outcome of one anonymization pass over a single
// document. The token map backing the counts lives only for the duration of
// that pass; it is never shared across documents.
type AnonymizeResult struct {
	Value                  any `json:"value" yaml:"value"`
	ReplacedStringCount    int `json:"replacedStringCount" yaml:"replaced_string_count"`
	UniqueReplacementCount int `json:"uniqueReplacementCount" yaml:"unique_replacement_count"`
}
