// Package anonymize sanitizes captured JSON documents before they are
// committed as fixtures.
package anonymize

import "github.com/gatewaylab/conform/pkg/models"

type Service interface {
	// Anonymize walks one document and replaces leaf strings with stable
	// pseudonymous tokens. The token map is scoped to this call.
	Anonymize(value any, opts Options) models.AnonymizeResult
	// AnonymizeFile reads a JSON file, anonymizes it preserving key order,
	// and writes the result to outPath (or back in place when empty).
	AnonymizeFile(inPath, outPath string, opts Options) (models.AnonymizeResult, error)
}

// Options control one anonymization pass.
type Options struct {
	// AllStrings replaces every non-empty leaf string regardless of scope
	// or preserve keys.
	AllStrings bool
	// PreserveKeys are keys whose string values are kept verbatim when not
	// in AllStrings mode. Matched case-insensitively. Defaults to
	// {role, type}.
	PreserveKeys []string
	// Prefix of generated tokens, "anon" by default.
	Prefix string
}
