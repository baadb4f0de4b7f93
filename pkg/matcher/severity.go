package matcher

import "github.com/gatewaylab/conform/pkg/models"

// DefaultVolatilePatterns lists fields that legitimately drift between runs
// of the same request: log-probabilities, provider-assigned ids, and
// free-form text where presence matters but exact wording does not. A diff
// confined to these paths is cosmetic, not a conformance break.
var DefaultVolatilePatterns = []string{
	"id",
	"created",
	"created_at",
	"system_fingerprint",
	"choices.*.message.content",
	"choices.*.message.refusal",
	"choices.*.message.tool_calls.*.id",
	"choices.*.message.tool_calls.*.function.arguments",
	"choices.*.delta.content",
	"choices.*.delta.tool_calls.*.id",
	"choices.*.delta.tool_calls.*.function.arguments",
	"choices.*.logprobs.content.*.logprob",
	"choices.*.logprobs.content.*.top_logprobs.*.logprob",
	"usage.prompt_tokens",
	"usage.completion_tokens",
	"usage.total_tokens",
	"usage.input_tokens",
	"usage.output_tokens",
	"output.*.id",
	"output.*.content.*.text",
	"output.*.content.*.logprobs.*.logprob",
	"content.*.text",
	"content.*.id",
	"content.*.input",
	"message.content.*.text",
}

// Classifier decides whether a diff result is blocking or merely cosmetic.
// The pattern table is injectable so each executor can extend it.
type Classifier struct {
	patterns []Pattern
}

// NewClassifier builds a classifier over DefaultVolatilePatterns plus any
// extra patterns the caller supplies. Every pattern is also compiled with a
// leading "*." variant so that rules written for a single response apply
// unchanged inside a captured stream, where paths start with a chunk index.
func NewClassifier(extra ...string) *Classifier {
	raw := make([]string, 0, len(DefaultVolatilePatterns)+len(extra))
	raw = append(raw, DefaultVolatilePatterns...)
	raw = append(raw, extra...)

	patterns := make([]Pattern, 0, 2*len(raw))
	for _, p := range raw {
		patterns = append(patterns, CompilePattern(p), CompilePattern("*."+p))
	}
	return &Classifier{patterns: patterns}
}

// HasOnlyMinorDiffs reports whether every diff in the result falls on a
// known-volatile path. An empty diff list is a perfect match, not a minor
// one, and returns false; the orchestrator handles that case separately.
// Missing-key diffs never classify as minor: their " (missing)" path suffix
// keeps them off the pattern table, because presence is part of the shape
// contract even for volatile fields.
func (c *Classifier) HasOnlyMinorDiffs(result models.DiffResult) bool {
	if len(result.Diffs) == 0 {
		return false
	}
	for _, d := range result.Diffs {
		if !c.isMinor(d.Path) {
			return false
		}
	}
	return true
}

func (c *Classifier) isMinor(path string) bool {
	for _, p := range c.patterns {
		if p.Matches(path) {
			return true
		}
	}
	return false
}
