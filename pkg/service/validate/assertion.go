package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gatewaylab/conform/pkg/matcher"
	"github.com/gatewaylab/conform/pkg/models"
)

var arrayIndexRe = regexp.MustCompile(`\[(\d+)\]`)

// normalizeArrayIndices rewrites bracketed indices to dotted segments, so
// "choices[0].finish_reason" becomes "choices.0.finish_reason".
func normalizeArrayIndices(path string) string {
	return arrayIndexRe.ReplaceAllString(path, ".$1")
}

// resolveFieldPath walks a dotted/bracketed path through a decoded JSON
// document. The second return value reports whether the path resolved.
func resolveFieldPath(doc any, path string) (any, bool) {
	current := doc
	for _, seg := range strings.Split(normalizeArrayIndices(path), ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			current = node[i]
		default:
			return nil, false
		}
	}
	return current, true
}

// checkAssertion evaluates one field assertion against the actual body and
// returns a descriptive failure message, or "" when it holds.
func checkAssertion(body any, assertion models.FieldAssertion) string {
	value, found := resolveFieldPath(body, assertion.Path)

	switch {
	case assertion.Exists != nil:
		if *assertion.Exists != found {
			if *assertion.Exists {
				return fmt.Sprintf("expected field %q to exist", assertion.Path)
			}
			return fmt.Sprintf("expected field %q to be absent, found %v", assertion.Path, value)
		}
		return ""
	case assertion.Contains != "":
		if !found {
			return fmt.Sprintf("field %q not found in response", assertion.Path)
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("field %q is not a string: %v", assertion.Path, value)
		}
		if !strings.Contains(s, assertion.Contains) {
			return fmt.Sprintf("field %q = %q does not contain %q", assertion.Path, s, assertion.Contains)
		}
		return ""
	default:
		if !found {
			return fmt.Sprintf("field %q not found in response", assertion.Path)
		}
		if !matcher.Compare(assertion.Equals, value, nil).Match {
			return fmt.Sprintf("field %q = %v, expected %v", assertion.Path, value, assertion.Equals)
		}
		return ""
	}
}
