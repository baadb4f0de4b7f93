package matcher

import (
	"sort"
	"strconv"

	"github.com/gatewaylab/conform/pkg/models"
)

// Compare walks expected and actual recursively and reports every point of
// divergence, suppressing paths covered by ignoredFields. Ignoring a path
// means neither its value nor its presence is checked.
//
// When the comparison root is an array (a captured stream of chunks), every
// supplied pattern is rewritten with a leading "*." so that per-chunk rules
// apply at every index, and "length" is added to the ignore set: chunk
// counts are non-deterministic, so only overlapping indices are compared.
func Compare(expected, actual any, ignoredFields []string) models.DiffResult {
	patterns := ignoredFields
	if jsonKind(expected) == kindArray || jsonKind(actual) == kindArray {
		rewritten := make([]string, 0, len(patterns)+1)
		for _, p := range patterns {
			rewritten = append(rewritten, "*."+p)
		}
		patterns = append(rewritten, "length")
	}
	compiled := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, CompilePattern(p))
	}
	diffs := compareValues(expected, actual, "", compiled)
	return models.DiffResult{Match: len(diffs) == 0, Diffs: diffs}
}

const (
	kindNull    = "null"
	kindString  = "string"
	kindNumber  = "number"
	kindBoolean = "boolean"
	kindArray   = "array"
	kindObject  = "object"
	kindUnknown = "unknown"
)

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return kindNull
	case string:
		return kindString
	case bool:
		return kindBoolean
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindNumber
	case []any:
		return kindArray
	case map[string]any:
		return kindObject
	default:
		return kindUnknown
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	}
	return 0
}

func compareValues(expected, actual any, path string, ignored []Pattern) []models.DiffEntry {
	if shouldIgnoreCompiled(path, ignored) {
		return nil
	}

	// null and absent are equivalent. A value missing from the actual side
	// gets the " (missing)" path suffix and sentinel values so that reports
	// can distinguish absence from inequality.
	if expected == nil && actual == nil {
		return nil
	}
	if actual == nil {
		return []models.DiffEntry{{
			Path:     path + models.MissingPathSuffix,
			Expected: models.SentinelExists,
			Actual:   models.SentinelMissing,
		}}
	}
	if expected == nil {
		return []models.DiffEntry{{Path: path, Expected: nil, Actual: actual}}
	}

	expKind, actKind := jsonKind(expected), jsonKind(actual)
	if expKind != actKind {
		return []models.DiffEntry{{Path: path, Expected: expected, Actual: actual}}
	}

	switch expKind {
	case kindArray:
		return compareArrays(expected.([]any), actual.([]any), path, ignored)
	case kindObject:
		return compareObjects(expected.(map[string]any), actual.(map[string]any), path, ignored)
	case kindNumber:
		if asFloat(expected) != asFloat(actual) {
			return []models.DiffEntry{{Path: path, Expected: expected, Actual: actual}}
		}
		return nil
	default:
		if expected != actual {
			return []models.DiffEntry{{Path: path, Expected: expected, Actual: actual}}
		}
		return nil
	}
}

func compareArrays(expected, actual []any, path string, ignored []Pattern) []models.DiffEntry {
	lengthPath := "length"
	if path != "" {
		lengthPath = path + ".length"
	}
	lengthIgnored := shouldIgnoreCompiled(lengthPath, ignored)

	var diffs []models.DiffEntry
	if !lengthIgnored && len(expected) != len(actual) {
		diffs = append(diffs, models.DiffEntry{
			Path:     lengthPath,
			Expected: len(expected),
			Actual:   len(actual),
		})
	}

	// Normally an extra or missing element surfaces as a diff at its index.
	// With the length check ignored, only the overlap is compared.
	limit := len(expected)
	if len(actual) > limit {
		limit = len(actual)
	}
	if lengthIgnored {
		limit = len(expected)
		if len(actual) < limit {
			limit = len(actual)
		}
	}

	for i := 0; i < limit; i++ {
		childPath := strconv.Itoa(i)
		if path != "" {
			childPath = path + "." + childPath
		}
		var expChild, actChild any
		if i < len(expected) {
			expChild = expected[i]
		}
		if i < len(actual) {
			actChild = actual[i]
		}
		diffs = append(diffs, compareValues(expChild, actChild, childPath, ignored)...)
	}
	return diffs
}

func compareObjects(expected, actual map[string]any, path string, ignored []Pattern) []models.DiffEntry {
	keys := make([]string, 0, len(expected)+len(actual))
	seen := make(map[string]struct{}, len(expected)+len(actual))
	for k := range expected {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range actual {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var diffs []models.DiffEntry
	for _, k := range keys {
		childPath := k
		if path != "" {
			childPath = path + "." + k
		}
		diffs = append(diffs, compareValues(expected[k], actual[k], childPath, ignored)...)
	}
	return diffs
}
