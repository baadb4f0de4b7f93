package anonymize

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/7sDream/geko"
	"go.uber.org/zap"

	"github.com/gatewaylab/conform/pkg/models"
	"github.com/gatewaylab/conform/utils"
)

const defaultPrefix = "anon"

type anonymizer struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) Service {
	return &anonymizer{logger: logger}
}

// scope tracks which sensitive subtrees the walker is inside of. Flags are
// monotonic: once a walk descends through a triggering key they stay on for
// every descendant.
type scope struct {
	withinContent  bool
	withinMetadata bool
	withinContext  bool
	withinOutput   bool
}

func (s scope) active() bool {
	return s.withinContent || s.withinMetadata || s.withinContext || s.withinOutput
}

func (s scope) descend(key string) scope {
	k := strings.ToLower(key)
	if k == "content" {
		s.withinContent = true
	}
	if strings.HasPrefix(k, "metadata") {
		s.withinMetadata = true
	}
	if k == "context" {
		s.withinContext = true
	}
	if k == "output" {
		s.withinOutput = true
	}
	return s
}

// pass holds the per-document state: the content-addressed token map lives
// exactly as long as one call to Anonymize.
type pass struct {
	opts         Options
	preserve     map[string]struct{}
	replacements map[string]string
	replaced     int
}

// Anonymize rewrites sensitive strings in value and returns it. Containers
// are mutated in place, so callers that need the original document intact
// must pass a copy.
func (a *anonymizer) Anonymize(value any, opts Options) models.AnonymizeResult {
	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}
	preserveKeys := opts.PreserveKeys
	if preserveKeys == nil {
		preserveKeys = []string{"role", "type"}
	}
	preserve := make(map[string]struct{}, len(preserveKeys))
	for _, k := range preserveKeys {
		preserve[strings.ToLower(k)] = struct{}{}
	}

	p := &pass{
		opts:         opts,
		preserve:     preserve,
		replacements: map[string]string{},
	}
	out := p.walk(value, "", "", scope{})
	return models.AnonymizeResult{
		Value:                  out,
		ReplacedStringCount:    p.replaced,
		UniqueReplacementCount: len(p.replacements),
	}
}

func (a *anonymizer) AnonymizeFile(inPath, outPath string, opts Options) (models.AnonymizeResult, error) {
	var result models.AnonymizeResult

	data, err := os.ReadFile(inPath)
	if err != nil {
		utils.LogError(a.logger, err, "failed to read the input file", zap.String("path", inPath))
		return result, err
	}

	// geko keeps the key order of the document, so the anonymized file
	// diffs cleanly against the original.
	doc, err := geko.JSONUnmarshal(data)
	if err != nil {
		return result, fmt.Errorf("failed to unmarshal %s: %v", inPath, err)
	}

	result = a.Anonymize(doc, opts)

	out, err := json.MarshalIndent(result.Value, "", "  ")
	if err != nil {
		return result, fmt.Errorf("failed to marshal the anonymized document: %v", err)
	}
	if outPath == "" {
		outPath = inPath
	}
	if err := os.WriteFile(outPath, append(out, '\n'), 0644); err != nil {
		utils.LogError(a.logger, err, "failed to write the anonymized file", zap.String("path", outPath))
		return result, err
	}

	a.logger.Info("anonymized document written",
		zap.String("path", outPath),
		zap.Int("replaced", result.ReplacedStringCount),
		zap.Int("unique", result.UniqueReplacementCount))
	return result, nil
}

// walk rewrites v in place where the container supports it. key is the field
// name v sits under, parentKey the one above that; both feed the
// metadata/model carve-out and the preserve-key check. Array elements
// inherit the keys of the array itself.
func (p *pass) walk(v any, key, parentKey string, s scope) any {
	switch val := v.(type) {
	case geko.ObjectItems:
		keys := val.Keys()
		vals := val.Values()
		var drop []int
		for i := range keys {
			if p.dropKey(keys[i], s) {
				drop = append(drop, i)
				continue
			}
			val.SetValueByIndex(i, p.walk(vals[i], keys[i], key, s.descend(keys[i])))
		}
		for j := len(drop) - 1; j >= 0; j-- {
			val.DeleteByIndex(drop[j])
		}
		return val
	case geko.Array:
		for i, item := range val.List {
			val.Set(i, p.walk(item, key, parentKey, s))
		}
		return val
	case map[string]any:
		for k, item := range val {
			if p.dropKey(k, s) {
				delete(val, k)
				continue
			}
			val[k] = p.walk(item, k, key, s.descend(k))
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = p.walk(item, key, parentKey, s)
		}
		return val
	case string:
		return p.replaceString(val, key, parentKey, s)
	default:
		return v
	}
}

// dropKey reports whether the key's whole subtree must be removed: a
// "prompt" key directly under a metadata-scoped object leaks context by
// shape alone, so it is deleted rather than anonymized.
func (p *pass) dropKey(key string, s scope) bool {
	return s.withinMetadata && strings.ToLower(key) == "prompt"
}

func (p *pass) replaceString(v, key, parentKey string, s scope) string {
	if v == "" {
		return v
	}
	// metadata.model is routing data, kept verbatim no matter what.
	if strings.ToLower(parentKey) == "metadata" && strings.ToLower(key) == "model" {
		return v
	}
	if !p.opts.AllStrings {
		if !s.active() {
			return v
		}
		if _, ok := p.preserve[strings.ToLower(key)]; ok {
			return v
		}
	}
	return p.token(v)
}

// token returns the pseudonym for v, minting a new one for strings not seen
// before in this document. Identical inputs map to identical tokens so the
// anonymized fixture keeps its repeated-value structure.
func (p *pass) token(v string) string {
	p.replaced++
	if t, ok := p.replacements[v]; ok {
		return t
	}
	t := fmt.Sprintf("%s_%d", p.opts.Prefix, len(p.replacements)+1)
	p.replacements[v] = t
	return t
}
