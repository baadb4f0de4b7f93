package anonymize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/7sDream/geko"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) Service {
	t.Helper()
	return New(zap.NewNop())
}

func TestAnonymizeContentScope(t *testing.T) {
	svc := newService(t)

	doc := map[string]any{"role": "user", "content": "hello world"}
	res := svc.Anonymize(doc, Options{})

	out := res.Value.(map[string]any)
	assert.Equal(t, "user", out["role"])
	assert.Equal(t, "anon_1", out["content"])
	assert.Equal(t, 1, res.ReplacedStringCount)
	assert.Equal(t, 1, res.UniqueReplacementCount)
}

func TestAnonymizeTokenReuseWithinDocument(t *testing.T) {
	svc := newService(t)

	doc := map[string]any{
		"content": []any{"dup", "dup", "other"},
	}
	res := svc.Anonymize(doc, Options{})

	out := res.Value.(map[string]any)["content"].([]any)
	assert.Equal(t, []any{"anon_1", "anon_1", "anon_2"}, out)
	assert.Equal(t, 3, res.ReplacedStringCount)
	assert.Equal(t, 2, res.UniqueReplacementCount)
}

func TestAnonymizeScopeIsMonotonic(t *testing.T) {
	svc := newService(t)

	doc := map[string]any{
		"output": map[string]any{
			"nested": map[string]any{"deep": "secret"},
		},
		"outside": "visible",
	}
	res := svc.Anonymize(doc, Options{})

	out := res.Value.(map[string]any)
	nested := out["output"].(map[string]any)["nested"].(map[string]any)
	assert.Equal(t, "anon_1", nested["deep"])
	assert.Equal(t, "visible", out["outside"])
}

func TestAnonymizeDropsPromptUnderMetadata(t *testing.T) {
	svc := newService(t)

	doc := map[string]any{
		"metadata": map[string]any{
			"prompt": map[string]any{"system": "top secret"},
			"route":  "base",
		},
	}
	res := svc.Anonymize(doc, Options{})

	meta := res.Value.(map[string]any)["metadata"].(map[string]any)
	_, hasPrompt := meta["prompt"]
	assert.False(t, hasPrompt)
	assert.Equal(t, "anon_1", meta["route"])
}

func TestAnonymizeTopLevelPromptSurvives(t *testing.T) {
	svc := newService(t)

	doc := map[string]any{"prompt": "keep me"}
	res := svc.Anonymize(doc, Options{})

	out := res.Value.(map[string]any)
	assert.Equal(t, "keep me", out["prompt"])
}

func TestAnonymizeMetadataModelCarveOut(t *testing.T) {
	svc := newService(t)

	doc := map[string]any{"metadata": map[string]any{"model": "gpt-x"}}

	res := svc.Anonymize(doc, Options{})
	assert.Equal(t, "gpt-x", res.Value.(map[string]any)["metadata"].(map[string]any)["model"])

	// the carve-out wins even over allStrings
	doc = map[string]any{"metadata": map[string]any{"model": "gpt-x"}}
	res = svc.Anonymize(doc, Options{AllStrings: true})
	assert.Equal(t, "gpt-x", res.Value.(map[string]any)["metadata"].(map[string]any)["model"])
}

func TestAnonymizeAllStringsIgnoresPreserveKeys(t *testing.T) {
	svc := newService(t)

	doc, err := geko.JSONUnmarshal([]byte(`{"free":"text","role":"user"}`))
	require.NoError(t, err)

	res := svc.Anonymize(doc, Options{AllStrings: true})
	out, err := json.Marshal(res.Value)
	require.NoError(t, err)

	assert.Equal(t, `{"free":"anon_1","role":"anon_2"}`, string(out))
	assert.Equal(t, 2, res.ReplacedStringCount)
}

func TestAnonymizeCustomPreserveKeysAndPrefix(t *testing.T) {
	svc := newService(t)

	doc := map[string]any{
		"content": map[string]any{"kind": "text", "body": "secret"},
	}
	res := svc.Anonymize(doc, Options{PreserveKeys: []string{"kind"}, Prefix: "tok"})

	out := res.Value.(map[string]any)["content"].(map[string]any)
	assert.Equal(t, "text", out["kind"])
	assert.Equal(t, "tok_1", out["body"])
}

func TestAnonymizeEmptyStringsUntouched(t *testing.T) {
	svc := newService(t)

	doc := map[string]any{"content": ""}
	res := svc.Anonymize(doc, Options{})

	assert.Equal(t, "", res.Value.(map[string]any)["content"])
	assert.Equal(t, 0, res.ReplacedStringCount)
}

func TestAnonymizePreservesKeyOrder(t *testing.T) {
	svc := newService(t)

	raw := `{"zeta":"z","content":"secret","alpha":"a"}`
	doc, err := geko.JSONUnmarshal([]byte(raw))
	require.NoError(t, err)

	res := svc.Anonymize(doc, Options{})
	out, err := json.Marshal(res.Value)
	require.NoError(t, err)

	assert.Equal(t, `{"zeta":"z","content":"anon_1","alpha":"a"}`, string(out))
}

func TestAnonymizeFileInPlace(t *testing.T) {
	svc := newService(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "capture.json")
	raw := `{"role":"user","content":"hello","metadata":{"model":"gpt-x","prompt":"drop"}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	res, err := svc.AnonymizeFile(path, "", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ReplacedStringCount)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "anon_1", out["content"])
	meta := out["metadata"].(map[string]any)
	assert.Equal(t, "gpt-x", meta["model"])
	_, hasPrompt := meta["prompt"]
	assert.False(t, hasPrompt)
}

func TestAnonymizeMutatesInputInPlace(t *testing.T) {
	svc := newService(t)

	doc := map[string]any{"content": "secret", "metadata": map[string]any{"prompt": "drop"}}
	res := svc.Anonymize(doc, Options{})

	assert.Equal(t, "anon_1", doc["content"])
	_, hasPrompt := doc["metadata"].(map[string]any)["prompt"]
	assert.False(t, hasPrompt)
	assert.Equal(t, doc["content"], res.Value.(map[string]any)["content"])
}
