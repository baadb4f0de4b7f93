// Package executor sends case payloads to the target gateway and captures
// the raw response for comparison.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gatewaylab/conform/pkg/models"
)

// ExecuteOptions carry per-run overrides into one round trip.
type ExecuteOptions struct {
	Stream  bool
	BaseURL string
	APIKey  string
}

// Executor is the pluggable adapter for one wire format. Implementations
// are constructed once at startup and stay stateless across invocations
// except for the HTTP client they own. Execute never returns a Go error:
// transport failures and malformed bodies come back in CaptureResult.Error
// so one pair's failure cannot abort its batch.
type Executor interface {
	Name() string
	Format() models.WireFormat
	Cases() map[string]any
	CaseNames() []string
	IgnoredFields() []string
	Expectation(caseName string) *models.Expectation
	Execute(ctx context.Context, caseName string, payload any, opts ExecuteOptions) models.CaptureResult
}

// HTTPExecutor posts JSON payloads to a fixed endpoint path on the target.
type HTTPExecutor struct {
	logger       *zap.Logger
	client       *http.Client
	format       models.WireFormat
	endpoint     string
	setAuth      func(req *http.Request, apiKey string)
	cases        map[string]any
	expectations map[string]*models.Expectation
	ignored      []string
}

func (e *HTTPExecutor) Name() string              { return string(e.format) }
func (e *HTTPExecutor) Format() models.WireFormat { return e.format }
func (e *HTTPExecutor) Cases() map[string]any     { return e.cases }
func (e *HTTPExecutor) IgnoredFields() []string   { return e.ignored }

func (e *HTTPExecutor) CaseNames() []string {
	names := make([]string, 0, len(e.cases)+len(e.expectations))
	for name := range e.cases {
		names = append(names, name)
	}
	for name := range e.expectations {
		if _, ok := e.cases[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (e *HTTPExecutor) Expectation(caseName string) *models.Expectation {
	return e.expectations[caseName]
}

func (e *HTTPExecutor) Execute(ctx context.Context, caseName string, payload any, opts ExecuteOptions) models.CaptureResult {
	result := models.CaptureResult{Request: payload}

	body := payload
	if opts.Stream {
		body = withStreamFlag(payload)
	}
	data, err := json.Marshal(body)
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal the request payload for case %s: %v", caseName, err)
		return result
	}

	url := strings.TrimSuffix(opts.BaseURL, "/") + e.endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		result.Error = fmt.Sprintf("failed to build the request for %s: %v", url, err)
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	if e.setAuth != nil {
		e.setAuth(req, opts.APIKey)
	}

	e.logger.Debug("executing case",
		zap.String("case", caseName),
		zap.String("url", url),
		zap.Bool("stream", opts.Stream))

	resp, err := e.client.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request to %s failed: %v", url, err)
		return result
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	result.StatusCode = resp.StatusCode
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read the response body from %s: %v", url, err)
		return result
	}

	if opts.Stream && resp.StatusCode < http.StatusMultipleChoices {
		chunks, err := parseEventStream(raw)
		if err != nil {
			result.Error = fmt.Sprintf("failed to parse the event stream from %s: %v", url, err)
			return result
		}
		result.StreamingResponse = chunks
		return result
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		result.Error = fmt.Sprintf("response from %s is not valid JSON: %v", url, err)
		return result
	}
	result.Response = parsed
	return result
}

// withStreamFlag returns a shallow copy of the payload with "stream": true,
// leaving the registered case definition untouched.
func withStreamFlag(payload any) any {
	m, ok := payload.(map[string]any)
	if !ok {
		return payload
	}
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out["stream"] = true
	return out
}

// parseEventStream decodes an SSE body into the ordered list of its data
// chunks. Event-name lines and the [DONE] terminator are skipped.
func parseEventStream(raw []byte) ([]any, error) {
	chunks := []any{}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		var chunk any
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return nil, fmt.Errorf("invalid chunk %q: %v", data, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func bearerAuth(req *http.Request, apiKey string) {
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
}

func anthropicAuth(req *http.Request, apiKey string) {
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	req.Header.Set("anthropic-version", "2023-06-01")
}
