package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wI2L/jsondiff"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gatewaylab/conform/config"
	"github.com/gatewaylab/conform/pkg/matcher"
	"github.com/gatewaylab/conform/pkg/models"
	"github.com/gatewaylab/conform/pkg/platform/executor"
)

const defaultBatchSize = 10

type validator struct {
	logger     *zap.Logger
	registry   ExecutorRegistry
	fixtures   FixtureDB
	classifier *matcher.Classifier
	config     config.Config
}

func New(logger *zap.Logger, registry ExecutorRegistry, fixtures FixtureDB, classifier *matcher.Classifier, cfg config.Config) Service {
	if classifier == nil {
		classifier = matcher.NewClassifier(cfg.Validate.VolatileFields...)
	}
	return &validator{
		logger:     logger,
		registry:   registry,
		fixtures:   fixtures,
		classifier: classifier,
		config:     cfg,
	}
}

// pair is one cell of the validation matrix. err carries configuration
// problems detected while building the matrix (unknown format or provider
// alias); such pairs short-circuit into error results instead of aborting
// the run.
type pair struct {
	format   models.WireFormat
	caseName string
	provider string
	model    string
	err      string
}

func (v *validator) Validate(ctx context.Context, opts models.ValidateOptions) ([]models.ValidationResult, error) {
	pairs := v.buildMatrix(opts)
	v.logger.Info("starting validation",
		zap.Int("pairs", len(pairs)),
		zap.Bool("stream", opts.Stream),
		zap.String("target", opts.ProxyURL))

	batchSize := v.config.Validate.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	results := make([]models.ValidationResult, 0, len(pairs))
	var mu sync.Mutex

	// Pairs race freely inside a batch; batch N+1 never starts before
	// batch N settles, which bounds outstanding connections to the target.
	for start := 0; start < len(pairs); start += batchSize {
		end := start + batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, p := range pairs[start:end] {
			p := p
			g.Go(func() error {
				res := v.runPair(gctx, p, opts)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				if opts.OnResult != nil {
					opts.OnResult(res)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return results, err
		}
	}
	return results, nil
}

func (v *validator) buildMatrix(opts models.ValidateOptions) []pair {
	formats := opts.Formats
	if len(formats) == 0 {
		formats = v.registry.Formats()
	}
	providers := opts.Providers
	if len(providers) == 0 {
		providers = v.config.Validate.SelectedProviders
	}

	var pairs []pair
	for _, format := range formats {
		exec, ok := v.registry.Get(format)
		if !ok {
			for _, alias := range providers {
				pairs = append(pairs, pair{
					format:   format,
					provider: alias,
					err:      fmt.Sprintf("unknown wire format %q", format),
				})
			}
			continue
		}

		caseNames := opts.Cases
		if len(caseNames) == 0 {
			if opts.All {
				caseNames = exec.CaseNames()
			} else {
				caseNames = v.config.Validate.DefaultCases
			}
		}

		for _, caseName := range caseNames {
			for _, alias := range providers {
				model, ok := v.config.Validate.Providers[alias]
				if !ok {
					pairs = append(pairs, pair{
						format:   format,
						caseName: caseName,
						provider: alias,
						err:      fmt.Sprintf("unknown provider alias %q", alias),
					})
					continue
				}
				pairs = append(pairs, pair{
					format:   format,
					caseName: caseName,
					provider: alias,
					model:    model,
				})
			}
		}
	}
	return pairs
}

// runPair evaluates one matrix cell through its stages: expectation-mode
// resolution, payload resolution with model override, snapshot load,
// execution, then either diffing or assertion checking. No stage retries;
// the first failure terminates the pair with an error result. The deferred
// recover is defense in depth so one pair can never take down the matrix.
func (v *validator) runPair(ctx context.Context, p pair, opts models.ValidateOptions) (result models.ValidationResult) {
	started := time.Now()
	result = models.ValidationResult{
		Format:   p.format,
		CaseName: p.caseName,
		Model:    p.model,
	}
	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Warning = false
			result.Diff = nil
			result.Error = fmt.Sprintf("panic while validating %s/%s: %v", p.format, p.caseName, r)
		}
		result.DurationMs = time.Since(started).Milliseconds()
	}()

	if p.err != "" {
		result.Error = p.err
		return result
	}

	exec, ok := v.registry.Get(p.format)
	if !ok {
		result.Error = fmt.Sprintf("unknown wire format %q", p.format)
		return result
	}

	expectation := exec.Expectation(p.caseName)
	if expectation == nil {
		fileExpectation, err := v.fixtures.LoadExpectation(p.caseName, p.provider)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		expectation = fileExpectation
	}

	payload, ok := exec.Cases()[p.caseName]
	if !ok {
		result.Error = fmt.Sprintf("case %q not found for format %s", p.caseName, p.format)
		return result
	}
	payload = overrideModel(payload, p.model)

	if expectation != nil {
		v.evaluateExpectation(ctx, exec, p, payload, expectation, opts, &result)
		return result
	}
	v.evaluateSnapshot(ctx, exec, p, payload, opts, &result)
	return result
}

func (v *validator) execute(ctx context.Context, exec executor.Executor, caseName string, payload any, opts models.ValidateOptions, stream bool) models.CaptureResult {
	timeout := time.Duration(v.config.Validate.APITimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	// A hung call must not stall its whole batch.
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return exec.Execute(execCtx, caseName, payload, executor.ExecuteOptions{
		Stream:  stream,
		BaseURL: opts.ProxyURL,
		APIKey:  opts.APIKey,
	})
}

func (v *validator) evaluateExpectation(ctx context.Context, exec executor.Executor, p pair, payload any, expectation *models.Expectation, opts models.ValidateOptions, result *models.ValidationResult) {
	capture := v.execute(ctx, exec, p.caseName, payload, opts, false)
	if capture.Error != "" {
		result.Error = capture.Error
		return
	}

	if capture.StatusCode != expectation.Status {
		result.Error = fmt.Sprintf("expected status %d, got %d", expectation.Status, capture.StatusCode)
		if opts.Verbose {
			result.ActualResponse = capture.Response
		}
		return
	}

	for _, assertion := range expectation.Fields {
		if msg := checkAssertion(capture.Response, assertion); msg != "" {
			result.Error = msg
			if opts.Verbose {
				result.ActualResponse = capture.Response
			}
			return
		}
	}
	result.Success = true
}

func (v *validator) evaluateSnapshot(ctx context.Context, exec executor.Executor, p pair, payload any, opts models.ValidateOptions, result *models.ValidationResult) {
	expected, err := v.fixtures.LoadResponse(p.caseName, p.provider, opts.Stream)
	if err != nil {
		result.Error = err.Error()
		return
	}

	capture := v.execute(ctx, exec, p.caseName, payload, opts, opts.Stream)
	if capture.Error != "" {
		result.Error = capture.Error
		return
	}
	if capture.StatusCode >= 300 {
		result.Error = fmt.Sprintf("unexpected status %d from target", capture.StatusCode)
		return
	}

	actual := capture.Response
	if opts.Stream {
		actual = anySlice(capture.StreamingResponse)
	}

	diff := matcher.Compare(expected, actual, exec.IgnoredFields())

	if diff.Match && v.fixtures.HasFollowUp(p.caseName, p.provider) {
		followDiff, errMsg := v.evaluateFollowUp(ctx, exec, p, opts)
		if errMsg != "" {
			result.Error = errMsg
			return
		}
		diff = followDiff
	}

	if diff.Match {
		result.Success = true
		return
	}

	result.Diff = &diff
	if v.classifier.HasOnlyMinorDiffs(diff) {
		result.Success = true
		result.Warning = true
		return
	}

	result.Success = false
	if opts.Verbose {
		result.ActualResponse = actual
		if patch, err := jsondiff.Compare(expected, actual); err == nil {
			if raw, err := json.Marshal(patch); err == nil {
				result.Patch = string(raw)
			}
		}
	}
}

// evaluateFollowUp runs the second conversation turn of a case and reports
// its diffs under a "followup." path prefix.
func (v *validator) evaluateFollowUp(ctx context.Context, exec executor.Executor, p pair, opts models.ValidateOptions) (models.DiffResult, string) {
	followRequest, err := v.fixtures.LoadFollowUpRequest(p.caseName, p.provider)
	if err != nil {
		return models.DiffResult{}, err.Error()
	}
	followExpected, err := v.fixtures.LoadFollowUpResponse(p.caseName, p.provider, opts.Stream)
	if err != nil {
		return models.DiffResult{}, err.Error()
	}

	capture := v.execute(ctx, exec, p.caseName, overrideModel(followRequest, p.model), opts, opts.Stream)
	if capture.Error != "" {
		return models.DiffResult{}, capture.Error
	}
	if capture.StatusCode >= 300 {
		return models.DiffResult{}, fmt.Sprintf("unexpected status %d from target on follow-up turn", capture.StatusCode)
	}

	actual := capture.Response
	if opts.Stream {
		actual = anySlice(capture.StreamingResponse)
	}

	diff := matcher.Compare(followExpected, actual, exec.IgnoredFields())
	for i := range diff.Diffs {
		if diff.Diffs[i].Path == "" {
			diff.Diffs[i].Path = "followup"
			continue
		}
		diff.Diffs[i].Path = "followup." + diff.Diffs[i].Path
	}
	return diff, ""
}

// overrideModel substitutes the target provider's canonical model into a
// provider-agnostic payload, leaving the registered definition untouched.
func overrideModel(payload any, model string) any {
	m, ok := payload.(map[string]any)
	if !ok || model == "" {
		return payload
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = val
	}
	out["model"] = model
	return out
}

func anySlice(chunks []any) any {
	if chunks == nil {
		return nil
	}
	return chunks
}
