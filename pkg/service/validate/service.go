// Package validate runs the (case x provider) conformance matrix against a
// target gateway and turns captures into pass/warn/fail verdicts.
package validate

import (
	"context"

	"github.com/gatewaylab/conform/pkg/models"
	"github.com/gatewaylab/conform/pkg/platform/executor"
)

type Service interface {
	Validate(ctx context.Context, opts models.ValidateOptions) ([]models.ValidationResult, error)
}

// FixtureDB is the snapshot store the orchestrator reads. It is never
// written to during validation.
type FixtureDB interface {
	LoadResponse(caseName, provider string, stream bool) (any, error)
	LoadFollowUpRequest(caseName, provider string) (any, error)
	LoadFollowUpResponse(caseName, provider string, stream bool) (any, error)
	HasFollowUp(caseName, provider string) bool
	LoadExpectation(caseName, provider string) (*models.Expectation, error)
}

// ExecutorRegistry resolves a wire format to its executor.
type ExecutorRegistry interface {
	Get(format models.WireFormat) (executor.Executor, bool)
	Formats() []models.WireFormat
}
