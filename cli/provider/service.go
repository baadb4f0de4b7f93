package provider

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/gatewaylab/conform/config"
	"github.com/gatewaylab/conform/pkg/platform/executor"
	"github.com/gatewaylab/conform/pkg/platform/fixture"
	"github.com/gatewaylab/conform/pkg/service/anonymize"
	"github.com/gatewaylab/conform/pkg/service/validate"
)

type ServiceProvider struct {
	logger *zap.Logger
	cfg    *config.Config
}

func NewServiceProvider(logger *zap.Logger, cfg *config.Config) *ServiceProvider {
	return &ServiceProvider{
		logger: logger,
		cfg:    cfg,
	}
}

// GetService builds the service behind a command. Construction happens here,
// after flag and config resolution, so every dependency sees final values.
func (n *ServiceProvider) GetService(_ context.Context, cmd string) (interface{}, error) {
	switch cmd {
	case "validate":
		registry := executor.NewRegistry(n.logger, nil)
		fixtures := fixture.New(n.logger, n.cfg.Path)
		return validate.New(n.logger, registry, fixtures, nil, *n.cfg), nil
	case "anonymize":
		return anonymize.New(n.logger), nil
	default:
		return nil, errors.New("unknown service name")
	}
}
