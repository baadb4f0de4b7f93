package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gatewaylab/conform/config"
	"github.com/gatewaylab/conform/pkg/models"
	"github.com/gatewaylab/conform/pkg/platform/fixture"
	"github.com/gatewaylab/conform/pkg/report"
	validateSvc "github.com/gatewaylab/conform/pkg/service/validate"
	"github.com/gatewaylab/conform/utils"
)

func init() {
	Register("validate", Validate)
}

func Validate(ctx context.Context, logger *zap.Logger, cfg *config.Config, serviceFactory ServiceFactory, cmdConfigurator CmdConfigurator) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "validate",
		Short:   "run the conformance matrix against the target gateway",
		Example: `conform validate --proxyUrl "http://localhost:8787" --formats "chat-completions" --cases "simple-chat"`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmdConfigurator.ValidateFlags(ctx, cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := serviceFactory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get the validate service")
				return err
			}
			validator, ok := svc.(validateSvc.Service)
			if !ok {
				utils.LogError(logger, nil, "service doesn't satisfy validate service interface")
				return fmt.Errorf("service unavailable for %s", cmd.Name())
			}

			opts, err := buildValidateOptions(logger, cfg)
			if err != nil {
				return err
			}

			printer := report.New(logger, *cfg, nil)
			opts.OnResult = func(res models.ValidationResult) {
				printer.PrintResult(res, cfg.Validate.Verbose)
			}

			results, err := validator.Validate(ctx, opts)
			if err != nil {
				utils.LogError(logger, err, "validation run aborted")
				return err
			}

			totals := printer.Summary(results)
			if totals.Failed > 0 {
				return utils.ErrValidationFailed
			}
			return nil
		},
	}

	if err := cmdConfigurator.AddFlags(cmd); err != nil {
		utils.LogError(logger, err, "failed to add the validate command flags")
		return nil
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}

// buildValidateOptions maps the resolved config onto the service options,
// expanding the selected collection into a case list when one is named.
func buildValidateOptions(logger *zap.Logger, cfg *config.Config) (models.ValidateOptions, error) {
	opts := models.ValidateOptions{
		ProxyURL:  cfg.ProxyURL,
		APIKey:    cfg.APIKey,
		Cases:     cfg.Validate.Cases,
		Providers: cfg.Validate.SelectedProviders,
		All:       cfg.Validate.All,
		Stream:    cfg.Validate.Stream,
		Verbose:   cfg.Validate.Verbose,
	}

	for _, raw := range cfg.Validate.Formats {
		format, err := models.StringToWireFormat(raw)
		if err != nil {
			utils.LogError(logger, err, "unknown wire format", zap.String("format", raw))
			return opts, fmt.Errorf("unknown wire format %q", raw)
		}
		opts.Formats = append(opts.Formats, format)
	}

	if collection := cfg.Validate.Collection; collection != "" {
		collections, err := fixture.LoadCollections(cfg.Validate.CollectionsPath)
		if err != nil {
			utils.LogError(logger, err, "failed to load the collections file", zap.String("path", cfg.Validate.CollectionsPath))
			return opts, err
		}
		cases, ok := collections[collection]
		if !ok {
			return opts, fmt.Errorf("collection %q not found in %s", collection, cfg.Validate.CollectionsPath)
		}
		opts.Cases = cases
	}
	return opts, nil
}
