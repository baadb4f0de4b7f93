package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gatewaylab/conform/config"
	anonymizeSvc "github.com/gatewaylab/conform/pkg/service/anonymize"
	"github.com/gatewaylab/conform/utils"
)

func init() {
	Register("anonymize", Anonymize)
}

func Anonymize(ctx context.Context, logger *zap.Logger, cfg *config.Config, serviceFactory ServiceFactory, cmdConfigurator CmdConfigurator) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "anonymize <file>",
		Short:   "replace the user strings of a captured JSON document with stable tokens",
		Example: `conform anonymize ./snapshots/simple-chat/openai/response.json --output ./sanitized.json`,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmdConfigurator.ValidateFlags(ctx, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := serviceFactory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get the anonymize service")
				return err
			}
			anonymizer, ok := svc.(anonymizeSvc.Service)
			if !ok {
				utils.LogError(logger, nil, "service doesn't satisfy anonymize service interface")
				return fmt.Errorf("service unavailable for %s", cmd.Name())
			}

			result, err := anonymizer.AnonymizeFile(args[0], cfg.Anonymize.Output, anonymizeSvc.Options{
				AllStrings:   cfg.Anonymize.AllStrings,
				PreserveKeys: cfg.Anonymize.PreserveKeys,
				Prefix:       cfg.Anonymize.Prefix,
			})
			if err != nil {
				utils.LogError(logger, err, "failed to anonymize the file", zap.String("file", args[0]))
				return err
			}

			logger.Info("anonymized the document",
				zap.String("file", args[0]),
				zap.Int("replaced strings", result.ReplacedStringCount),
				zap.Int("unique replacements", result.UniqueReplacementCount))
			return nil
		},
	}

	if err := cmdConfigurator.AddFlags(cmd); err != nil {
		utils.LogError(logger, err, "failed to add the anonymize command flags")
		return nil
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}
