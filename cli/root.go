package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gatewaylab/conform/config"
	"github.com/gatewaylab/conform/utils"
)

var rootCustomHelpTemplate = `{{.Short}}

Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Available Commands:{{range .Commands}}{{if .IsAvailableCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

Examples:
{{.Example}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
`

var rootExamples = `
  Validate:
	conform validate --proxyUrl "http://localhost:8787" --formats "chat-completions" --cases "simple-chat,multi-turn"

  Validate everything against every configured provider:
	conform validate --proxyUrl "http://localhost:8787" --all --stream

  Anonymize a captured snapshot in place:
	conform anonymize ./snapshots/simple-chat/openai/response.json
`

// Root builds the conform root command and attaches every registered hook.
func Root(ctx context.Context, logger *zap.Logger, conf *config.Config, svcFactory ServiceFactory, cmdConfigurator CmdConfigurator) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:     "conform",
		Short:   "conform verifies a gateway's provider wire formats against golden snapshots",
		Example: rootExamples,
		Version: utils.Version,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpTemplate(rootCustomHelpTemplate)
	rootCmd.SetVersionTemplate(`{{with .Version}}{{printf "conform %s" .}}{{end}}{{"\n"}}`)

	err := cmdConfigurator.AddFlags(rootCmd)
	if err != nil {
		utils.LogError(logger, err, "failed to set the root command flags")
		return nil
	}

	for _, hook := range Registered {
		rootCmd.AddCommand(hook(ctx, logger, conf, svcFactory, cmdConfigurator))
	}
	return rootCmd
}
