// Package provider wires flags, the config file, and service construction
// into the command tree.
package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gatewaylab/conform/config"
	"github.com/gatewaylab/conform/utils"
	"github.com/gatewaylab/conform/utils/log"
)

const configFileName = "conform"

type CmdConfigurator struct {
	logger *zap.Logger
	cfg    *config.Config
}

func NewCmdConfigurator(logger *zap.Logger, cfg *config.Config) *CmdConfigurator {
	return &CmdConfigurator{logger: logger, cfg: cfg}
}

func (c *CmdConfigurator) AddFlags(cmd *cobra.Command) error {
	var err error
	switch cmd.Name() {
	case "conform":
		cmd.PersistentFlags().Bool("debug", c.cfg.Debug, "Run in debug mode")
		cmd.PersistentFlags().String("configPath", c.cfg.ConfigPath, "Path to the local directory where the conform config file is stored")
		cmd.PersistentFlags().StringP("path", "p", c.cfg.Path, "Path to the local directory where golden snapshots are stored")
		cmd.PersistentFlags().String("proxyUrl", c.cfg.ProxyURL, "Base URL of the target gateway under validation")
		cmd.PersistentFlags().String("apiKey", c.cfg.APIKey, "API key forwarded to the target gateway")
		err = viper.BindPFlags(cmd.PersistentFlags())
	case "validate":
		cmd.Flags().StringSliceP("formats", "f", c.cfg.Validate.Formats, "Wire formats to validate e.g. --formats \"chat-completions,anthropic\"")
		cmd.Flags().StringSliceP("cases", "c", c.cfg.Validate.Cases, "Cases to run e.g. --cases \"simple-chat,tool-call\"")
		cmd.Flags().StringSlice("selectedProviders", c.cfg.Validate.SelectedProviders, "Provider aliases to route through the gateway")
		cmd.Flags().Bool("all", c.cfg.Validate.All, "Run every registered case of the selected formats")
		cmd.Flags().Bool("stream", c.cfg.Validate.Stream, "Validate the streaming variant of each case")
		cmd.Flags().Bool("verbose", c.cfg.Validate.Verbose, "Show every diff row plus the raw patch and live response on failures")
		cmd.Flags().Int("batchSize", c.cfg.Validate.BatchSize, "Number of (case, provider) pairs executed concurrently")
		cmd.Flags().Uint64("apiTimeout", c.cfg.Validate.APITimeout, "Timeout for one gateway round trip, in seconds")
		cmd.Flags().String("collectionsPath", c.cfg.Validate.CollectionsPath, "Path to the yaml file mapping collection names to case lists")
		cmd.Flags().String("collection", c.cfg.Validate.Collection, "Named case list from the collections file to run")
		cmd.Flags().Int("maxShownDiffs", c.cfg.Validate.MaxShownDiffs, "Diff rows printed per failing pair before truncation")
		cmd.Flags().StringSlice("volatileFields", c.cfg.Validate.VolatileFields, "Extra path patterns classified as volatile")
		err = utils.BindFlagsToViper(c.logger, cmd, "")
	case "anonymize":
		cmd.Flags().Bool("allStrings", c.cfg.Anonymize.AllStrings, "Replace every leaf string, not just content-scoped ones")
		cmd.Flags().StringSlice("preserveKeys", c.cfg.Anonymize.PreserveKeys, "Keys whose string values are kept verbatim")
		cmd.Flags().String("prefix", c.cfg.Anonymize.Prefix, "Prefix of the generated replacement tokens")
		cmd.Flags().StringP("output", "o", c.cfg.Anonymize.Output, "Write the anonymized document here instead of in place")
		err = utils.BindFlagsToViper(c.logger, cmd, "")
	default:
		return errors.New("unknown command name")
	}
	if err != nil {
		utils.LogError(c.logger, err, "failed to bind the command flags", zap.String("command", cmd.Name()))
		return err
	}
	return nil
}

// ValidateFlags resolves the final configuration for a subcommand run: the
// conform.yml file when present, then flags and environment on top via
// viper's precedence rules.
func (c *CmdConfigurator) ValidateFlags(_ context.Context, cmd *cobra.Command) error {
	configPath := viper.GetString("configPath")
	if configPath == "" {
		configPath = c.cfg.ConfigPath
	}

	if _, err := os.Stat(filepath.Join(configPath, configFileName+".yml")); err == nil {
		viper.SetConfigName(configFileName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configPath)
		if err := viper.ReadInConfig(); err != nil {
			errMsg := "failed to read the config file"
			utils.LogError(c.logger, err, errMsg)
			return errors.New(errMsg)
		}
	}
	if err := viper.Unmarshal(c.cfg); err != nil {
		errMsg := "failed to unmarshal the config"
		utils.LogError(c.logger, err, errMsg)
		return errors.New(errMsg)
	}

	if c.cfg.Debug {
		logger, err := log.ChangeLogLevel(zap.DebugLevel)
		if err != nil {
			utils.LogError(c.logger, err, "failed to change the log level")
			return err
		}
		c.logger = logger
	}

	if cmd.Name() == "validate" && c.cfg.ProxyURL == "" {
		utils.LogError(c.logger, nil, "Couldn't find the target gateway to validate")
		c.logger.Info(`Example usage: conform validate --proxyUrl "http://localhost:8787" --cases "simple-chat"`)
		return errors.New("missing required --proxyUrl flag or proxyUrl in config file")
	}

	c.logger.Debug("initialized with configuration", zap.Any("conf", c.cfg))
	return nil
}
