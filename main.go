// Package main starts the conform CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentry "github.com/getsentry/sentry-go"

	"github.com/gatewaylab/conform/cli"
	"github.com/gatewaylab/conform/cli/provider"
	"github.com/gatewaylab/conform/config"
	"github.com/gatewaylab/conform/utils"
	"github.com/gatewaylab/conform/utils/log"
)

// version and dsn are injected during build by ldflags
// see https://goreleaser.com/customization/build/
var version string
var dsn string

func main() {
	if version == "" {
		version = "dev"
	}
	utils.Version = version

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		TracesSampleRate: 1.0,
	})
	if err == nil {
		defer sentry.Flush(2 * time.Second)
	}

	logger, err := log.New()
	if err != nil {
		fmt.Println("failed to start the logger for the CLI", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	conf, err := config.New()
	if err != nil {
		utils.LogError(logger, err, "failed to build the default configuration")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcProvider := provider.NewServiceProvider(logger, conf)
	cmdConfigurator := provider.NewCmdConfigurator(logger, conf)

	rootCmd := cli.Root(ctx, logger, conf, svcProvider, cmdConfigurator)
	if rootCmd == nil {
		os.Exit(1)
	}
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, utils.ErrValidationFailed) {
			utils.LogError(logger, err, "failed to run the command")
		}
		os.Exit(1)
	}
}
