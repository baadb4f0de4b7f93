// Package utils holds small helpers shared across the suite.
package utils

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is injected at build time through ldflags.
var Version = "dev"

// ErrValidationFailed marks a run in which at least one pair failed; the CLI
// maps it to a non-zero exit code. Warnings never produce it.
var ErrValidationFailed = fmt.Errorf("one or more validations failed")

// BindFlagsToViper binds every flag of the command under the given viper key
// prefix, so flat flag names land on nested config keys. An empty prefix
// defaults to the command's name. Each key is also bound to the matching
// upper-snake environment variable.
func BindFlagsToViper(logger *zap.Logger, cmd *cobra.Command, viperKeyPrefix string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if viperKeyPrefix == "" {
			viperKeyPrefix = cmd.Name()
		}
		viperKey := viperKeyPrefix + "." + flag.Name
		if err := viper.BindPFlag(viperKey, flag); err != nil {
			LogError(logger, err, "failed to bind the flag to viper", zap.String("flag", flag.Name))
			bindErr = err
		}

		envVarName := strings.ToUpper(strings.ReplaceAll(viperKey, ".", "_"))
		if err := viper.BindEnv(viperKey, envVarName); err != nil {
			LogError(logger, err, "failed to bind the environment variable", zap.String("env", envVarName))
			bindErr = err
		}
	})
	return bindErr
}

// LogError logs an error with a message and optional fields, tolerating a
// nil logger during early startup.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if logger == nil {
		fmt.Println("logger is not initialized:", msg, err)
		return
	}
	fields = append(fields, zap.Error(err))
	logger.Error(msg, fields...)
}
