package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rosiface/internal/adapters"
	"rosiface/internal/app"
	"rosiface/internal/types"
)

var newAppService = app.NewService

// loadService creates the app service and loads the configured descriptors.
func loadService(ctx context.Context, cmd *cobra.Command) (app.Service, error) {
	service := newAppService()
	_, err := service.LoadDescriptors(ctx, app.LoadRequest{Paths: descriptorPaths(cmd)})
	if err != nil {
		return app.Service{}, err
	}
	return service, nil
}

// descriptorPaths and outputFormat read persistent flags through their
// viper bindings, so flags win over environment and config file.
func descriptorPaths(_ *cobra.Command) []string {
	return viper.GetStringSlice("descriptors")
}

func outputFormat(_ *cobra.Command) types.OutputFormat {
	return types.OutputFormat(strings.ToLower(strings.TrimSpace(viper.GetString("format"))))
}

func recordWriter(cmd *cobra.Command) (adapters.RecordWriter, error) {
	return adapters.NewRecordWriter(cmd.OutOrStdout(), outputFormat(cmd))
}

// resolveString prefers an explicitly set flag over config and environment.
func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func resolveDuration(cmd *cobra.Command, value time.Duration, key string, flagName string) time.Duration {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
