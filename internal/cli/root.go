package cli

import (
	"context"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rosiface/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "ROSIFACE"

type RootConfig struct {
	ConfigFile  string
	LogLevel    string
	Descriptors []string
	Format      string
}

func Execute() {
	root := newRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:          "rosiface",
		Short:        "Query versioned ROS node interface descriptors",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringSliceVar(&cfg.Descriptors, "descriptors", []string{"."}, "Descriptor files or directories")
	cmd.PersistentFlags().StringVar(&cfg.Format, "format", string(types.OutputFormatText), "Output format (text|json)")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("descriptors", cmd.PersistentFlags().Lookup("descriptors"))
	_ = viper.BindPFlag("format", cmd.PersistentFlags().Lookup("format"))

	cmd.AddCommand(newGetInterfaceCommand())
	cmd.AddCommand(newDiffCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newNamesCommand())
	cmd.AddCommand(newFindCommand())
	cmd.AddCommand(newServeCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("rosiface")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/rosiface")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

// setupLogging sends logs to stderr; stdout carries the records.
func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func exitCodeForError(err error) int {
	if kind, ok := types.KindOf(err); ok {
		switch kind {
		case types.ErrorKindParse:
			return 2
		case types.ErrorKindValidation:
			return 3
		case types.ErrorKindUnknownComponent, types.ErrorKindUnknownTrack:
			return 4
		case types.ErrorKindUnknownBase:
			return 5
		case types.ErrorKindCycleDetected:
			return 6
		}
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 7
	case errbuilder.CodePermissionDenied:
		return 8
	case errbuilder.CodeFailedPrecondition:
		return 9
	case errbuilder.CodeNotFound:
		return 10
	case errbuilder.CodeInternal:
		return 11
	default:
		return 1
	}
}
