package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rosiface/internal/app"
)

type serveOptions struct {
	Addr     string
	Watch    bool
	Debounce time.Duration
}

func newServeCommand() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve descriptor queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload descriptors when files change")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 250*time.Millisecond, "Delay before reloading changed files")
	_ = viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("watch.enabled", cmd.Flags().Lookup("watch"))
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts serveOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, err := loadService(ctx, cmd)
	if err != nil {
		return err
	}
	return service.Serve(ctx, app.ServeRequest{
		Addr:     resolveString(cmd, opts.Addr, "serve.addr", "addr"),
		Paths:    descriptorPaths(cmd),
		Watch:    resolveBool(cmd, opts.Watch, "watch.enabled", "watch"),
		Debounce: resolveDuration(cmd, opts.Debounce, "watch.debounce", "debounce"),
	})
}
