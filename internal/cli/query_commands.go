package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rosiface/internal/app"
	"rosiface/internal/types"
)

func newGetInterfaceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get-interface <component> <track> <category>",
		Short: "Print the effective entries of one interface category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetInterface(cmd.Context(), cmd, args)
		},
	}
}

func runGetInterface(ctx context.Context, cmd *cobra.Command, args []string) error {
	service, err := loadService(ctx, cmd)
	if err != nil {
		return err
	}
	writer, err := recordWriter(cmd)
	if err != nil {
		return err
	}
	result, err := service.GetInterface(ctx, app.GetInterfaceRequest{
		Component: args[0],
		Track:     args[1],
		Category:  args[2],
	})
	if err != nil {
		return err
	}
	return writer.WriteEntries(result.Component, result.Track, result.Category, result.Entries)
}

type diffOptions struct {
	Unified bool
}

func newDiffCommand() *cobra.Command {
	opts := diffOptions{}
	cmd := &cobra.Command{
		Use:   "diff <component> <trackA> <trackB>",
		Short: "Compare the effective interfaces of two tracks",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Unified, "unified", false, "Print a line diff of the exported documents")
	_ = viper.BindPFlag("diff.unified", cmd.Flags().Lookup("unified"))
	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, args []string, opts diffOptions) error {
	service, err := loadService(ctx, cmd)
	if err != nil {
		return err
	}
	writer, err := recordWriter(cmd)
	if err != nil {
		return err
	}
	result, err := service.Diff(ctx, app.DiffRequest{
		Component: args[0],
		TrackA:    args[1],
		TrackB:    args[2],
		Unified:   resolveBool(cmd, opts.Unified, "diff.unified", "unified"),
	})
	if err != nil {
		return err
	}
	if result.Unified != "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), result.Unified)
		return err
	}
	return writer.WriteDiff(result.Diff)
}

type validateOptions struct {
	All bool
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [component]",
		Short: "Resolve and validate every track of a component",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.All, "all", false, "Validate every loaded component")
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, args []string, opts validateOptions) error {
	service, err := loadService(ctx, cmd)
	if err != nil {
		return err
	}
	writer, err := recordWriter(cmd)
	if err != nil {
		return err
	}
	req := app.ValidateRequest{All: resolveBool(cmd, opts.All, "validate.all", "all")}
	if len(args) == 1 {
		req.Component = args[0]
	}
	result, validateErr := service.Validate(ctx, req)
	for _, report := range append(result.Reports, result.LoadFailures...) {
		if err := writer.WriteReport(report); err != nil {
			return err
		}
	}
	return validateErr
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [component]",
		Short: "List loaded components, or the tracks of one component",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), cmd, args)
		},
	}
}

func runList(ctx context.Context, cmd *cobra.Command, args []string) error {
	service, err := loadService(ctx, cmd)
	if err != nil {
		return err
	}
	writer, err := recordWriter(cmd)
	if err != nil {
		return err
	}
	req := app.ListRequest{}
	if len(args) == 1 {
		req.Component = args[0]
	}
	result, err := service.List(ctx, req)
	if err != nil {
		return err
	}
	if result.Component != "" {
		return writer.WriteTracks(result.Component, result.Tracks)
	}
	return writer.WriteComponents(result.Components)
}

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <component> <track>",
		Short: "Print a resolved track as a concrete descriptor document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cmd, args)
		},
	}
}

func runExport(ctx context.Context, cmd *cobra.Command, args []string) error {
	service, err := loadService(ctx, cmd)
	if err != nil {
		return err
	}
	format := outputFormat(cmd)
	if format == types.OutputFormatText {
		format = types.OutputFormatYAML
	}
	result, err := service.Export(ctx, app.ExportRequest{Component: args[0], Track: args[1], Format: format})
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(result.Data)
	return err
}

type namesOptions struct {
	Node string
}

func newNamesCommand() *cobra.Command {
	opts := namesOptions{}
	cmd := &cobra.Command{
		Use:   "names <component> <track>",
		Short: "Resolve the full graph names of a track's entries for a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNames(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Node, "node", "", "Fully qualified node name, e.g. /camera/prosilica")
	_ = viper.BindPFlag("names.node", cmd.Flags().Lookup("node"))
	return cmd
}

func runNames(ctx context.Context, cmd *cobra.Command, args []string, opts namesOptions) error {
	service, err := loadService(ctx, cmd)
	if err != nil {
		return err
	}
	writer, err := recordWriter(cmd)
	if err != nil {
		return err
	}
	result, err := service.Names(ctx, app.NamesRequest{
		Component: args[0],
		Track:     args[1],
		Node:      resolveString(cmd, opts.Node, "names.node", "node"),
	})
	if err != nil {
		return err
	}
	return writer.WriteNames(result.Names)
}

type findOptions struct {
	Track string
}

func newFindCommand() *cobra.Command {
	opts := findOptions{}
	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Find the components that declare an entry name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Track, "track", "", "Only search this track")
	_ = viper.BindPFlag("find.track", cmd.Flags().Lookup("track"))
	return cmd
}

func runFind(ctx context.Context, cmd *cobra.Command, args []string, opts findOptions) error {
	service, err := loadService(ctx, cmd)
	if err != nil {
		return err
	}
	writer, err := recordWriter(cmd)
	if err != nil {
		return err
	}
	result, err := service.Find(ctx, app.FindRequest{
		Name:  args[0],
		Track: resolveString(cmd, opts.Track, "find.track", "track"),
	})
	if err != nil {
		return err
	}
	return writer.WriteMatches(result.Matches)
}
