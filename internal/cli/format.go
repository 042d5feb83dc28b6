package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cgt-buildtools/internal/app"
)

type formatOptions struct {
	BuildFile    string
	BlackOptions []string
	PyProject    string
	Black        string
}

func newFormatCommand() *cobra.Command {
	opts := formatOptions{}
	cmd := &cobra.Command{
		Use:   "format [pattern...]",
		Short: "Format Python sources with black",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd.Context(), cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.BuildFile, "build-file", app.DefaultBuildFile, "Build description file providing the format section")
	cmd.Flags().StringArrayVar(&opts.BlackOptions, "black-option", nil, "Option passed to black")
	cmd.Flags().StringVar(&opts.PyProject, "pyproject", app.DefaultPyProject, "pyproject.toml with a [tool.black] section")
	cmd.Flags().StringVar(&opts.Black, "black", "", "black executable")
	_ = viper.BindPFlag("build_file", cmd.Flags().Lookup("build-file"))
	_ = viper.BindPFlag("black_options", cmd.Flags().Lookup("black-option"))
	_ = viper.BindPFlag("pyproject", cmd.Flags().Lookup("pyproject"))
	_ = viper.BindPFlag("black", cmd.Flags().Lookup("black"))
	return cmd
}

func runFormat(ctx context.Context, cmd *cobra.Command, opts formatOptions, patterns []string) error {
	service := newAppService()
	result, err := service.Format(ctx, app.FormatRequest{
		Root:      projectRoot(),
		BuildDir:  buildDir(),
		BuildFile: resolveString(cmd, opts.BuildFile, "build_file", "build-file"),
		Patterns:  patterns,
		Options:   resolveStrings(cmd, opts.BlackOptions, "black_options", "black-option"),
		PyProject: resolveString(cmd, opts.PyProject, "pyproject", "pyproject"),
		Black:     resolveString(cmd, opts.Black, "black", "black"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("formatted: %d file(s)\n", len(result.Files))
	return nil
}
