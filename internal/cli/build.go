package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cgt-buildtools/internal/app"
)

type buildOptions struct {
	BuildFile string
	Targets   []string
}

func newBuildCommand() *cobra.Command {
	opts := buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile, link and post-process all targets of the build file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.BuildFile, "build-file", app.DefaultBuildFile, "Build description file")
	cmd.Flags().StringSliceVar(&opts.Targets, "target", nil, "Only build these targets")
	_ = viper.BindPFlag("build_file", cmd.Flags().Lookup("build-file"))
	_ = viper.BindPFlag("targets", cmd.Flags().Lookup("target"))
	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, opts buildOptions) error {
	service := newAppService()
	result, err := service.Build(ctx, app.BuildRequest{
		Root:      projectRoot(),
		BuildDir:  buildDir(),
		BuildFile: resolveString(cmd, opts.BuildFile, "build_file", "build-file"),
		Targets:   resolveStrings(cmd, opts.Targets, "targets", "target"),
	})
	if err != nil {
		return err
	}
	if result.Version.Version != "" {
		fmt.Printf("version: %s\n", result.Version.Version)
	}
	fmt.Printf("tasks: %d run, %d up to date\n", result.Executed(), len(result.Results)-result.Executed())
	return nil
}
