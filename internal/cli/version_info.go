package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cgt-buildtools/internal/app"
)

type versionInfoOptions struct {
	BuildFile string
	Version   string
	OutputDir string
}

func newVersionInfoCommand() *cobra.Command {
	opts := versionInfoOptions{}
	cmd := &cobra.Command{
		Use:   "version-info",
		Short: "Print the version derived from git and optionally write version_cfg.c/.h",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersionInfo(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.BuildFile, "build-file", app.DefaultBuildFile, "Build description file providing the version")
	cmd.Flags().StringVar(&opts.Version, "project-version", "", "Version to compare the git tag against")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Directory receiving the generated version sources")
	_ = viper.BindPFlag("build_file", cmd.Flags().Lookup("build-file"))
	_ = viper.BindPFlag("project_version", cmd.Flags().Lookup("project-version"))
	return cmd
}

func runVersionInfo(ctx context.Context, cmd *cobra.Command, opts versionInfoOptions) error {
	service := newAppService()
	result, err := service.Version(ctx, app.VersionRequest{
		Root:      projectRoot(),
		BuildFile: resolveString(cmd, opts.BuildFile, "build_file", "build-file"),
		Version:   resolveString(cmd, opts.Version, "project_version", "project-version"),
		OutputDir: opts.OutputDir,
	})
	if err != nil {
		return err
	}
	desc := result.Descriptor
	fmt.Printf("version: %s\n", desc.Version)
	fmt.Printf("tag: %s\n", desc.Tag)
	fmt.Printf("under version control: %t\n", desc.UnderVersionControl)
	fmt.Printf("dirty: %t\n", desc.IsDirty)
	fmt.Printf("remote: %s\n", desc.RemoteURL)
	for _, file := range result.Files {
		fmt.Printf("wrote: %s\n", file)
	}
	return nil
}
