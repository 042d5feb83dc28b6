package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cgt-buildtools/internal/app"
)

type checkEnvOptions struct {
	CondaEnvFile  string
	CondaBaseEnvs []string
	Conda         string
	Python        string
}

func newCheckEnvCommand() *cobra.Command {
	opts := checkEnvOptions{}
	cmd := &cobra.Command{
		Use:   "check-env",
		Short: "Check the conda development environment against its environment file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheckEnv(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.CondaEnvFile, "conda-env-file", "", "Path to conda environment file")
	cmd.Flags().StringSliceVar(&opts.CondaBaseEnvs, "conda-base-env", nil, "Installation directory of the miniconda base environment")
	cmd.Flags().StringVar(&opts.Conda, "conda", "", "conda executable")
	cmd.Flags().StringVar(&opts.Python, "python", "", "Configured Python interpreter")
	_ = viper.BindPFlag("conda_env_file", cmd.Flags().Lookup("conda-env-file"))
	_ = viper.BindPFlag("conda_base_envs", cmd.Flags().Lookup("conda-base-env"))
	_ = viper.BindPFlag("conda", cmd.Flags().Lookup("conda"))
	_ = viper.BindPFlag("python", cmd.Flags().Lookup("python"))
	return cmd
}

func runCheckEnv(ctx context.Context, cmd *cobra.Command, opts checkEnvOptions) error {
	service := newAppService()
	result, err := service.CheckEnv(ctx, app.CheckEnvRequest{
		Root:     projectRoot(),
		BuildDir: buildDir(),
		SpecPath: resolveString(cmd, opts.CondaEnvFile, "conda_env_file", "conda-env-file"),
		BaseEnvs: resolveStrings(cmd, opts.CondaBaseEnvs, "conda_base_envs", "conda-base-env"),
		Conda:    resolveString(cmd, opts.Conda, "conda", "conda"),
		Python:   resolveString(cmd, opts.Python, "python", "python"),
	})
	for _, issue := range result.Issues {
		fmt.Printf("%s: %s\n", issue.Source, issue.Reason)
	}
	if err != nil {
		return err
	}
	fmt.Printf("environment ok: %s (%s)\n", result.EnvName, result.EnvPath)
	return nil
}
