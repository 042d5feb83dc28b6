package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cgt-buildtools/internal/app"
)

type configureOptions struct {
	CCOptions      string
	ToolPaths      []string
	CondaEnvFile   string
	CondaBaseEnvs  []string
	IgnoreEnvCheck bool
}

func newConfigureCommand() *cobra.Command {
	opts := configureOptions{}
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Find the TI ARM CGT tools and store the flag environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigure(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.CCOptions, "cc-options", app.DefaultCCOptions, "Path to the cc options file")
	cmd.Flags().StringSliceVar(&opts.ToolPaths, "tool-path", nil, "Directories searched for the CGT programs before PATH")
	cmd.Flags().StringVar(&opts.CondaEnvFile, "conda-env-file", "", "Path to conda environment file (enables the environment check)")
	cmd.Flags().StringSliceVar(&opts.CondaBaseEnvs, "conda-base-env", nil, "Installation directory of the miniconda base environment")
	cmd.Flags().BoolVar(&opts.IgnoreEnvCheck, "ignore-env-check", false, "Disable environment checking (not recommended)")
	_ = viper.BindPFlag("cc_options", cmd.Flags().Lookup("cc-options"))
	_ = viper.BindPFlag("tool_paths", cmd.Flags().Lookup("tool-path"))
	_ = viper.BindPFlag("conda_env_file", cmd.Flags().Lookup("conda-env-file"))
	_ = viper.BindPFlag("conda_base_envs", cmd.Flags().Lookup("conda-base-env"))
	_ = viper.BindPFlag("ignore_env_check", cmd.Flags().Lookup("ignore-env-check"))
	return cmd
}

func runConfigure(ctx context.Context, cmd *cobra.Command, opts configureOptions) error {
	service := newAppService()
	result, err := service.Configure(ctx, app.ConfigureRequest{
		Root:           projectRoot(),
		BuildDir:       buildDir(),
		CCOptionsPath:  resolveString(cmd, opts.CCOptions, "cc_options", "cc-options"),
		ToolPaths:      resolveStrings(cmd, opts.ToolPaths, "tool_paths", "tool-path"),
		CondaEnvFile:   resolveString(cmd, opts.CondaEnvFile, "conda_env_file", "conda-env-file"),
		CondaBaseEnvs:  resolveStrings(cmd, opts.CondaBaseEnvs, "conda_base_envs", "conda-base-env"),
		IgnoreEnvCheck: resolveBool(cmd, opts.IgnoreEnvCheck, "ignore_env_check", "ignore-env-check"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("configured: %s (%s)\n", result.Compiler, result.CompilerVersion)
	fmt.Printf("environment: %s\n", result.EnvPath)
	return nil
}
