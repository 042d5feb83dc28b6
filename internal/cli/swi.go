package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cgt-buildtools/internal/app"
)

type swiOptions struct {
	BuildFile string
	JumpTable string
	Output    string
}

func newSWICommand() *cobra.Command {
	opts := swiOptions{}
	cmd := &cobra.Command{
		Use:   "swi [pattern...]",
		Short: "Collect SWI aliases and resolve them against the jump table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSWI(cmd.Context(), cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.BuildFile, "build-file", app.DefaultBuildFile, "Build description file providing the swi section")
	cmd.Flags().StringVar(&opts.JumpTable, "jump-table", "", "Assembler file containing the SWI jump table")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Combined report path (default: <out>/swi.json)")
	_ = viper.BindPFlag("build_file", cmd.Flags().Lookup("build-file"))
	return cmd
}

func runSWI(ctx context.Context, cmd *cobra.Command, opts swiOptions, patterns []string) error {
	service := newAppService()
	result, err := service.SearchSWI(ctx, app.SWIRequest{
		Root:      projectRoot(),
		BuildDir:  buildDir(),
		BuildFile: resolveString(cmd, opts.BuildFile, "build_file", "build-file"),
		Files:     patterns,
		JumpTable: opts.JumpTable,
		Output:    opts.Output,
	})
	if err != nil {
		return err
	}
	functions := 0
	for _, report := range result.Reports {
		functions += len(report.Functions)
	}
	fmt.Printf("swi aliases: %d in %d file(s), written to %s\n", functions, len(result.Reports), result.Output)
	return nil
}
